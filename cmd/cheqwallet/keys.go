package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cheqd/wallet-core/cmd/cheqwallet/setting"
	"github.com/cheqd/wallet-core/crypto/keystore"
	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/utils"
	"github.com/cheqd/wallet-core/wallet"
)

const (
	hdPathFlag   = "hd-path"
	mnemonicFlag = "mnemonic"
	passwordFlag = "password"
	keystoreFlag = "keystore"
	prefixFlag   = "prefix"
	nameFlag     = "name"
	outputFlag   = "output"

	passwordEnv = "CHEQWALLET_PASSWORD"
)

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().String(mnemonicFlag, "", "mnemonic of the signing account, instead of the keystore")
	cmd.Flags().String(keystoreFlag, "", "keystore file of the signing account (default from config)")
	cmd.Flags().String(passwordFlag, "", "keystore password, also read from $"+passwordEnv)
	cmd.Flags().String(hdPathFlag, "", "HD derivation path used with --mnemonic")
	cmd.Flags().String(prefixFlag, "", "bech32 address prefix")
}

func loadWallet(cmd *cobra.Command) (*wallet.PaperWallet, error) {
	hdPath, _ := cmd.Flags().GetString(hdPathFlag)
	prefix, _ := cmd.Flags().GetString(prefixFlag)
	if setting.Config != nil {
		if hdPath == "" {
			hdPath = setting.Config.Keys.HdPath
		}
		if prefix == "" {
			prefix = setting.Config.Keys.Prefix
		}
	}

	mnemonic, _ := cmd.Flags().GetString(mnemonicFlag)
	if mnemonic != "" {
		w, err := wallet.NewPaperWalletFromMnemonic(mnemonic, "")
		if err != nil {
			return nil, err
		}
		if err = w.UseAccount(cmdContext(cmd), hdPath, prefix); err != nil {
			return nil, err
		}
		return w, nil
	}

	path, _ := cmd.Flags().GetString(keystoreFlag)
	if path == "" && setting.Config != nil && setting.Config.Keys.KeystorePath != "" {
		path = filepath.Join(setting.HomePath, setting.Config.Keys.KeystorePath)
	}
	if path == "" {
		return nil, errors.New("either --mnemonic or --keystore is required")
	}
	password, err := readPassword(cmd, "Enter keystore password: ")
	if err != nil {
		return nil, err
	}
	w, err := wallet.NewPaperWalletFromKeystore(path, password)
	if err != nil {
		return nil, err
	}
	if prefix != "" {
		if err = w.UseAccount(cmdContext(cmd), "", prefix); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	password, _ := cmd.Flags().GetString(passwordFlag)
	if password != "" {
		return password, nil
	}
	if password = os.Getenv(passwordEnv); password != "" {
		return password, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no password given and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	bz, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "couldn't read password from input")
	}
	return string(bz), nil
}

func getAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "address",
		Short:   "show the address of the signing account",
		PreRunE: optionalConfigPreRunE,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := loadWallet(cmd)
			if err != nil {
				return err
			}
			address, err := w.Address()
			if err != nil {
				return err
			}
			pubKey, err := w.PublicKey()
			if err != nil {
				return err
			}
			return printOutput(cmd, map[string]interface{}{
				"address":    address,
				"public_key": base64.StdEncoding.EncodeToString(pubKey),
			})
		},
	}
	addKeyFlags(cmd)
	return cmd
}

func getKeystoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keystore",
		Short: "manage keystore files",
	}
	export := &cobra.Command{
		Use:     "export <file>",
		Short:   "encrypt an account into a keystore file, generating a mnemonic if none is given",
		Args:    cobra.ExactArgs(1),
		PreRunE: optionalConfigPreRunE,
		RunE:    exportKeystore,
	}
	addKeyFlags(export)
	export.Flags().String(nameFlag, "wallet", "account name stored in the keystore")
	export.Flags().Bool("light", false, "use light scrypt parameters")
	cmd.AddCommand(export)
	return cmd
}

func exportKeystore(cmd *cobra.Command, args []string) error {
	mnemonic, _ := cmd.Flags().GetString(mnemonicFlag)
	if mnemonic == "" {
		newMnemonic, err := secp256k1.NewMnemonic()
		if err != nil {
			return errors.Wrap(err, "Couldn't generate new mnemonic")
		}
		mnemonic = newMnemonic
		fmt.Println("generated mnemonic is :  \n" +
			"=======================================================================  \n" +
			mnemonic + "\n" +
			"======================================================================= \n")
		if err = cmd.Flags().Set(mnemonicFlag, mnemonic); err != nil {
			return err
		}
	}

	w, err := loadWallet(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString(nameFlag)
	key, err := w.ExportKey(name)
	if err != nil {
		return err
	}
	password, err := readPassword(cmd, "Enter new keystore password: ")
	if err != nil {
		return err
	}

	scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
	if light, _ := cmd.Flags().GetBool("light"); light {
		scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	}
	if err = keystore.StoreKey(args[0], key, password, scryptN, scryptP); err != nil {
		return err
	}
	utils.Logf("keystore for %s written to %s", key.Address, args[0])
	return printOutput(cmd, map[string]string{"address": key.Address, "file": args[0]})
}

func getSignMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sign-message <message>",
		Short:   "sign free text with the signing account",
		Args:    cobra.ExactArgs(1),
		PreRunE: optionalConfigPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWallet(cmd)
			if err != nil {
				return err
			}
			signed, err := w.SignMessage(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			bz, err := json.Marshal(signed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
	addKeyFlags(cmd)
	return cmd
}

func getVerifyMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-message <signed message json or file>",
		Short: "verify a message produced by sign-message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signed, err := parseSignMsg(args[0])
			if err != nil {
				return err
			}
			if err = wallet.VerifySignMsg(signed); err != nil {
				return err
			}
			return printOutput(cmd, map[string]interface{}{
				"valid":   true,
				"address": signed.Address,
				"signer":  signed.Signer,
			})
		},
	}
}

func parseSignMsg(arg string) (*wallet.SignMsg, error) {
	bz := []byte(arg)
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		if bz, err = os.ReadFile(arg); err != nil {
			return nil, err
		}
	}
	signed := &wallet.SignMsg{}
	if err := json.Unmarshal(bz, signed); err != nil {
		return nil, errors.Wrap(err, "invalid signed message")
	}
	return signed, nil
}

// optionalConfigPreRunE loads the config when it exists, so offline key
// commands work without one.
func optionalConfigPreRunE(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	if _, err = os.Stat(path); err != nil {
		setting.Config = nil
		return nil
	}
	return loadConfigPreRunE(cmd, args)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
