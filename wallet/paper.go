package wallet

import (
	"context"
	"sync"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	"github.com/cosmos/go-bip39"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/crypto/keystore"
	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

// PaperWallet signs in software with a key held in memory, either derived
// from a mnemonic or given directly.
type PaperWallet struct {
	account

	signMu     sync.Mutex
	mnemonic   string
	passphrase string
	rawKey     *secp256k1.PrivKey
	privKey    *secp256k1.PrivKey
}

var _ Wallet = (*PaperWallet)(nil)

// NewPaperWalletFromMnemonic creates a wallet that derives keys from mnemonic.
// No account is selected until UseAccount is called.
func NewPaperWalletFromMnemonic(mnemonic, bip39Passphrase string) (*PaperWallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.Wrap(types.ErrNoMnemonicOrKey, "invalid mnemonic")
	}
	return &PaperWallet{mnemonic: mnemonic, passphrase: bip39Passphrase}, nil
}

// NewPaperWalletFromPrivateKey creates a wallet bound to a single raw private key.
func NewPaperWalletFromPrivateKey(key []byte) (*PaperWallet, error) {
	if len(key) == 0 || len(key) > secp256k1.PrivKeySize {
		return nil, errors.Wrapf(types.ErrNoMnemonicOrKey, "invalid private key length %d", len(key))
	}
	return &PaperWallet{rawKey: secp256k1.Generate(key)}, nil
}

// NewPaperWalletFromKeystore decrypts a keystore file and selects its account.
func NewPaperWalletFromKeystore(filename, password string) (*PaperWallet, error) {
	key, err := keystore.LoadKey(filename, password)
	if err != nil {
		return nil, err
	}
	w := &PaperWallet{rawKey: key.PrivateKey}
	prefix := types.CheqdBech32Prefix
	if key.Address != "" {
		if hrp, _, err := types.DecodeAndConvert(key.Address); err == nil {
			prefix = hrp
		}
	}
	if err = w.UseAccount(context.Background(), "", prefix); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *PaperWallet) SigningMode() signingv1beta1.SignMode {
	return signingv1beta1.SignMode_SIGN_MODE_DIRECT
}

// CanChangeAccount is true for mnemonic backed wallets only.
func (w *PaperWallet) CanChangeAccount() bool {
	return w.mnemonic != ""
}

// UseAccount derives the key at hdPath. Wallets created from a private key
// ignore hdPath and only re-encode the address with prefix.
func (w *PaperWallet) UseAccount(ctx context.Context, hdPath, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hdPath, prefix = normalizeAccountArgs(hdPath, prefix)

	w.signMu.Lock()
	defer w.signMu.Unlock()

	var priv *secp256k1.PrivKey
	switch {
	case w.mnemonic != "":
		bz, err := secp256k1.Derive(w.mnemonic, w.passphrase, hdPath)
		if err != nil {
			return err
		}
		priv = secp256k1.Generate(bz)
	case w.rawKey != nil:
		priv = w.rawKey
	default:
		return types.ErrNoMnemonicOrKey
	}

	pubKey := priv.PubKey().Bytes()
	address, err := types.AddressFromPubKey(prefix, pubKey)
	if err != nil {
		return err
	}
	if w.privKey != nil && w.privKey != w.rawKey {
		w.privKey.Zero()
	}
	w.privKey = priv
	w.set(address, pubKey)
	utils.DebugLogf("paper wallet selected account %s at %s", address, hdPath)
	return nil
}

func (w *PaperWallet) Sign(ctx context.Context, data []byte) (sig []byte, err error) {
	defer func() { countSign(BackendPaper, "raw", err) }()
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	w.signMu.Lock()
	defer w.signMu.Unlock()
	if _, _, err = w.get(); err != nil {
		return nil, err
	}
	return w.privKey.Sign(data)
}

func (w *PaperWallet) SignTransaction(ctx context.Context, doc *tx.Document) (signDoc *tx.SignDoc, sig []byte, err error) {
	defer func() { countSign(BackendPaper, "tx", err) }()
	signDoc, sig, err = w.signDocument(ctx, doc, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	return signDoc, sig, err
}

func (w *PaperWallet) SignAminoTx(ctx context.Context, doc *tx.Document) (stdDoc *tx.StdSignDoc, sig []byte, err error) {
	defer func() { countSign(BackendPaper, "amino", err) }()
	signDoc, sig, err := w.signDocument(ctx, doc, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	if err != nil {
		return nil, nil, err
	}
	return signDoc.Amino, sig, nil
}

// SignMessage signs the raw message bytes.
func (w *PaperWallet) SignMessage(ctx context.Context, msg string) (signMsg *SignMsg, err error) {
	defer func() { countSign(BackendPaper, "message", err) }()
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	w.signMu.Lock()
	defer w.signMu.Unlock()
	address, pubKey, err := w.get()
	if err != nil {
		return nil, err
	}
	sig, err := w.privKey.Sign([]byte(msg))
	if err != nil {
		return nil, err
	}
	return newSignMsg(address, pubKey, msg, sig, BackendPaper), nil
}

func (w *PaperWallet) signDocument(ctx context.Context, doc *tx.Document, mode signingv1beta1.SignMode) (*tx.SignDoc, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := requireChainID(doc); err != nil {
		return nil, nil, err
	}
	w.signMu.Lock()
	defer w.signMu.Unlock()

	_, pubKey, err := w.get()
	if err != nil {
		return nil, nil, err
	}
	idx, err := doc.PrepareSigner(pubKey, mode)
	if err != nil {
		return nil, nil, err
	}
	signDoc, _, err := tx.MakeSignDoc(doc, idx)
	if err != nil {
		return nil, nil, err
	}
	sigV2, err := tx.SignWithPrivKey(signDoc, w.privKey)
	if err != nil {
		return nil, nil, err
	}
	return signDoc, tx.RawSignature(sigV2), nil
}

// ExportKey returns the selected account as a keystore key.
func (w *PaperWallet) ExportKey(name string) (*keystore.Key, error) {
	w.signMu.Lock()
	defer w.signMu.Unlock()
	address, _, err := w.get()
	if err != nil {
		return nil, err
	}
	return keystore.NewKey(secp256k1.Generate(w.privKey.Bytes()), name, address), nil
}
