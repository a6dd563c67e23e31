package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cheqd/wallet-core/cmd/cheqwallet/setting"
	"github.com/cheqd/wallet-core/utils"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		utils.ErrorLog(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := getRootCmd()

	rootCmd.AddCommand(getGenConfigCmd())
	rootCmd.AddCommand(getVersionCmd())
	rootCmd.AddCommand(getAddressCmd())
	rootCmd.AddCommand(getKeystoreCmd())
	rootCmd.AddCommand(getSignMessageCmd())
	rootCmd.AddCommand(getVerifyMessageCmd())
	rootCmd.AddCommand(getBalanceCmd())
	rootCmd.AddCommand(getTxsCmd())
	rootCmd.AddCommand(getTxCmd())
	rootCmd.AddCommand(getSendCmd())
	rootCmd.AddCommand(getDelegateCmd())
	rootCmd.AddCommand(getVoteCmd())
	return rootCmd
}

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "cheqwallet",
		Short:             "sign and broadcast cheqd transactions",
		PersistentPreRunE: rootPreRunE,
		SilenceUsage:      true,
	}

	dir, err := os.Getwd()
	if err != nil {
		utils.ErrorLog("failed to get working directory")
		panic(err)
	}
	rootCmd.PersistentFlags().StringP(Home, "r", dir, "home path for the wallet")
	rootCmd.PersistentFlags().StringP(Config, "c", DefaultConfigPath, "configuration file path ")
	rootCmd.PersistentFlags().StringP(outputFlag, "o", "yaml", "output format, yaml or json")
	return rootCmd
}

func getGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "create default configuration file",
		RunE:  genConfig,
	}
	return cmd
}

func getVersionCmd() *cobra.Command {
	version := setting.VERSION
	cmd := &cobra.Command{
		Use:   "version",
		Short: "get version of the build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
	return cmd
}

func rootPreRunE(cmd *cobra.Command, _ []string) error {
	homePath, err := cmd.Flags().GetString(Home)
	if err != nil {
		utils.ErrorLog("failed to get 'home' path for the wallet")
		return err
	}
	homePath, err = utils.Absolute(homePath)
	if err != nil {
		utils.ErrorLog("cannot convert home path to absolute path")
		return err
	}
	setting.HomePath = homePath
	_ = utils.NewDefaultLogger(filepath.Join(homePath, "tmp/logs/stdout.log"), true, true)
	return nil
}
