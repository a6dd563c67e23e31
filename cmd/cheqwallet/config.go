package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cheqd/wallet-core/cmd/cheqwallet/setting"
	"github.com/cheqd/wallet-core/metrics"
	"github.com/cheqd/wallet-core/utils"
)

const (
	Home              string = "home"
	Config            string = "config"
	DefaultConfigPath string = "./config/config.toml"
)

func configPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString(Config)
	if err != nil {
		return "", errors.Wrap(err, "failed to get the configuration file path")
	}
	if path == DefaultConfigPath {
		home, err := cmd.Flags().GetString(Home)
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path)
	}
	return path, nil
}

func genConfig(cmd *cobra.Command, _ []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	if _, err = os.Stat(path); os.IsNotExist(err) {
		err = os.MkdirAll(filepath.Dir(path), 0700)
	}
	if err != nil {
		return err
	}

	err = setting.LoadConfig(path)
	if err != nil {
		fmt.Println("generating default config file")
		err = setting.GenDefaultConfig(path)
		if err != nil {
			return errors.Wrap(err, "failed to generate config file at given path")
		}
	}

	return setting.LoadConfig(path)
}

// loadConfigPreRunE loads the configuration for commands that talk to a node
// or read the default keystore.
func loadConfigPreRunE(cmd *cobra.Command, _ []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	if err = setting.LoadConfig(path); err != nil {
		return errors.Wrap(err, "failed to load config, run 'cheqwallet config' first")
	}

	level, err := utils.ParseLogLevel(setting.Config.Log.Level)
	if err != nil {
		utils.WarnLog(err)
	}
	utils.WalletLogger.SetLogLevel(level)

	if port := setting.Config.Monitor.MetricsPort; port != "" {
		if err = metrics.Initialize(port); err != nil {
			utils.ErrorLog("failed to start metrics server", err)
		}
	}
	return nil
}
