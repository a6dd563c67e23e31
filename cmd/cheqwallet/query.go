package main

import (
	"github.com/spf13/cobra"

	"github.com/cheqd/wallet-core/client"
	"github.com/cheqd/wallet-core/cmd/cheqwallet/setting"
	"github.com/cheqd/wallet-core/grpc"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

const denomFlag = "denom"

// newClient connects to the configured node. gRPC is optional; when set it
// serves simulation, account and tx lookups and sync broadcasts.
func newClient() (*client.Client, error) {
	cfg := setting.Config
	var opts []client.Option
	if cfg.Node.RateLimit > 0 {
		burst := cfg.Node.RateBurst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, client.WithRateLimit(cfg.Node.RateLimit, burst))
	}
	if cfg.Node.Grpc.GrpcServer != "" {
		conn, err := grpc.Dial(cfg.Node.Grpc.GrpcServer, cfg.Node.Grpc.Insecure)
		if err != nil {
			utils.WarnLogf("gRPC endpoint unavailable, falling back to node RPC: %v", err)
		} else {
			opts = append(opts, client.WithGrpcConn(conn))
		}
	}
	return client.Dial(cfg.Node.RpcEndpoint, opts...)
}

func getBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "balance [address]",
		Short:   "show the balance of an address, or of the signing account",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: loadConfigPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := addressArg(cmd, args)
			if err != nil {
				return err
			}
			denom, _ := cmd.Flags().GetString(denomFlag)

			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			balance, err := c.GetBalance(cmdContext(cmd), address, denom)
			if err != nil {
				return err
			}
			return printOutput(cmd, map[string]string{
				"address": address,
				"denom":   balance.Denom,
				"amount":  balance.Amount.String(),
			})
		},
	}
	addKeyFlags(cmd)
	cmd.Flags().String(denomFlag, types.BaseDenom, "denomination to query")
	return cmd
}

type txSummary struct {
	Hash   string `yaml:"hash" json:"hash"`
	Height int64  `yaml:"height" json:"height"`
	Code   uint32 `yaml:"code" json:"code"`
	Log    string `yaml:"log,omitempty" json:"log,omitempty"`
}

func getTxsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "txs [address]",
		Short:   "list the transactions sent from or to an address",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: loadConfigPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := addressArg(cmd, args)
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			txs, err := c.SearchTx(cmdContext(cmd), client.QuerySentFrom(address), client.QueryTransferRecipient(address))
			if err != nil {
				return err
			}
			summaries := make([]txSummary, 0, len(txs))
			for _, tx := range txs {
				summary := txSummary{Hash: tx.Hash, Height: tx.Height, Code: tx.Code}
				if tx.Code != 0 {
					summary.Log = tx.RawLog
				}
				summaries = append(summaries, summary)
			}
			return printOutput(cmd, summaries)
		},
	}
	addKeyFlags(cmd)
	return cmd
}

func getTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tx <hash>",
		Short:   "show a committed transaction",
		Args:    cobra.ExactArgs(1),
		PreRunE: loadConfigPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			found, err := c.GetTx(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printOutput(cmd, txDetail{
				txSummary: txSummary{Hash: found.Hash, Height: found.Height, Code: found.Code, Log: found.RawLog},
				Codespace: found.Codespace,
				GasWanted: found.GasWanted,
				GasUsed:   found.GasUsed,
			})
		},
	}
}

type txDetail struct {
	txSummary `yaml:",inline"`

	Codespace string `yaml:"codespace,omitempty" json:"codespace,omitempty"`
	GasWanted int64  `yaml:"gas_wanted" json:"gas_wanted"`
	GasUsed   int64  `yaml:"gas_used" json:"gas_used"`
}

// addressArg returns the explicit address argument or the signing account's address.
func addressArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		if _, err := types.AddressBytes(args[0]); err != nil {
			return "", err
		}
		return args[0], nil
	}
	w, err := loadWallet(cmd)
	if err != nil {
		return "", err
	}
	return w.Address()
}
