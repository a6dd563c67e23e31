package main

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cheqd/wallet-core/client"
	"github.com/cheqd/wallet-core/cmd/cheqwallet/setting"
	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/types/msgs"
	"github.com/cheqd/wallet-core/utils"
	"github.com/cheqd/wallet-core/wallet"
)

const (
	memoFlag = "memo"
	gasFlag  = "gas"
	feesFlag = "fees"
	syncFlag = "sync"
)

func addTxFlags(cmd *cobra.Command) {
	addKeyFlags(cmd)
	cmd.Flags().String(memoFlag, "", "transaction memo")
	cmd.Flags().Uint64(gasFlag, 0, "gas limit, simulated when 0 and a gRPC endpoint is configured")
	cmd.Flags().String(feesFlag, "", "fee to pay, e.g. 10000000ncheq. Derived from the gas price when empty")
	cmd.Flags().Bool(syncFlag, false, "return once the node accepted the transaction, without waiting for a block. Needs a gRPC endpoint")
}

func getSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "send <to-address> <amount>",
		Short:   "send tokens to an address",
		Args:    cobra.ExactArgs(2),
		PreRunE: loadConfigPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := types.ParseCoin(args[1])
			if err != nil {
				return err
			}
			return runTx(cmd, func(from string) (msgs.Msg, error) {
				return &msgs.MsgSend{FromAddress: from, ToAddress: args[0], Amount: types.Coins{amount}}, nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func getDelegateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delegate <validator-address> <amount>",
		Short:   "delegate tokens to a validator",
		Args:    cobra.ExactArgs(2),
		PreRunE: loadConfigPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := types.ParseCoin(args[1])
			if err != nil {
				return err
			}
			return runTx(cmd, func(from string) (msgs.Msg, error) {
				return &msgs.MsgDelegate{DelegatorAddress: from, ValidatorAddress: args[0], Amount: amount}, nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func getVoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vote <proposal-id> <yes|no|abstain|no_with_veto>",
		Short:   "vote on a governance proposal",
		Args:    cobra.ExactArgs(2),
		PreRunE: loadConfigPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			proposalID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid proposal id %q", args[0])
			}
			option, err := msgs.ParseVoteOption(args[1])
			if err != nil {
				return err
			}
			return runTx(cmd, func(from string) (msgs.Msg, error) {
				return &msgs.MsgVote{ProposalID: proposalID, Voter: from, Option: option}, nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func runTx(cmd *cobra.Command, build func(from string) (msgs.Msg, error)) error {
	ctx := cmdContext(cmd)
	w, err := loadWallet(cmd)
	if err != nil {
		return err
	}
	from, err := w.Address()
	if err != nil {
		return err
	}
	msg, err := build(from)
	if err != nil {
		return err
	}
	if err = msg.ValidateBasic(); err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	memo, _ := cmd.Flags().GetString(memoFlag)
	doc := &tx.Document{
		ChainID:  setting.Config.ChainId,
		Memo:     memo,
		Messages: []msgs.Msg{msg},
	}
	if doc.Fee, err = resolveFee(cmd, c, doc, w); err != nil {
		return err
	}

	broadcast := c.SignAndBroadcastTx
	if sync, _ := cmd.Flags().GetBool(syncFlag); sync {
		broadcast = c.SignAndBroadcastTxSync
	}
	result, err := broadcast(ctx, doc, w)
	if err != nil {
		return err
	}

	output := map[string]interface{}{
		"tx_hash":    result.TxHash,
		"height":     result.Height,
		"gas_wanted": result.GasWanted,
		"gas_used":   result.GasUsed,
	}
	// the balance is informational only
	if balance, err := c.GetBalance(ctx, from, types.BaseDenom); err != nil {
		utils.WarnLogf("couldn't fetch balance of %s: %v", from, err)
	} else {
		output["balance"] = balance.String()
	}
	return printOutput(cmd, output)
}

func resolveFee(cmd *cobra.Command, c *client.Client, doc *tx.Document, w wallet.Wallet) (types.Fee, error) {
	cfg := setting.Config.Transactions

	gas, _ := cmd.Flags().GetUint64(gasFlag)
	if gas == 0 {
		estimated, err := c.EstimateGas(cmdContext(cmd), doc, cfg.GasAdjustment, w)
		if err != nil {
			utils.WarnLogf("gas simulation failed, using default gas %d: %v", cfg.DefaultGas, err)
			gas = cfg.DefaultGas
		} else {
			gas = estimated
		}
	}

	fees, _ := cmd.Flags().GetString(feesFlag)
	if fees != "" {
		coin, err := types.ParseCoin(fees)
		if err != nil {
			return types.Fee{}, err
		}
		return types.Fee{Amount: types.Coins{coin}, Gas: gas}, nil
	}

	price, err := types.ParseCoin(cfg.GasPrice)
	if err != nil {
		return types.Fee{}, errors.Wrap(err, "invalid gas price in config")
	}
	amount := price.Amount.Mul(sdkmath.NewIntFromUint64(gas))
	return types.Fee{Amount: types.Coins{types.NewCoin(price.Denom, amount)}, Gas: gas}, nil
}
