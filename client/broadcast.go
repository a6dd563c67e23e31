package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/metrics"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

// TxState is the lifecycle position of a transaction submitted by the client.
type TxState int

const (
	TxBuilt TxState = iota
	TxSigned
	TxSubmitted
	TxCommitted
	TxRejected
	TxBroadcastFailed
)

func (s TxState) String() string {
	switch s {
	case TxBuilt:
		return "built"
	case TxSigned:
		return "signed"
	case TxSubmitted:
		return "submitted"
	case TxCommitted:
		return "committed"
	case TxRejected:
		return "rejected"
	case TxBroadcastFailed:
		return "broadcast_failed"
	default:
		return fmt.Sprintf("TxState(%d)", int(s))
	}
}

// BroadcastResult is a transaction the chain accepted. Height is zero for
// sync broadcasts, which return before the transaction is committed.
type BroadcastResult struct {
	TxHash    string
	Height    int64
	Data      []byte
	GasWanted int64
	GasUsed   int64
	// RawLog is empty for committed transactions.
	RawLog string
}

// BroadcastTx submits txBytes and waits for the block that includes it.
// A transport failure returns *types.BroadcastError. A transaction the chain
// rejected returns its result together with *types.ChainRejectionError.
func (c *Client) BroadcastTx(ctx context.Context, txBytes []byte) (*BroadcastResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, &types.BroadcastError{Err: err}
	}
	start := time.Now()
	res, err := c.rpc.BroadcastTxCommit(ctx, cmttypes.Tx(txBytes))
	metrics.ObserveRpc("broadcast_tx_commit", start)
	if err != nil {
		metrics.BroadcastTxs.WithLabelValues(TxBroadcastFailed.String()).Inc()
		return nil, &types.BroadcastError{Err: err}
	}

	result := &BroadcastResult{
		TxHash:    res.Hash.String(),
		Height:    res.Height,
		Data:      res.DeliverTx.Data,
		GasWanted: res.DeliverTx.GasWanted,
		GasUsed:   res.DeliverTx.GasUsed,
	}

	var rejection *types.ChainRejectionError
	switch {
	case res.CheckTx.Code != 0:
		result.GasWanted = res.CheckTx.GasWanted
		result.GasUsed = res.CheckTx.GasUsed
		result.RawLog = res.CheckTx.Log
		rejection = &types.ChainRejectionError{
			TxHash:    result.TxHash,
			Height:    res.Height,
			Code:      res.CheckTx.Code,
			Codespace: res.CheckTx.Codespace,
			Log:       res.CheckTx.Log,
		}
	case res.DeliverTx.Code != 0:
		result.RawLog = res.DeliverTx.Log
		rejection = &types.ChainRejectionError{
			TxHash:    result.TxHash,
			Height:    res.Height,
			Code:      res.DeliverTx.Code,
			Codespace: res.DeliverTx.Codespace,
			Log:       res.DeliverTx.Log,
		}
	}
	if rejection != nil {
		metrics.BroadcastTxs.WithLabelValues(TxRejected.String()).Inc()
		utils.ErrorLogf("Tx failed: [%v]", rejection)
		return result, rejection
	}

	metrics.BroadcastTxs.WithLabelValues(TxCommitted.String()).Inc()
	utils.Logf("transaction %s committed at height %d", result.TxHash, result.Height)
	return result, nil
}

// BroadcastTxSync submits txBytes through the configured TxBroadcaster and
// returns once the node has checked it, without waiting for a block. Errors
// follow BroadcastTx.
func (c *Client) BroadcastTxSync(ctx context.Context, txBytes []byte) (*BroadcastResult, error) {
	if c.broadcaster == nil {
		return nil, errors.Wrap(types.ErrNotSupported, "no tx broadcaster configured")
	}
	if err := c.wait(ctx); err != nil {
		return nil, &types.BroadcastError{Err: err}
	}
	start := time.Now()
	resp, err := c.broadcaster.BroadcastTx(ctx, txBytes, txv1beta1.BroadcastMode_BROADCAST_MODE_SYNC)
	metrics.ObserveRpc("broadcast_tx_sync", start)
	if err == nil && resp.GetTxResponse() == nil {
		err = errors.New("empty broadcast response")
	}
	if err != nil {
		metrics.BroadcastTxs.WithLabelValues(TxBroadcastFailed.String()).Inc()
		return nil, &types.BroadcastError{Err: err}
	}

	txResp := resp.GetTxResponse()
	result := &BroadcastResult{
		TxHash:    txResp.GetTxhash(),
		Height:    txResp.GetHeight(),
		GasWanted: txResp.GetGasWanted(),
		GasUsed:   txResp.GetGasUsed(),
	}
	if data, err := hex.DecodeString(txResp.GetData()); err == nil && len(data) > 0 {
		result.Data = data
	}
	if txResp.GetCode() != 0 {
		result.RawLog = txResp.GetRawLog()
		rejection := &types.ChainRejectionError{
			TxHash:    result.TxHash,
			Height:    result.Height,
			Code:      txResp.GetCode(),
			Codespace: txResp.GetCodespace(),
			Log:       txResp.GetRawLog(),
		}
		metrics.BroadcastTxs.WithLabelValues(TxRejected.String()).Inc()
		utils.ErrorLogf("Tx failed: [%v]", rejection)
		return result, rejection
	}

	metrics.BroadcastTxs.WithLabelValues(TxSubmitted.String()).Inc()
	utils.Logf("transaction %s accepted into the mempool", result.TxHash)
	return result, nil
}
