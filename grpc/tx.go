package grpc

import (
	"context"

	abciv1beta1 "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"

	"github.com/cheqd/wallet-core/utils"
)

// BroadcastTx submits txBytes in the given mode. A non-zero code in the
// response is logged and returned as is.
func (c *Conn) BroadcastTx(ctx context.Context, txBytes []byte, mode txv1beta1.BroadcastMode) (*txv1beta1.BroadcastTxResponse, error) {
	client := txv1beta1.NewServiceClient(c.cc)
	req := txv1beta1.BroadcastTxRequest{TxBytes: txBytes, Mode: mode}

	resp, err := client.BroadcastTx(ctx, &req)
	if err != nil {
		return nil, err
	}
	if resp.GetTxResponse().GetCode() != 0 {
		utils.ErrorLogf("Tx failed: [%v]", resp.GetTxResponse().GetRawLog())
	}
	return resp, nil
}

// Simulate runs txBytes against the node's state without committing it.
func (c *Conn) Simulate(ctx context.Context, txBytes []byte) (*abciv1beta1.GasInfo, error) {
	client := txv1beta1.NewServiceClient(c.cc)
	req := txv1beta1.SimulateRequest{TxBytes: txBytes}

	resp, err := client.Simulate(ctx, &req)
	if err != nil {
		return nil, err
	}

	return resp.GetGasInfo(), nil
}
