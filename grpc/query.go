package grpc

import (
	"context"

	authv1beta1 "cosmossdk.io/api/cosmos/auth/v1beta1"
	abciv1beta1 "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cheqd/wallet-core/types"
)

// QueryAccount returns the base account of address. Module and vesting
// accounts are unwrapped.
func (c *Conn) QueryAccount(ctx context.Context, address string) (*authv1beta1.BaseAccount, error) {
	client := authv1beta1.NewQueryClient(c.cc)
	req := authv1beta1.QueryAccountRequest{Address: address}

	resp, err := client.Account(ctx, &req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.Wrap(types.ErrAccountNotFound, address)
		}
		return nil, err
	}
	return types.BaseAccountFromAny(resp.GetAccount())
}

// QueryTxByHash returns the committed transaction with the given hex hash.
// An unknown hash is types.ErrTxNotFound.
func (c *Conn) QueryTxByHash(ctx context.Context, txHash string) (*abciv1beta1.TxResponse, error) {
	client := txv1beta1.NewServiceClient(c.cc)
	req := txv1beta1.GetTxRequest{Hash: txHash}

	resp, err := client.GetTx(ctx, &req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.Wrap(types.ErrTxNotFound, txHash)
		}
		return nil, err
	}
	return resp.GetTxResponse(), nil
}
