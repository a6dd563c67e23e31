package grpc

import (
	"context"
	"net"
	"testing"

	authv1beta1 "cosmossdk.io/api/cosmos/auth/v1beta1"
	abciv1beta1 "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/cheqd/wallet-core/types"
)

const knownAddress = "cheqd1known"

type authServer struct {
	authv1beta1.UnimplementedQueryServer
}

func (authServer) Account(_ context.Context, req *authv1beta1.QueryAccountRequest) (*authv1beta1.QueryAccountResponse, error) {
	if req.Address != knownAddress {
		return nil, status.Errorf(codes.NotFound, "account %s not found", req.Address)
	}
	acc, err := anypb.New(&authv1beta1.BaseAccount{Address: knownAddress, AccountNumber: 5, Sequence: 2})
	if err != nil {
		return nil, err
	}
	return &authv1beta1.QueryAccountResponse{Account: acc}, nil
}

type txServer struct {
	txv1beta1.UnimplementedServiceServer
}

func (txServer) Simulate(_ context.Context, req *txv1beta1.SimulateRequest) (*txv1beta1.SimulateResponse, error) {
	return &txv1beta1.SimulateResponse{GasInfo: &abciv1beta1.GasInfo{GasUsed: uint64(len(req.TxBytes)) * 1000}}, nil
}

func (txServer) BroadcastTx(_ context.Context, req *txv1beta1.BroadcastTxRequest) (*txv1beta1.BroadcastTxResponse, error) {
	return &txv1beta1.BroadcastTxResponse{TxResponse: &abciv1beta1.TxResponse{Txhash: "ABCD", Code: 0}}, nil
}

func (txServer) GetTx(_ context.Context, req *txv1beta1.GetTxRequest) (*txv1beta1.GetTxResponse, error) {
	if req.Hash != "ABCD" {
		return nil, status.Errorf(codes.NotFound, "tx not found: %s", req.Hash)
	}
	return &txv1beta1.GetTxResponse{TxResponse: &abciv1beta1.TxResponse{Txhash: "ABCD", Height: 42}}, nil
}

func newTestConn(t *testing.T) *Conn {
	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	authv1beta1.RegisterQueryServer(server, authServer{})
	txv1beta1.RegisterServiceServer(server, txServer{})
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := Dial("bufnet", true, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return listener.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestQueryAccount(t *testing.T) {
	conn := newTestConn(t)
	ctx := context.Background()

	acc, err := conn.QueryAccount(ctx, knownAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(5), acc.AccountNumber)
	require.Equal(t, uint64(2), acc.Sequence)

	_, err = conn.QueryAccount(ctx, "cheqd1unknown")
	require.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestSimulateAndBroadcast(t *testing.T) {
	conn := newTestConn(t)
	ctx := context.Background()

	gas, err := conn.Simulate(ctx, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, uint64(3000), gas.GasUsed)

	resp, err := conn.BroadcastTx(ctx, []byte{1}, txv1beta1.BroadcastMode_BROADCAST_MODE_SYNC)
	require.NoError(t, err)
	require.Equal(t, "ABCD", resp.TxResponse.Txhash)
}

func TestQueryTxByHash(t *testing.T) {
	conn := newTestConn(t)
	ctx := context.Background()

	resp, err := conn.QueryTxByHash(ctx, "ABCD")
	require.NoError(t, err)
	require.Equal(t, int64(42), resp.Height)

	_, err = conn.QueryTxByHash(ctx, "00FF")
	require.ErrorIs(t, err, types.ErrTxNotFound)
}

func TestDialRequiresServer(t *testing.T) {
	_, err := Dial("", true)
	require.Error(t, err)
}
