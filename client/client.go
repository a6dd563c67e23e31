// Package client talks to a cheqd node: account lookups, transaction search,
// multi-wallet signing and broadcast.
package client

import (
	"context"
	"io"
	"sync"
	"time"

	authv1beta1 "cosmossdk.io/api/cosmos/auth/v1beta1"
	abciv1beta1 "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	rpcclient "github.com/cometbft/cometbft/rpc/client"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/cheqd/wallet-core/grpc"
	"github.com/cheqd/wallet-core/metrics"
	"github.com/cheqd/wallet-core/utils"
)

const defaultSearchPageSize = 100

// NodeRPC is the subset of the cometbft RPC client used by Client.
type NodeRPC interface {
	Status(ctx context.Context) (*coretypes.ResultStatus, error)
	ABCIQueryWithOptions(ctx context.Context, path string, data cmtbytes.HexBytes, opts rpcclient.ABCIQueryOptions) (*coretypes.ResultABCIQuery, error)
	Tx(ctx context.Context, hash []byte, prove bool) (*coretypes.ResultTx, error)
	TxSearch(ctx context.Context, query string, prove bool, page, perPage *int, orderBy string) (*coretypes.ResultTxSearch, error)
	BroadcastTxCommit(ctx context.Context, tx cmttypes.Tx) (*coretypes.ResultBroadcastTxCommit, error)
}

// Simulator estimates the gas a transaction would use.
type Simulator interface {
	Simulate(ctx context.Context, txBytes []byte) (*abciv1beta1.GasInfo, error)
}

// AccountQuerier resolves the account number and sequence of an address.
type AccountQuerier interface {
	QueryAccount(ctx context.Context, address string) (*authv1beta1.BaseAccount, error)
}

// TxQuerier looks committed transactions up by hash.
type TxQuerier interface {
	QueryTxByHash(ctx context.Context, txHash string) (*abciv1beta1.TxResponse, error)
}

// TxBroadcaster submits raw transactions through the node's tx service.
type TxBroadcaster interface {
	BroadcastTx(ctx context.Context, txBytes []byte, mode txv1beta1.BroadcastMode) (*txv1beta1.BroadcastTxResponse, error)
}

// Client is a cheqd node client. It caches the chain id for its lifetime.
type Client struct {
	rpc         NodeRPC
	simulator   Simulator
	accounts    AccountQuerier
	txs         TxQuerier
	broadcaster TxBroadcaster
	limiter     *rate.Limiter
	closers     []io.Closer
	observer    func(TxState)
	pageSize    int

	mu      sync.Mutex
	chainID string
}

type Option func(*Client)

func WithSimulator(s Simulator) Option {
	return func(c *Client) { c.simulator = s }
}

// WithAccountQuerier resolves accounts through q instead of ABCI queries.
func WithAccountQuerier(q AccountQuerier) Option {
	return func(c *Client) { c.accounts = q }
}

// WithTxQuerier resolves GetTx through q instead of the node RPC.
func WithTxQuerier(q TxQuerier) Option {
	return func(c *Client) { c.txs = q }
}

// WithTxBroadcaster enables BroadcastTxSync.
func WithTxBroadcaster(b TxBroadcaster) Option {
	return func(c *Client) { c.broadcaster = b }
}

// WithGrpcConn uses conn for simulation, account and tx queries and sync
// broadcasts, and closes it on Close.
func WithGrpcConn(conn *grpc.Conn) Option {
	return func(c *Client) {
		c.simulator = conn
		c.accounts = conn
		c.txs = conn
		c.broadcaster = conn
		c.closers = append(c.closers, conn)
	}
}

// WithRateLimit throttles node RPC calls to rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithStateObserver is called at every transaction state transition.
func WithStateObserver(fn func(TxState)) Option {
	return func(c *Client) { c.observer = fn }
}

func WithSearchPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func NewClient(rpc NodeRPC, opts ...Option) *Client {
	c := &Client{rpc: rpc, pageSize: defaultSearchPageSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial creates a client for the cometbft RPC endpoint, e.g. https://rpc.cheqd.net:443.
func Dial(endpoint string, opts ...Option) (*Client, error) {
	rpc, err := rpchttp.New(endpoint, "/websocket")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cheqd rpc client")
	}
	return NewClient(rpc, opts...), nil
}

// ChainID returns the network name reported by the node.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID != "" {
		return c.chainID, nil
	}

	if err := c.wait(ctx); err != nil {
		return "", err
	}
	start := time.Now()
	status, err := c.rpc.Status(ctx)
	metrics.ObserveRpc("status", start)
	if err != nil {
		return "", errors.Wrap(err, "failed to query node status")
	}
	if status.NodeInfo.Network == "" {
		return "", errors.New("node reported an empty chain id")
	}
	c.chainID = status.NodeInfo.Network
	utils.DebugLogf("connected to chain %s", c.chainID)
	return c.chainID, nil
}

// Close releases the connections the client owns.
func (c *Client) Close() error {
	var firstErr error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return ctx.Err()
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) setState(state TxState) {
	utils.DebugLogf("transaction state: %s", state)
	if c.observer != nil {
		c.observer(state)
	}
}
