package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	authv1beta1 "cosmossdk.io/api/cosmos/auth/v1beta1"
	abciv1beta1 "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	bankv1beta1 "cosmossdk.io/api/cosmos/bank/v1beta1"
	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"
	rpcclient "github.com/cometbft/cometbft/rpc/client"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	rpctypes "github.com/cometbft/cometbft/rpc/jsonrpc/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/proto"

	"github.com/cheqd/wallet-core/metrics"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

const (
	accountQueryPath = "/cosmos.auth.v1beta1.Query/Account"
	balanceQueryPath = "/cosmos.bank.v1beta1.Query/Balance"
)

// IndexedTx is a committed transaction as returned by tx lookups.
type IndexedTx struct {
	Hash      string
	Height    int64
	Index     uint32
	Code      uint32
	Codespace string
	RawLog    string
	Tx        []byte
	GasWanted int64
	GasUsed   int64
	Events    []abci.Event
}

// QuerySentFrom matches transactions with a message sent by address.
func QuerySentFrom(address string) string {
	return fmt.Sprintf("message.sender='%s'", address)
}

// QueryTransferRecipient matches transactions transferring funds to address.
func QueryTransferRecipient(address string) string {
	return fmt.Sprintf("transfer.recipient='%s'", address)
}

// QueryHeight matches transactions included at height.
func QueryHeight(height int64) string {
	return fmt.Sprintf("tx.height=%d", height)
}

// GetAccount returns the account number and sequence of address.
func (c *Client) GetAccount(ctx context.Context, address string) (*authv1beta1.BaseAccount, error) {
	if c.accounts != nil {
		return c.accounts.QueryAccount(ctx, address)
	}

	data, err := proto.Marshal(&authv1beta1.QueryAccountRequest{Address: address})
	if err != nil {
		return nil, err
	}
	res, err := c.abciQuery(ctx, accountQueryPath, data)
	if err != nil {
		return nil, err
	}
	if res.Code != 0 {
		if strings.Contains(res.Log, "not found") {
			return nil, errors.Wrap(types.ErrAccountNotFound, address)
		}
		return nil, queryFailed(accountQueryPath, res)
	}

	resp := &authv1beta1.QueryAccountResponse{}
	if err = proto.Unmarshal(res.Value, resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode account response")
	}
	return types.BaseAccountFromAny(resp.GetAccount())
}

// GetBalance returns the balance of address in denom. An address without
// funds has a zero balance.
func (c *Client) GetBalance(ctx context.Context, address, denom string) (types.Coin, error) {
	resp := &bankv1beta1.QueryBalanceResponse{}
	err := c.Query(ctx, balanceQueryPath, &bankv1beta1.QueryBalanceRequest{Address: address, Denom: denom}, resp)
	if err != nil {
		return types.Coin{}, err
	}
	if resp.GetBalance() == nil {
		return types.NewCoin(denom, sdkmath.ZeroInt()), nil
	}
	return types.CoinFromProto(resp.GetBalance())
}

// Query runs a protobuf query against path, e.g. /cosmos.bank.v1beta1.Query/Balance.
func (c *Client) Query(ctx context.Context, path string, req, resp proto.Message) error {
	data, err := proto.Marshal(req)
	if err != nil {
		return err
	}
	res, err := c.abciQuery(ctx, path, data)
	if err != nil {
		return err
	}
	if res.Code != 0 {
		return queryFailed(path, res)
	}
	return proto.Unmarshal(res.Value, resp)
}

func (c *Client) abciQuery(ctx context.Context, path string, data []byte) (abci.ResponseQuery, error) {
	if err := c.wait(ctx); err != nil {
		return abci.ResponseQuery{}, err
	}
	start := time.Now()
	res, err := c.rpc.ABCIQueryWithOptions(ctx, path, data, rpcclient.ABCIQueryOptions{})
	metrics.ObserveRpc("abci_query", start)
	if err != nil {
		return abci.ResponseQuery{}, errors.Wrapf(err, "query %s", path)
	}
	return res.Response, nil
}

func queryFailed(path string, res abci.ResponseQuery) error {
	return errors.Errorf("query %s failed with code %d (codespace %q): %s", path, res.Code, res.Codespace, res.Log)
}

// GetTx looks a transaction up by its hex hash. An unknown hash is
// types.ErrTxNotFound.
func (c *Client) GetTx(ctx context.Context, hash string) (*IndexedTx, error) {
	hashBytes, err := hex.DecodeString(hash)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid tx hash %q", hash)
	}
	if err = c.wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	if c.txs != nil {
		resp, err := c.txs.QueryTxByHash(ctx, strings.ToUpper(hash))
		metrics.ObserveRpc("get_tx", start)
		if err != nil {
			return nil, err
		}
		return indexedTxFromResponse(resp), nil
	}

	res, err := c.rpc.Tx(ctx, hashBytes, false)
	metrics.ObserveRpc("tx", start)
	if err != nil {
		if isTxNotFound(err) {
			return nil, errors.Wrap(types.ErrTxNotFound, hash)
		}
		return nil, err
	}
	return indexedTx(res), nil
}

// isTxNotFound reports whether the node answered a tx lookup with its
// "tx (<hash>) not found" RPC error.
func isTxNotFound(err error) bool {
	var rpcErr *rpctypes.RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	return strings.HasPrefix(rpcErr.Data, "tx (") && strings.HasSuffix(rpcErr.Data, ") not found")
}

// SearchTx runs every query concurrently and returns the union of the
// results without duplicates, ordered by height then position in block.
func (c *Client) SearchTx(ctx context.Context, queries ...string) ([]*IndexedTx, error) {
	var (
		mu    sync.Mutex
		found = make(map[string]*IndexedTx)
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, query := range queries {
		query := query
		g.Go(func() error {
			txs, err := c.searchAll(gctx, query)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, tx := range txs {
				found[tx.Hash] = tx
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*IndexedTx, 0, len(found))
	for _, tx := range found {
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Hash < b.Hash
	})
	metrics.SearchResults.Set(float64(len(result)))
	return result, nil
}

func (c *Client) searchAll(ctx context.Context, query string) ([]*IndexedTx, error) {
	var txs []*IndexedTx
	perPage := c.pageSize
	for page := 1; ; page++ {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		start := time.Now()
		res, err := c.rpc.TxSearch(ctx, query, false, &page, &perPage, "asc")
		metrics.ObserveRpc("tx_search", start)
		if err != nil {
			return nil, errors.Wrapf(err, "search %q page %d", query, page)
		}
		for _, tx := range res.Txs {
			txs = append(txs, indexedTx(tx))
		}
		if len(res.Txs) == 0 || len(txs) >= res.TotalCount {
			break
		}
	}
	utils.DebugLogf("search %q returned %d transactions", query, len(txs))
	return txs, nil
}

func indexedTx(res *coretypes.ResultTx) *IndexedTx {
	return &IndexedTx{
		Hash:      res.Hash.String(),
		Height:    res.Height,
		Index:     res.Index,
		Code:      res.TxResult.Code,
		Codespace: res.TxResult.Codespace,
		RawLog:    res.TxResult.Log,
		Tx:        res.Tx,
		GasWanted: res.TxResult.GasWanted,
		GasUsed:   res.TxResult.GasUsed,
		Events:    res.TxResult.Events,
	}
}

func indexedTxFromResponse(resp *abciv1beta1.TxResponse) *IndexedTx {
	events := make([]abci.Event, 0, len(resp.GetEvents()))
	for _, ev := range resp.GetEvents() {
		attrs := make([]abci.EventAttribute, 0, len(ev.GetAttributes()))
		for _, attr := range ev.GetAttributes() {
			attrs = append(attrs, abci.EventAttribute{Key: attr.GetKey(), Value: attr.GetValue(), Index: attr.GetIndex()})
		}
		events = append(events, abci.Event{Type: ev.GetType_(), Attributes: attrs})
	}
	return &IndexedTx{
		Hash:      resp.GetTxhash(),
		Height:    resp.GetHeight(),
		Code:      resp.GetCode(),
		Codespace: resp.GetCodespace(),
		RawLog:    resp.GetRawLog(),
		Tx:        resp.GetTx().GetValue(),
		GasWanted: resp.GetGasWanted(),
		GasUsed:   resp.GetGasUsed(),
		Events:    events,
	}
}
