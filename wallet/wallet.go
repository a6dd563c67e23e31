// Package wallet provides the signing backends used to authorize cheqd
// transactions and free text messages.
package wallet

import (
	"context"
	"sync"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/metrics"
	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
)

// Backend tags which kind of wallet produced a signature.
type Backend string

const (
	BackendPaper   Backend = "paper"
	BackendLedger  Backend = "ledger"
	BackendOffline Backend = "offline"
)

// Wallet is a signing backend bound to at most one account at a time.
type Wallet interface {
	// Address returns the bech32 address of the selected account.
	Address() (string, error)
	// PublicKey returns the 33 byte compressed key of the selected account.
	PublicKey() ([]byte, error)
	// SigningMode is the sign mode this wallet signs transactions with.
	SigningMode() signingv1beta1.SignMode
	// CanChangeAccount reports whether UseAccount can select other accounts.
	CanChangeAccount() bool
	// UseAccount selects the account at hdPath and encodes its address with prefix.
	UseAccount(ctx context.Context, hdPath, prefix string) error
	// Sign signs arbitrary bytes.
	Sign(ctx context.Context, data []byte) ([]byte, error)
	// SignTransaction signs doc as the selected account.
	SignTransaction(ctx context.Context, doc *tx.Document) (*tx.SignDoc, []byte, error)
	// SignMessage signs free text.
	SignMessage(ctx context.Context, msg string) (*SignMsg, error)
	// SignAminoTx signs doc in amino JSON mode and returns the document actually signed.
	SignAminoTx(ctx context.Context, doc *tx.Document) (*tx.StdSignDoc, []byte, error)
}

// account is the selected address and public key of a wallet.
type account struct {
	mu      sync.RWMutex
	address string
	pubKey  []byte
}

func (a *account) get() (string, []byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.address == "" {
		return "", nil, types.ErrNoAccountSelected
	}
	return a.address, a.pubKey, nil
}

func (a *account) set(address string, pubKey []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.address = address
	a.pubKey = pubKey
}

func (a *account) Address() (string, error) {
	address, _, err := a.get()
	return address, err
}

func (a *account) PublicKey() ([]byte, error) {
	_, pubKey, err := a.get()
	if err != nil {
		return nil, err
	}
	bz := make([]byte, len(pubKey))
	copy(bz, pubKey)
	return bz, nil
}

func rejectAminoTx(backend Backend) (*tx.StdSignDoc, []byte, error) {
	return nil, nil, errors.Wrapf(types.ErrNotSupported, "%s wallet cannot sign amino JSON transactions", backend)
}

func requireChainID(doc *tx.Document) error {
	if doc == nil {
		return errors.Wrap(types.ErrInvalidDocument, "nil document")
	}
	if doc.ChainID == "" {
		return errors.Wrap(types.ErrInvalidDocument, "chain id is required")
	}
	return nil
}

func normalizeAccountArgs(hdPath, prefix string) (string, string) {
	if hdPath == "" {
		hdPath = types.DefaultHDPath
	}
	if prefix == "" {
		prefix = types.CheqdBech32Prefix
	}
	return hdPath, prefix
}

func countSign(backend Backend, kind string, err error) {
	metrics.SignRequests.WithLabelValues(string(backend), kind, metrics.Result(err)).Inc()
}
