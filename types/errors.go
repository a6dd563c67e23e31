package types

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoAccountSelected   = errors.New("no account selected")
	ErrNoMnemonicOrKey     = errors.New("no mnemonic or private key")
	ErrNotSupported        = errors.New("operation not supported by this wallet")
	ErrSignerNotFound      = errors.New("signer not found in document")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTxNotFound          = errors.New("transaction not found")
	ErrUnknownSigningMode  = errors.New("unknown signing mode")
	ErrVerificationFailure = errors.New("signature verification failed")
	ErrNoWallets           = errors.New("at least one wallet required")
	ErrSignDocMismatch     = errors.New("sign doc differs from the canonical sign doc")
	ErrInvalidDocument     = errors.New("invalid document")
	ErrUnknownMsgType      = errors.New("unknown message type")
	ErrLedgerDevice        = errors.New("ledger device error")

	// ErrBroadcast and ErrChainRejection match the typed errors below with errors.Is.
	ErrBroadcast      = errors.New("broadcast failed")
	ErrChainRejection = errors.New("transaction rejected by chain")
)

// BroadcastError is a transport level failure while submitting a transaction.
type BroadcastError struct {
	Err error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast failed: %v", e.Err)
}

func (e *BroadcastError) Unwrap() error {
	return e.Err
}

func (e *BroadcastError) Is(target error) bool {
	return target == ErrBroadcast
}

// ChainRejectionError is a transaction that the chain processed with a non-zero code.
// Log holds the chain's raw log untouched.
type ChainRejectionError struct {
	TxHash    string
	Height    int64
	Code      uint32
	Codespace string
	Log       string
}

func (e *ChainRejectionError) Error() string {
	return fmt.Sprintf("transaction %s rejected with code %d (codespace %q): %s", e.TxHash, e.Code, e.Codespace, e.Log)
}

func (e *ChainRejectionError) Is(target error) bool {
	return target == ErrChainRejection
}
