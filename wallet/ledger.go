package wallet

import (
	"context"
	"sync"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

// LedgerCodeOK is the APDU status word of a successful device operation.
const LedgerCodeOK uint16 = 0x9000

// LedgerAddress is the account reported by the device for a derivation path.
type LedgerAddress struct {
	Address   string
	PublicKey []byte
}

// LedgerSignResponse carries the DER encoded signature and the status word.
type LedgerSignResponse struct {
	Signature  []byte
	ReturnCode uint16
}

// LedgerTransport talks to the cosmos app of a Ledger device. Sign shows the
// amino JSON payload on the device and blocks until the user answers.
type LedgerTransport interface {
	GetAddress(ctx context.Context, hdPath []uint32, prefix string) (*LedgerAddress, error)
	Sign(ctx context.Context, hdPath []uint32, payload []byte) (*LedgerSignResponse, error)
}

// LedgerWallet signs amino JSON documents on a hardware device.
type LedgerWallet struct {
	account

	signMu    sync.Mutex
	transport LedgerTransport
	hdPath    []uint32
}

var _ Wallet = (*LedgerWallet)(nil)

func NewLedgerWallet(transport LedgerTransport) *LedgerWallet {
	return &LedgerWallet{transport: transport}
}

func (w *LedgerWallet) SigningMode() signingv1beta1.SignMode {
	return signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
}

func (w *LedgerWallet) CanChangeAccount() bool {
	return false
}

// UseAccount asks the device for the key at hdPath and checks that the
// reported address belongs to the reported key.
func (w *LedgerWallet) UseAccount(ctx context.Context, hdPath, prefix string) error {
	if w.transport == nil {
		return types.ErrNoMnemonicOrKey
	}
	hdPath, prefix = normalizeAccountArgs(hdPath, prefix)
	path, err := secp256k1.ParseHDPath(hdPath)
	if err != nil {
		return err
	}

	w.signMu.Lock()
	defer w.signMu.Unlock()

	resp, err := w.transport.GetAddress(ctx, path, prefix)
	if err != nil {
		return errors.Wrap(types.ErrLedgerDevice, err.Error())
	}
	if _, err = secp256k1.PubKeyFromBytes(resp.PublicKey); err != nil {
		return errors.Wrapf(types.ErrLedgerDevice, "device returned an invalid public key: %v", err)
	}
	if !types.VerifyWalletAddrBytes(resp.PublicKey, resp.Address) {
		return errors.Wrapf(types.ErrLedgerDevice, "device address %s does not match its public key", resp.Address)
	}
	w.hdPath = path
	w.set(resp.Address, resp.PublicKey)
	utils.DebugLogf("ledger wallet selected account %s at %s", resp.Address, hdPath)
	return nil
}

// Sign is not available: the device only signs documents it can display.
func (w *LedgerWallet) Sign(context.Context, []byte) ([]byte, error) {
	countSign(BackendLedger, "raw", types.ErrNotSupported)
	return nil, types.ErrNotSupported
}

func (w *LedgerWallet) SignTransaction(ctx context.Context, doc *tx.Document) (signDoc *tx.SignDoc, sig []byte, err error) {
	defer func() { countSign(BackendLedger, "tx", err) }()
	if err = requireChainID(doc); err != nil {
		return nil, nil, err
	}
	return w.signDocument(ctx, doc)
}

func (w *LedgerWallet) SignAminoTx(ctx context.Context, doc *tx.Document) (stdDoc *tx.StdSignDoc, sig []byte, err error) {
	defer func() { countSign(BackendLedger, "amino", err) }()
	if err = requireChainID(doc); err != nil {
		return nil, nil, err
	}
	signDoc, sig, err := w.signDocument(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	return signDoc.Amino, sig, nil
}

// SignMessage signs the amino JSON of the empty message document.
func (w *LedgerWallet) SignMessage(ctx context.Context, msg string) (signMsg *SignMsg, err error) {
	defer func() { countSign(BackendLedger, "message", err) }()
	address, pubKey, err := w.get()
	if err != nil {
		return nil, err
	}
	doc := tx.MessageDocument(pubKey, msg, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	_, sig, err := w.signDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	return newSignMsg(address, pubKey, msg, sig, BackendLedger), nil
}

func (w *LedgerWallet) signDocument(ctx context.Context, doc *tx.Document) (*tx.SignDoc, []byte, error) {
	w.signMu.Lock()
	defer w.signMu.Unlock()

	_, pubKey, err := w.get()
	if err != nil {
		return nil, nil, err
	}
	idx, err := doc.PrepareSigner(pubKey, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	if err != nil {
		return nil, nil, err
	}
	signDoc, signBytes, err := tx.MakeSignDoc(doc, idx)
	if err != nil {
		return nil, nil, err
	}

	resp, err := w.transport.Sign(ctx, w.hdPath, signBytes)
	if err != nil {
		return nil, nil, errors.Wrap(types.ErrLedgerDevice, err.Error())
	}
	if resp.ReturnCode != LedgerCodeOK {
		return nil, nil, errors.Wrapf(types.ErrLedgerDevice, "device returned status 0x%04x", resp.ReturnCode)
	}
	sig, err := secp256k1.SignatureFromDER(resp.Signature)
	if err != nil {
		return nil, nil, errors.Wrap(types.ErrLedgerDevice, err.Error())
	}

	pk, err := secp256k1.PubKeyFromBytes(pubKey)
	if err != nil {
		return nil, nil, err
	}
	if !pk.VerifySignature(signBytes, sig) {
		return nil, nil, errors.Wrap(types.ErrLedgerDevice, "device signature does not verify")
	}
	return signDoc, sig, nil
}
