package wallet

import (
	"bytes"
	"context"
	"sync"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

// AccountData is an account exposed by an external signer.
type AccountData struct {
	Address string
	PubKey  []byte
	Algo    string
}

// OfflineSigner is an external signer such as a browser extension or a
// remote signing service.
type OfflineSigner interface {
	GetAccounts(ctx context.Context) ([]AccountData, error)
}

// DirectSignResponse is the document the signer signed and its signature.
type DirectSignResponse struct {
	Signed    *txv1beta1.SignDoc
	Signature []byte
}

// DirectSigner signs protobuf sign docs.
type DirectSigner interface {
	OfflineSigner
	SignDirect(ctx context.Context, address string, signDoc *txv1beta1.SignDoc) (*DirectSignResponse, error)
}

// AminoSignResponse is the document the signer signed and its signature. The
// signer may have edited the fee and memo.
type AminoSignResponse struct {
	Signed    *tx.StdSignDoc
	Signature []byte
}

// AminoSigner signs amino JSON documents.
type AminoSigner interface {
	OfflineSigner
	SignAmino(ctx context.Context, address string, signDoc *tx.StdSignDoc) (*AminoSignResponse, error)
}

// OfflineSignerWallet forwards signing to an OfflineSigner, preferring
// direct mode when the signer supports it.
type OfflineSignerWallet struct {
	account

	signMu sync.Mutex
	signer OfflineSigner
}

var _ Wallet = (*OfflineSignerWallet)(nil)

func NewOfflineSignerWallet(signer OfflineSigner) *OfflineSignerWallet {
	return &OfflineSignerWallet{signer: signer}
}

func (w *OfflineSignerWallet) SigningMode() signingv1beta1.SignMode {
	switch w.signer.(type) {
	case DirectSigner:
		return signingv1beta1.SignMode_SIGN_MODE_DIRECT
	case AminoSigner:
		return signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
	default:
		return signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED
	}
}

func (w *OfflineSignerWallet) CanChangeAccount() bool {
	return false
}

// UseAccount selects the first account the signer exposes. The signer owns
// derivation, so hdPath is ignored; the address is re-encoded with prefix.
func (w *OfflineSignerWallet) UseAccount(ctx context.Context, _, prefix string) error {
	if w.signer == nil {
		return types.ErrNoMnemonicOrKey
	}
	_, prefix = normalizeAccountArgs("", prefix)

	w.signMu.Lock()
	defer w.signMu.Unlock()

	accounts, err := w.signer.GetAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return errors.Wrap(types.ErrNoMnemonicOrKey, "signer exposes no accounts")
	}
	acc := accounts[0]
	if !types.VerifyWalletAddrBytes(acc.PubKey, acc.Address) {
		return errors.Errorf("signer account %s does not match its public key", acc.Address)
	}
	address, err := types.AddressFromPubKey(prefix, acc.PubKey)
	if err != nil {
		return err
	}
	w.set(address, acc.PubKey)
	utils.DebugLogf("offline wallet selected account %s", address)
	return nil
}

// Sign is not available: external signers only sign documents.
func (w *OfflineSignerWallet) Sign(context.Context, []byte) ([]byte, error) {
	countSign(BackendOffline, "raw", types.ErrNotSupported)
	return nil, types.ErrNotSupported
}

func (w *OfflineSignerWallet) SignTransaction(ctx context.Context, doc *tx.Document) (signDoc *tx.SignDoc, sig []byte, err error) {
	defer func() { countSign(BackendOffline, "tx", err) }()
	if err = requireChainID(doc); err != nil {
		return nil, nil, err
	}

	w.signMu.Lock()
	defer w.signMu.Unlock()

	switch signer := w.signer.(type) {
	case DirectSigner:
		return w.signDirect(ctx, signer, doc)
	case AminoSigner:
		return w.signAmino(ctx, signer, doc)
	default:
		return nil, nil, types.ErrUnknownSigningMode
	}
}

func (w *OfflineSignerWallet) SignAminoTx(ctx context.Context, doc *tx.Document) (stdDoc *tx.StdSignDoc, sig []byte, err error) {
	defer func() { countSign(BackendOffline, "amino", err) }()
	signer, ok := w.signer.(AminoSigner)
	if !ok {
		return rejectAminoTx(BackendOffline)
	}
	if err = requireChainID(doc); err != nil {
		return nil, nil, err
	}

	w.signMu.Lock()
	defer w.signMu.Unlock()

	signDoc, sig, err := w.signAmino(ctx, signer, doc)
	if err != nil {
		return nil, nil, err
	}
	return signDoc.Amino, sig, nil
}

// SignMessage signs the direct sign bytes of the empty message document.
// Signers without direct support cannot produce a verifiable message.
func (w *OfflineSignerWallet) SignMessage(ctx context.Context, msg string) (signMsg *SignMsg, err error) {
	defer func() { countSign(BackendOffline, "message", err) }()
	signer, ok := w.signer.(DirectSigner)
	if !ok {
		return nil, errors.Wrap(types.ErrNotSupported, "message signing requires a direct signer")
	}

	w.signMu.Lock()
	defer w.signMu.Unlock()

	address, pubKey, err := w.get()
	if err != nil {
		return nil, err
	}
	doc := tx.MessageDocument(pubKey, msg, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	_, sig, err := w.signDirect(ctx, signer, doc)
	if err != nil {
		return nil, err
	}
	return newSignMsg(address, pubKey, msg, sig, BackendOffline), nil
}

func (w *OfflineSignerWallet) signDirect(ctx context.Context, signer DirectSigner, doc *tx.Document) (*tx.SignDoc, []byte, error) {
	address, pubKey, err := w.get()
	if err != nil {
		return nil, nil, err
	}
	idx, err := doc.PrepareSigner(pubKey, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	if err != nil {
		return nil, nil, err
	}
	signDoc, signBytes, err := tx.MakeSignDoc(doc, idx)
	if err != nil {
		return nil, nil, err
	}

	resp, err := signer.SignDirect(ctx, address, signDoc.Proto())
	if err != nil {
		return nil, nil, err
	}
	if signed := resp.Signed; signed != nil {
		if !bytes.Equal(signed.BodyBytes, signDoc.BodyBytes) ||
			!bytes.Equal(signed.AuthInfoBytes, signDoc.AuthInfoBytes) ||
			signed.ChainId != signDoc.ChainID ||
			signed.AccountNumber != signDoc.AccountNumber {
			return nil, nil, errors.Wrap(types.ErrSignDocMismatch, "signer modified the direct sign doc")
		}
	}
	if err = verifyReturned(pubKey, signBytes, resp.Signature); err != nil {
		return nil, nil, err
	}
	return signDoc, resp.Signature, nil
}

// signAmino lets the signer edit fee and memo, writes the edits back into doc
// and returns the SignDoc derived from the edited document.
func (w *OfflineSignerWallet) signAmino(ctx context.Context, signer AminoSigner, doc *tx.Document) (*tx.SignDoc, []byte, error) {
	address, pubKey, err := w.get()
	if err != nil {
		return nil, nil, err
	}
	idx, err := doc.PrepareSigner(pubKey, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	if err != nil {
		return nil, nil, err
	}
	sent, _, err := tx.MakeSignDoc(doc, idx)
	if err != nil {
		return nil, nil, err
	}

	resp, err := signer.SignAmino(ctx, address, sent.Amino)
	if err != nil {
		return nil, nil, err
	}
	if resp.Signed != nil {
		if err = doc.ApplyAminoEdits(sent.Amino, resp.Signed); err != nil {
			return nil, nil, errors.Wrap(types.ErrSignDocMismatch, err.Error())
		}
	}

	signDoc, signBytes, err := tx.MakeSignDoc(doc, idx)
	if err != nil {
		return nil, nil, err
	}
	if err = verifyReturned(pubKey, signBytes, resp.Signature); err != nil {
		return nil, nil, err
	}
	return signDoc, resp.Signature, nil
}

func verifyReturned(pubKey, signBytes, sig []byte) error {
	pk, err := secp256k1.PubKeyFromBytes(pubKey)
	if err != nil {
		return err
	}
	if !pk.VerifySignature(signBytes, sig) {
		return errors.Wrap(types.ErrVerificationFailure, "signer returned an invalid signature")
	}
	return nil
}
