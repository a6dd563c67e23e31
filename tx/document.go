package tx

import (
	"bytes"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/types/msgs"
)

// Document is an unsigned transaction.
type Document struct {
	ChainID  string
	Fee      types.Fee
	Memo     string
	Messages []msgs.Msg
	// Signers are ordered; index 0 is the primary signer and pays the fee.
	Signers []DocSigner
}

// DocSigner describes one signer of a Document. AccountNumber and Sequence
// must be read from the chain right before signing.
type DocSigner struct {
	AccountNumber uint64
	Sequence      uint64
	PublicKey     []byte
	// Mode is the sign mode this signer will use. Unspecified encodes as direct.
	Mode signingv1beta1.SignMode
}

// Validate checks the structural invariants of the document. It does not
// require a chain id, since message signing documents carry none.
func (d *Document) Validate() error {
	if len(d.Signers) == 0 {
		return errors.Wrap(types.ErrInvalidDocument, "no signers")
	}

	signerAddrs := make([][]byte, 0, len(d.Signers))
	for i, s := range d.Signers {
		pk, err := secp256k1.PubKeyFromBytes(s.PublicKey)
		if err != nil {
			return errors.Wrapf(types.ErrInvalidDocument, "signer %d: %v", i, err)
		}
		addr := pk.Address()
		for _, seen := range signerAddrs {
			if bytes.Equal(seen, addr) {
				return errors.Wrapf(types.ErrInvalidDocument, "signer %d is listed twice", i)
			}
		}
		signerAddrs = append(signerAddrs, addr)
	}

	for i, coin := range d.Fee.Amount {
		if err := coin.Validate(); err != nil {
			return errors.Wrapf(types.ErrInvalidDocument, "fee coin %d: %v", i, err)
		}
	}

	for i, msg := range d.Messages {
		if msg == nil {
			return errors.Wrapf(types.ErrInvalidDocument, "message %d is nil", i)
		}
		if err := msg.ValidateBasic(); err != nil {
			return errors.Wrapf(types.ErrInvalidDocument, "message %d: %v", i, err)
		}
		for _, signer := range msg.GetSigners() {
			bz, err := types.AddressBytes(signer)
			if err != nil {
				return errors.Wrapf(types.ErrInvalidDocument, "message %d signer: %v", i, err)
			}
			if !containsBytes(signerAddrs, bz) {
				return errors.Wrapf(types.ErrInvalidDocument, "message %d requires signature of %s which is not a document signer", i, signer)
			}
		}
	}
	return nil
}

// SignerIndex returns the position of pubKey within the signers.
func (d *Document) SignerIndex(pubKey []byte) (int, error) {
	for i, s := range d.Signers {
		if bytes.Equal(s.PublicKey, pubKey) {
			return i, nil
		}
	}
	return -1, types.ErrSignerNotFound
}

// PrepareSigner locates pubKey and records the sign mode the signer will use.
// A signer that already declares a different mode is rejected.
func (d *Document) PrepareSigner(pubKey []byte, mode signingv1beta1.SignMode) (int, error) {
	idx, err := d.SignerIndex(pubKey)
	if err != nil {
		return -1, err
	}
	current := d.Signers[idx].Mode
	if current != signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED && current != mode {
		return -1, errors.Wrapf(types.ErrInvalidDocument, "signer %d declares %s but signs with %s", idx, current, mode)
	}
	d.Signers[idx].Mode = mode
	return idx, nil
}

// MessageDocument is the empty transaction used to sign free text: no
// messages, zero fee, zero account number and sequence, empty chain id and
// the text as memo.
func MessageDocument(pubKey []byte, msg string, mode signingv1beta1.SignMode) *Document {
	return &Document{
		ChainID:  "",
		Fee:      types.Fee{Amount: types.Coins{}, Gas: 0},
		Memo:     msg,
		Messages: []msgs.Msg{},
		Signers: []DocSigner{{
			AccountNumber: 0,
			Sequence:      0,
			PublicKey:     pubKey,
			Mode:          mode,
		}},
	}
}

func containsBytes(list [][]byte, bz []byte) bool {
	for _, item := range list {
		if bytes.Equal(item, bz) {
			return true
		}
	}
	return false
}
