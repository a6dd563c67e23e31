package signing

import (
	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	"google.golang.org/protobuf/types/known/anypb"
)

// SignatureV2 is a convenience type that is easier to use in application logic
// than the protobuf SignerInfo's and raw signature bytes.
type SignatureV2 struct {
	// PubKey is the packed public key to use for verifying the signature
	PubKey *anypb.Any

	// Data is the actual data of the signature which includes the SignMode
	// and the signature itself.
	Data SignatureData

	// Sequence is the sequence of this account.
	Sequence uint64
}

// SignatureData represents a signature together with its SignMode. Only
// single key signatures are produced by this module.
type SignatureData interface {
	isSignatureData()
}

// SingleSignatureData represents the signature and SignMode of a single (non-multisig) signer
type SingleSignatureData struct {
	// SignMode represents the SignMode of the signature
	SignMode signingv1beta1.SignMode

	// Signature is the raw signature, empty while signer infos are being collected
	Signature []byte
}

var _ SignatureData = &SingleSignatureData{}

func (m *SingleSignatureData) isSignatureData() {}
