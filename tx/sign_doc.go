package tx

import (
	"bytes"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/types"
	authsigning "github.com/cheqd/wallet-core/types/auth/signing"
)

// SignDoc is the mode specific canonical form of a Document for one signer.
// It is always derived with MakeSignDoc.
type SignDoc struct {
	Mode          signingv1beta1.SignMode
	ChainID       string
	AccountNumber uint64
	Sequence      uint64
	BodyBytes     []byte
	AuthInfoBytes []byte
	// Amino is set for SIGN_MODE_LEGACY_AMINO_JSON only.
	Amino *StdSignDoc
}

// MakeSignDoc derives the SignDoc and the sign bytes for the signer at signerIdx.
func MakeSignDoc(doc *Document, signerIdx int) (*SignDoc, []byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}
	if signerIdx < 0 || signerIdx >= len(doc.Signers) {
		return nil, nil, types.ErrSignerNotFound
	}

	unsignedTx, err := BuildTx(doc)
	if err != nil {
		return nil, nil, err
	}
	bodyBz, err := EncodeBody(unsignedTx)
	if err != nil {
		return nil, nil, err
	}
	authInfoBz, err := EncodeAuthInfo(unsignedTx)
	if err != nil {
		return nil, nil, err
	}

	signer := doc.Signers[signerIdx]
	mode := signerMode(signer.Mode)
	address, err := types.AddressFromPubKey(types.CheqdBech32Prefix, signer.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	signerData := authsigning.SignerData{
		Address:       address,
		ChainID:       doc.ChainID,
		AccountNumber: signer.AccountNumber,
		Sequence:      signer.Sequence,
		PubKey:        signer.PublicKey,
	}

	signBytes, err := defaultTxConfig.SignModeHandler().GetSignBytes(mode, signerData, unsignedTx)
	if err != nil {
		return nil, nil, err
	}

	signDoc := &SignDoc{
		Mode:          mode,
		ChainID:       doc.ChainID,
		AccountNumber: signer.AccountNumber,
		Sequence:      signer.Sequence,
		BodyBytes:     bodyBz,
		AuthInfoBytes: authInfoBz,
	}
	if mode == signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON {
		signDoc.Amino, err = StdSignDocFromTx(signerData, unsignedTx)
		if err != nil {
			return nil, nil, err
		}
	}
	return signDoc, signBytes, nil
}

// SignBytes re-derives the bytes a signature over this SignDoc covers.
func (s *SignDoc) SignBytes() ([]byte, error) {
	switch s.Mode {
	case signingv1beta1.SignMode_SIGN_MODE_DIRECT:
		return DirectSignBytes(s.BodyBytes, s.AuthInfoBytes, s.ChainID, s.AccountNumber)
	case signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON:
		if s.Amino == nil {
			return nil, errors.New("amino sign doc missing")
		}
		return s.Amino.Bytes()
	default:
		return nil, errors.Wrapf(types.ErrUnknownSigningMode, "%s", s.Mode)
	}
}

// Proto returns the direct mode SignDoc message.
func (s *SignDoc) Proto() *txv1beta1.SignDoc {
	return &txv1beta1.SignDoc{
		BodyBytes:     s.BodyBytes,
		AuthInfoBytes: s.AuthInfoBytes,
		ChainId:       s.ChainID,
		AccountNumber: s.AccountNumber,
	}
}

// SameTransaction reports whether both sign docs describe the same body and auth info.
func (s *SignDoc) SameTransaction(other *SignDoc) bool {
	return other != nil &&
		bytes.Equal(s.BodyBytes, other.BodyBytes) &&
		bytes.Equal(s.AuthInfoBytes, other.AuthInfoBytes)
}
