package tx

import (
	"github.com/cosmos/cosmos-proto/anyutil"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/anypb"

	secp256k1v1 "cosmossdk.io/api/cosmos/crypto/secp256k1"
	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"

	authtx "github.com/cheqd/wallet-core/types/auth/tx"
	"github.com/cheqd/wallet-core/types/msgs"
	"github.com/cheqd/wallet-core/types/tx/signing"
)

// BuildTx converts a Document into an unsigned protobuf transaction. Every
// signer info is set up front with an empty signature, since the full
// AuthInfo is part of what each signer signs.
func BuildTx(doc *Document) (*txv1beta1.Tx, error) {
	txMsgs, err := msgs.EncodeAll(doc.Messages)
	if err != nil {
		return nil, err
	}

	unsignedTx := &txv1beta1.Tx{
		Body: &txv1beta1.TxBody{
			Messages: txMsgs,
			Memo:     doc.Memo,
		},
		AuthInfo: &txv1beta1.AuthInfo{
			Fee: doc.Fee.ToProto(),
		},
	}

	sigsV2 := make([]signing.SignatureV2, 0, len(doc.Signers))
	for _, signer := range doc.Signers {
		pubKeyAny, err := PackPubKey(signer.PublicKey)
		if err != nil {
			return nil, err
		}
		sigsV2 = append(sigsV2, signing.SignatureV2{
			PubKey: pubKeyAny,
			Data: &signing.SingleSignatureData{
				SignMode:  signerMode(signer.Mode),
				Signature: nil,
			},
			Sequence: signer.Sequence,
		})
	}

	return SetSignatures(unsignedTx, sigsV2...)
}

// SetSignatures writes signer infos and raw signatures into tx, in order.
func SetSignatures(tx *txv1beta1.Tx, signatures ...signing.SignatureV2) (*txv1beta1.Tx, error) {
	n := len(signatures)
	signerInfos := make([]*txv1beta1.SignerInfo, n)
	rawSigs := make([][]byte, n)

	for i, sig := range signatures {
		modeInfo, rawSig, err := authtx.SignatureDataToModeInfoAndSig(sig.Data)
		if err != nil {
			return nil, err
		}
		rawSigs[i] = rawSig

		signerInfos[i] = &txv1beta1.SignerInfo{
			PublicKey: sig.PubKey,
			ModeInfo:  modeInfo,
			Sequence:  sig.Sequence,
		}
	}

	tx.AuthInfo.SignerInfos = signerInfos
	tx.Signatures = rawSigs

	return tx, nil
}

// PackPubKey wraps a compressed key as a /cosmos.crypto.secp256k1.PubKey Any.
func PackPubKey(pubKey []byte) (*anypb.Any, error) {
	if len(pubKey) == 0 {
		return nil, errors.New("empty public key")
	}
	return anyutil.New(&secp256k1v1.PubKey{Key: pubKey})
}

// AssembleTxRaw joins the canonical body and auth info bytes with the
// signatures, which must be in signer order.
func AssembleTxRaw(signDoc *SignDoc, signatures [][]byte) ([]byte, error) {
	if signDoc == nil {
		return nil, errors.New("no sign doc")
	}
	raw := &txv1beta1.TxRaw{
		BodyBytes:     signDoc.BodyBytes,
		AuthInfoBytes: signDoc.AuthInfoBytes,
		Signatures:    signatures,
	}
	return deterministic.Marshal(raw)
}

// BuildSimulationTx returns raw tx bytes with empty signatures, suitable for gas simulation.
func BuildSimulationTx(doc *Document) ([]byte, error) {
	unsignedTx, err := BuildTx(doc)
	if err != nil {
		return nil, err
	}
	bodyBz, err := EncodeBody(unsignedTx)
	if err != nil {
		return nil, err
	}
	authInfoBz, err := EncodeAuthInfo(unsignedTx)
	if err != nil {
		return nil, err
	}
	sigs := make([][]byte, len(doc.Signers))
	for i := range sigs {
		sigs[i] = []byte{}
	}
	return AssembleTxRaw(&SignDoc{BodyBytes: bodyBz, AuthInfoBytes: authInfoBz}, sigs)
}

func signerMode(mode signingv1beta1.SignMode) signingv1beta1.SignMode {
	if mode == signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED {
		return defaultTxConfig.SignModeHandler().DefaultMode()
	}
	return mode
}
