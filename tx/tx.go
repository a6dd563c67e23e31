package tx

import (
	"github.com/cheqd/wallet-core/crypto/secp256k1"
	txsigning "github.com/cheqd/wallet-core/types/tx/signing"
)

// SignWithPrivKey signs a SignDoc with the given private key, and returns the
// corresponding SignatureV2 if the signing is successful.
func SignWithPrivKey(signDoc *SignDoc, priv *secp256k1.PrivKey) (txsigning.SignatureV2, error) {
	var sigV2 txsigning.SignatureV2

	// Generate the bytes to be signed.
	signBytes, err := signDoc.SignBytes()
	if err != nil {
		return sigV2, err
	}

	// Sign those bytes
	signature, err := priv.Sign(signBytes)
	if err != nil {
		return sigV2, err
	}

	pubKeyAny, err := PackPubKey(priv.PubKey().Bytes())
	if err != nil {
		return sigV2, err
	}

	sigV2 = txsigning.SignatureV2{
		PubKey: pubKeyAny,
		Data: &txsigning.SingleSignatureData{
			SignMode:  signDoc.Mode,
			Signature: signature,
		},
		Sequence: signDoc.Sequence,
	}

	return sigV2, nil
}

// RawSignature extracts the signature bytes of a single signer.
func RawSignature(sig txsigning.SignatureV2) []byte {
	if data, ok := sig.Data.(*txsigning.SingleSignatureData); ok {
		return data.Signature
	}
	return nil
}
