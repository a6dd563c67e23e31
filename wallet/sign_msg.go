package wallet

import (
	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"

	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/utils"
)

// SignMsgVersion is the current signed message format.
const SignMsgVersion = "1"

// SignMsg is a signed free text message together with what a verifier needs
// to check it.
type SignMsg struct {
	Address   string  `json:"address"`
	PublicKey []byte  `json:"publicKey"`
	Msg       string  `json:"msg"`
	Sig       []byte  `json:"sig"`
	Version   string  `json:"version"`
	Signer    Backend `json:"signer"`
}

func newSignMsg(address string, pubKey []byte, msg string, sig []byte, signer Backend) *SignMsg {
	return &SignMsg{
		Address:   address,
		PublicKey: pubKey,
		Msg:       msg,
		Sig:       sig,
		Version:   SignMsgVersion,
		Signer:    signer,
	}
}

// VerifySignMsg checks a signed message. Every failure returns
// types.ErrVerificationFailure without detail.
func VerifySignMsg(msg *SignMsg) error {
	if msg == nil || msg.Version != SignMsgVersion {
		return types.ErrVerificationFailure
	}
	if !types.VerifyWalletAddrBytes(msg.PublicKey, msg.Address) {
		return types.ErrVerificationFailure
	}
	pk, err := secp256k1.PubKeyFromBytes(msg.PublicKey)
	if err != nil {
		return types.ErrVerificationFailure
	}

	signBytes, err := messageSignBytes(msg)
	if err != nil {
		utils.DebugLogf("message sign bytes: %v", err)
		return types.ErrVerificationFailure
	}
	if !pk.VerifySignature(signBytes, msg.Sig) {
		return types.ErrVerificationFailure
	}
	return nil
}

func messageSignBytes(msg *SignMsg) ([]byte, error) {
	var mode signingv1beta1.SignMode
	switch msg.Signer {
	case BackendPaper:
		return []byte(msg.Msg), nil
	case BackendOffline:
		mode = signingv1beta1.SignMode_SIGN_MODE_DIRECT
	case BackendLedger:
		mode = signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
	default:
		return nil, types.ErrUnknownSigningMode
	}
	_, signBytes, err := tx.MakeSignDoc(tx.MessageDocument(msg.PublicKey, msg.Msg, mode), 0)
	return signBytes, err
}
