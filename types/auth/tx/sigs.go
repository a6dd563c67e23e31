package tx

import (
	"fmt"

	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"

	txsigning "github.com/cheqd/wallet-core/types/tx/signing"
)

// SignatureDataToModeInfoAndSig converts a SignatureData to a ModeInfo and raw bytes signature
func SignatureDataToModeInfoAndSig(data txsigning.SignatureData) (*txv1beta1.ModeInfo, []byte, error) {
	if data == nil {
		return nil, nil, nil
	}

	switch data := data.(type) {
	case *txsigning.SingleSignatureData:
		return &txv1beta1.ModeInfo{
			Sum: &txv1beta1.ModeInfo_Single_{
				Single: &txv1beta1.ModeInfo_Single{Mode: data.SignMode},
			},
		}, data.Signature, nil
	default:
		return nil, nil, fmt.Errorf("unexpected signature data type %T", data)
	}
}
