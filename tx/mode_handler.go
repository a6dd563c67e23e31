package tx

import (
	"fmt"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"

	authsigning "github.com/cheqd/wallet-core/types/auth/signing"
)

// DefaultSignModes are the sign modes enabled for protobuf transactions.
// The first one is the default.
var DefaultSignModes = []signingv1beta1.SignMode{
	signingv1beta1.SignMode_SIGN_MODE_DIRECT,
	signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON,
}

// makeSignModeHandler returns the SignModeHandler for the given modes.
func makeSignModeHandler(modes []signingv1beta1.SignMode) authsigning.SignModeHandler {
	if len(modes) < 1 {
		panic(fmt.Errorf("no sign modes enabled"))
	}

	handlers := make([]authsigning.SignModeHandler, len(modes))

	for i, mode := range modes {
		switch mode {
		case signingv1beta1.SignMode_SIGN_MODE_DIRECT:
			handlers[i] = signModeDirectHandler{}
		case signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON:
			handlers[i] = signModeLegacyAminoJSONHandler{}
		default:
			panic(fmt.Errorf("unsupported sign mode %+v", mode))
		}
	}

	return authsigning.NewSignModeHandlerMap(
		modes[0],
		handlers,
	)
}
