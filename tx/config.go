package tx

import (
	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"

	authsigning "github.com/cheqd/wallet-core/types/auth/signing"
)

// TxConfig gives access to the sign mode handlers used to derive sign bytes.
type TxConfig interface {
	SignModeHandler() authsigning.SignModeHandler
}

type config struct {
	handler authsigning.SignModeHandler
}

var defaultTxConfig = NewTxConfig(DefaultSignModes)

// NewTxConfig returns a new TxConfig with the provided sign modes. The
// first enabled sign mode will become the default sign mode.
func NewTxConfig(enabledSignModes []signingv1beta1.SignMode) TxConfig {
	return &config{
		handler: makeSignModeHandler(enabledSignModes),
	}
}

func (g config) SignModeHandler() authsigning.SignModeHandler {
	return g.handler
}
