package tx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/types"
	authsigning "github.com/cheqd/wallet-core/types/auth/signing"
	"github.com/cheqd/wallet-core/types/msgs"
)

// StdFee is the amino JSON fee.
type StdFee struct {
	Amount  []msgs.AminoCoin `json:"amount"`
	Gas     string           `json:"gas"`
	Payer   string           `json:"payer,omitempty"`
	Granter string           `json:"granter,omitempty"`
}

// StdSignDoc is the amino JSON document presented to hardware and amino-only signers.
type StdSignDoc struct {
	AccountNumber string          `json:"account_number"`
	ChainID       string          `json:"chain_id"`
	Fee           StdFee          `json:"fee"`
	Memo          string          `json:"memo"`
	Msgs          []msgs.AminoMsg `json:"msgs"`
	Sequence      string          `json:"sequence"`
}

// Bytes returns the canonical sign bytes: compact JSON with lexicographically sorted keys.
func (d *StdSignDoc) Bytes() ([]byte, error) {
	doc := *d
	if doc.Msgs == nil {
		doc.Msgs = []msgs.AminoMsg{}
	}
	if doc.Fee.Amount == nil {
		doc.Fee.Amount = []msgs.AminoCoin{}
	}
	bz, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return SortJSON(bz)
}

// SortJSON re-encodes a JSON document with all object keys sorted. Numbers
// are kept verbatim.
func SortJSON(toSortJSON []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(toSortJSON))
	dec.UseNumber()
	var c interface{}
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	// encoding/json writes map keys in sorted order
	return json.Marshal(c)
}

// signModeLegacyAminoJSONHandler defines the SIGN_MODE_LEGACY_AMINO_JSON SignModeHandler
type signModeLegacyAminoJSONHandler struct{}

var _ authsigning.SignModeHandler = signModeLegacyAminoJSONHandler{}

func (signModeLegacyAminoJSONHandler) DefaultMode() signingv1beta1.SignMode {
	return signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
}

func (signModeLegacyAminoJSONHandler) Modes() []signingv1beta1.SignMode {
	return []signingv1beta1.SignMode{signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON}
}

func (signModeLegacyAminoJSONHandler) GetSignBytes(mode signingv1beta1.SignMode, data authsigning.SignerData, tx *txv1beta1.Tx) ([]byte, error) {
	if mode != signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON {
		return nil, fmt.Errorf("expected %s, got %s", signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, mode)
	}
	doc, err := StdSignDocFromTx(data, tx)
	if err != nil {
		return nil, err
	}
	return doc.Bytes()
}

// StdSignDocFromTx builds the amino JSON document for one signer of tx.
func StdSignDocFromTx(data authsigning.SignerData, tx *txv1beta1.Tx) (*StdSignDoc, error) {
	decoded, err := msgs.DecodeAll(tx.GetBody().GetMessages())
	if err != nil {
		return nil, err
	}
	aminoMsgs := make([]msgs.AminoMsg, 0, len(decoded))
	for _, msg := range decoded {
		am, err := msgs.ToAmino(msg)
		if err != nil {
			return nil, err
		}
		aminoMsgs = append(aminoMsgs, am)
	}

	fee := tx.GetAuthInfo().GetFee()
	amount := make([]msgs.AminoCoin, 0, len(fee.GetAmount()))
	for _, c := range fee.GetAmount() {
		amount = append(amount, msgs.AminoCoin{Amount: c.Amount, Denom: c.Denom})
	}

	return &StdSignDoc{
		AccountNumber: strconv.FormatUint(data.AccountNumber, 10),
		ChainID:       data.ChainID,
		Fee: StdFee{
			Amount:  amount,
			Gas:     strconv.FormatUint(fee.GetGasLimit(), 10),
			Payer:   fee.GetPayer(),
			Granter: fee.GetGranter(),
		},
		Memo:     tx.GetBody().GetMemo(),
		Msgs:     aminoMsgs,
		Sequence: strconv.FormatUint(data.Sequence, 10),
	}, nil
}

// ApplyAminoEdits writes the fee and memo of a StdSignDoc returned by an
// external signer back into d. Everything else must be unchanged.
func (d *Document) ApplyAminoEdits(sent, returned *StdSignDoc) error {
	if returned == nil {
		return errors.New("signer returned no sign doc")
	}
	if sent.ChainID != returned.ChainID || sent.AccountNumber != returned.AccountNumber || sent.Sequence != returned.Sequence {
		return errors.New("signer changed chain id, account number or sequence")
	}
	sentMsgs, err := json.Marshal(sent.Msgs)
	if err != nil {
		return err
	}
	returnedMsgs, err := json.Marshal(returned.Msgs)
	if err != nil {
		return err
	}
	sortedSent, err := SortJSON(sentMsgs)
	if err != nil {
		return err
	}
	sortedReturned, err := SortJSON(returnedMsgs)
	if err != nil {
		return err
	}
	if !bytes.Equal(sortedSent, sortedReturned) {
		return errors.New("signer changed the messages")
	}

	gas, err := strconv.ParseUint(returned.Fee.Gas, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid gas %q", returned.Fee.Gas)
	}
	amount := make(types.Coins, 0, len(returned.Fee.Amount))
	for _, c := range returned.Fee.Amount {
		value, ok := sdkmath.NewIntFromString(c.Amount)
		if !ok {
			return errors.Errorf("invalid fee amount %q", c.Amount)
		}
		coin := types.NewCoin(c.Denom, value)
		if err := coin.Validate(); err != nil {
			return errors.Wrap(err, "invalid fee coin")
		}
		amount = append(amount, coin)
	}

	d.Fee = types.Fee{Amount: amount, Gas: gas, Payer: returned.Fee.Payer, Granter: returned.Fee.Granter}
	d.Memo = returned.Memo
	return nil
}
