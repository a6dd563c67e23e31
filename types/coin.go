package types

import (
	"fmt"
	"regexp"
	"strings"

	basev1beta1 "cosmossdk.io/api/cosmos/base/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"
)

var coinRegex = regexp.MustCompile(`^([0-9]+)\s*([a-zA-Z][a-zA-Z0-9/:._-]{2,127})$`)

// Coin is an amount in a single denomination.
type Coin struct {
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

func NewCoin(denom string, amount sdkmath.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// ParseCoin parses strings such as "1000000ncheq".
func ParseCoin(s string) (Coin, error) {
	matches := coinRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return Coin{}, errors.Errorf("invalid coin expression: %q", s)
	}
	amount, ok := sdkmath.NewIntFromString(matches[1])
	if !ok {
		return Coin{}, errors.Errorf("invalid coin amount: %q", matches[1])
	}
	return Coin{Denom: matches[2], Amount: amount}, nil
}

func (c Coin) String() string {
	return fmt.Sprintf("%v%s", c.Amount, c.Denom)
}

func (c Coin) Validate() error {
	if c.Denom == "" {
		return errors.New("coin denom is empty")
	}
	if c.Amount.IsNil() || c.Amount.IsNegative() {
		return errors.Errorf("invalid amount for %s", c.Denom)
	}
	return nil
}

func (c Coin) ToProto() *basev1beta1.Coin {
	return &basev1beta1.Coin{Denom: c.Denom, Amount: c.Amount.String()}
}

func CoinFromProto(c *basev1beta1.Coin) (Coin, error) {
	if c == nil {
		return Coin{}, errors.New("nil coin")
	}
	amount, ok := sdkmath.NewIntFromString(c.Amount)
	if !ok {
		return Coin{}, errors.Errorf("invalid coin amount: %q", c.Amount)
	}
	return Coin{Denom: c.Denom, Amount: amount}, nil
}

// Coins is an ordered list of coins. Order is preserved when encoding.
type Coins []Coin

func (cs Coins) ToProto() []*basev1beta1.Coin {
	out := make([]*basev1beta1.Coin, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ToProto())
	}
	return out
}

func CoinsFromProto(cs []*basev1beta1.Coin) (Coins, error) {
	out := make(Coins, 0, len(cs))
	for _, c := range cs {
		coin, err := CoinFromProto(c)
		if err != nil {
			return nil, err
		}
		out = append(out, coin)
	}
	return out, nil
}

// Fee is the fee section of a transaction.
type Fee struct {
	Amount  Coins  `json:"amount"`
	Gas     uint64 `json:"gas"`
	Payer   string `json:"payer,omitempty"`
	Granter string `json:"granter,omitempty"`
}

// NewFee returns a fee paying amount of BaseDenom for gas.
func NewFee(amount int64, gas uint64) Fee {
	return Fee{
		Amount: Coins{NewCoin(BaseDenom, sdkmath.NewInt(amount))},
		Gas:    gas,
	}
}

func (f Fee) ToProto() *txv1beta1.Fee {
	return &txv1beta1.Fee{
		Amount:   f.Amount.ToProto(),
		GasLimit: f.Gas,
		Payer:    f.Payer,
		Granter:  f.Granter,
	}
}

func FeeFromProto(f *txv1beta1.Fee) (Fee, error) {
	if f == nil {
		return Fee{Amount: Coins{}}, nil
	}
	amount, err := CoinsFromProto(f.Amount)
	if err != nil {
		return Fee{}, err
	}
	return Fee{Amount: amount, Gas: f.GasLimit, Payer: f.Payer, Granter: f.Granter}, nil
}
