package msgs

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/types"
)

// AminoMsg is the legacy JSON envelope of a message.
type AminoMsg struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type AminoCoin struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

type aminoMsgSend struct {
	Amount      []AminoCoin `json:"amount"`
	FromAddress string      `json:"from_address"`
	ToAddress   string      `json:"to_address"`
}

type aminoMsgDelegate struct {
	Amount           AminoCoin `json:"amount"`
	DelegatorAddress string    `json:"delegator_address"`
	ValidatorAddress string    `json:"validator_address"`
}

type aminoMsgBeginRedelegate struct {
	Amount              AminoCoin `json:"amount"`
	DelegatorAddress    string    `json:"delegator_address"`
	ValidatorDstAddress string    `json:"validator_dst_address"`
	ValidatorSrcAddress string    `json:"validator_src_address"`
}

type aminoMsgWithdrawDelegatorReward struct {
	DelegatorAddress string `json:"delegator_address"`
	ValidatorAddress string `json:"validator_address"`
}

type aminoMsgVote struct {
	Option     int32  `json:"option"`
	ProposalID string `json:"proposal_id"`
	Voter      string `json:"voter"`
}

// ToAmino converts a message to its legacy JSON form.
func ToAmino(msg Msg) (AminoMsg, error) {
	var value interface{}
	switch m := msg.(type) {
	case *MsgSend:
		value = aminoMsgSend{Amount: ToAminoCoins(m.Amount), FromAddress: m.FromAddress, ToAddress: m.ToAddress}
	case *MsgDelegate:
		value = aminoMsgDelegate{Amount: ToAminoCoin(m.Amount), DelegatorAddress: m.DelegatorAddress, ValidatorAddress: m.ValidatorAddress}
	case *MsgUndelegate:
		value = aminoMsgDelegate{Amount: ToAminoCoin(m.Amount), DelegatorAddress: m.DelegatorAddress, ValidatorAddress: m.ValidatorAddress}
	case *MsgBeginRedelegate:
		value = aminoMsgBeginRedelegate{
			Amount:              ToAminoCoin(m.Amount),
			DelegatorAddress:    m.DelegatorAddress,
			ValidatorDstAddress: m.ValidatorDstAddress,
			ValidatorSrcAddress: m.ValidatorSrcAddress,
		}
	case *MsgWithdrawDelegatorReward:
		value = aminoMsgWithdrawDelegatorReward{DelegatorAddress: m.DelegatorAddress, ValidatorAddress: m.ValidatorAddress}
	case *MsgVote:
		value = aminoMsgVote{Option: int32(m.Option), ProposalID: strconv.FormatUint(m.ProposalID, 10), Voter: m.Voter}
	default:
		return AminoMsg{}, errors.Wrapf(types.ErrUnknownMsgType, "%T", msg)
	}
	return AminoMsg{Type: msg.AminoType(), Value: value}, nil
}

func ToAminoCoin(c types.Coin) AminoCoin {
	return AminoCoin{Amount: c.Amount.String(), Denom: c.Denom}
}

// ToAminoCoins never returns nil so empty lists encode as [].
func ToAminoCoins(cs types.Coins) []AminoCoin {
	out := make([]AminoCoin, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToAminoCoin(c))
	}
	return out
}
