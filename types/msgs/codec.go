package msgs

import (
	"github.com/cosmos/cosmos-proto/anyutil"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"

	bankv1beta1 "cosmossdk.io/api/cosmos/bank/v1beta1"
	basev1beta1 "cosmossdk.io/api/cosmos/base/v1beta1"
	distributionv1beta1 "cosmossdk.io/api/cosmos/distribution/v1beta1"
	govv1beta1 "cosmossdk.io/api/cosmos/gov/v1beta1"
	stakingv1beta1 "cosmossdk.io/api/cosmos/staking/v1beta1"

	"github.com/cheqd/wallet-core/types"
)

// Encode packs a message into an Any carrying its protobuf encoding.
func Encode(msg Msg) (*anypb.Any, error) {
	var pb proto.Message
	switch m := msg.(type) {
	case *MsgSend:
		pb = &bankv1beta1.MsgSend{
			FromAddress: m.FromAddress,
			ToAddress:   m.ToAddress,
			Amount:      m.Amount.ToProto(),
		}
	case *MsgDelegate:
		pb = &stakingv1beta1.MsgDelegate{
			DelegatorAddress: m.DelegatorAddress,
			ValidatorAddress: m.ValidatorAddress,
			Amount:           m.Amount.ToProto(),
		}
	case *MsgUndelegate:
		pb = &stakingv1beta1.MsgUndelegate{
			DelegatorAddress: m.DelegatorAddress,
			ValidatorAddress: m.ValidatorAddress,
			Amount:           m.Amount.ToProto(),
		}
	case *MsgBeginRedelegate:
		pb = &stakingv1beta1.MsgBeginRedelegate{
			DelegatorAddress:    m.DelegatorAddress,
			ValidatorSrcAddress: m.ValidatorSrcAddress,
			ValidatorDstAddress: m.ValidatorDstAddress,
			Amount:              m.Amount.ToProto(),
		}
	case *MsgWithdrawDelegatorReward:
		pb = &distributionv1beta1.MsgWithdrawDelegatorReward{
			DelegatorAddress: m.DelegatorAddress,
			ValidatorAddress: m.ValidatorAddress,
		}
	case *MsgVote:
		pb = &govv1beta1.MsgVote{
			ProposalId: m.ProposalID,
			Voter:      m.Voter,
			Option:     govv1beta1.VoteOption(m.Option),
		}
	default:
		return nil, errors.Wrapf(types.ErrUnknownMsgType, "%T", msg)
	}
	return anyutil.New(pb)
}

// EncodeAll packs messages preserving order.
func EncodeAll(msgs []Msg) ([]*anypb.Any, error) {
	out := make([]*anypb.Any, 0, len(msgs))
	for i, msg := range msgs {
		a, err := Encode(msg)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		out = append(out, a)
	}
	return out, nil
}

// Decode unpacks an Any produced by Encode or by the chain.
func Decode(a *anypb.Any) (Msg, error) {
	if a == nil {
		return nil, errors.Wrap(types.ErrUnknownMsgType, "nil message")
	}
	switch a.TypeUrl {
	case TypeMsgSend:
		pb := &bankv1beta1.MsgSend{}
		if err := a.UnmarshalTo(pb); err != nil {
			return nil, wrapUnmarshal(err, a.TypeUrl)
		}
		amount, err := types.CoinsFromProto(pb.Amount)
		if err != nil {
			return nil, err
		}
		return &MsgSend{FromAddress: pb.FromAddress, ToAddress: pb.ToAddress, Amount: amount}, nil
	case TypeMsgDelegate:
		pb := &stakingv1beta1.MsgDelegate{}
		if err := a.UnmarshalTo(pb); err != nil {
			return nil, wrapUnmarshal(err, a.TypeUrl)
		}
		amount, err := coinFromProto(pb.Amount)
		if err != nil {
			return nil, err
		}
		return &MsgDelegate{DelegatorAddress: pb.DelegatorAddress, ValidatorAddress: pb.ValidatorAddress, Amount: amount}, nil
	case TypeMsgUndelegate:
		pb := &stakingv1beta1.MsgUndelegate{}
		if err := a.UnmarshalTo(pb); err != nil {
			return nil, wrapUnmarshal(err, a.TypeUrl)
		}
		amount, err := coinFromProto(pb.Amount)
		if err != nil {
			return nil, err
		}
		return &MsgUndelegate{DelegatorAddress: pb.DelegatorAddress, ValidatorAddress: pb.ValidatorAddress, Amount: amount}, nil
	case TypeMsgBeginRedelegate:
		pb := &stakingv1beta1.MsgBeginRedelegate{}
		if err := a.UnmarshalTo(pb); err != nil {
			return nil, wrapUnmarshal(err, a.TypeUrl)
		}
		amount, err := coinFromProto(pb.Amount)
		if err != nil {
			return nil, err
		}
		return &MsgBeginRedelegate{
			DelegatorAddress:    pb.DelegatorAddress,
			ValidatorSrcAddress: pb.ValidatorSrcAddress,
			ValidatorDstAddress: pb.ValidatorDstAddress,
			Amount:              amount,
		}, nil
	case TypeMsgWithdrawDelegatorReward:
		pb := &distributionv1beta1.MsgWithdrawDelegatorReward{}
		if err := a.UnmarshalTo(pb); err != nil {
			return nil, wrapUnmarshal(err, a.TypeUrl)
		}
		return &MsgWithdrawDelegatorReward{DelegatorAddress: pb.DelegatorAddress, ValidatorAddress: pb.ValidatorAddress}, nil
	case TypeMsgVote:
		pb := &govv1beta1.MsgVote{}
		if err := a.UnmarshalTo(pb); err != nil {
			return nil, wrapUnmarshal(err, a.TypeUrl)
		}
		return &MsgVote{ProposalID: pb.ProposalId, Voter: pb.Voter, Option: VoteOption(pb.Option)}, nil
	default:
		return nil, errors.Wrapf(types.ErrUnknownMsgType, "type url %s", a.TypeUrl)
	}
}

// DecodeAll unpacks messages preserving order.
func DecodeAll(anys []*anypb.Any) ([]Msg, error) {
	out := make([]Msg, 0, len(anys))
	for i, a := range anys {
		msg, err := Decode(a)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		out = append(out, msg)
	}
	return out, nil
}

func coinFromProto(c *basev1beta1.Coin) (types.Coin, error) {
	if c == nil {
		return types.Coin{}, errors.New("missing amount")
	}
	return types.CoinFromProto(c)
}

func wrapUnmarshal(err error, typeURL string) error {
	return errors.Wrapf(err, "cannot unmarshal msg of type [%v]", typeURL)
}
