// Package msgs holds the closed set of chain messages the wallet can sign.
package msgs

import (
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/types"
)

const (
	TypeMsgSend                    = "/cosmos.bank.v1beta1.MsgSend"
	TypeMsgDelegate                = "/cosmos.staking.v1beta1.MsgDelegate"
	TypeMsgUndelegate              = "/cosmos.staking.v1beta1.MsgUndelegate"
	TypeMsgBeginRedelegate         = "/cosmos.staking.v1beta1.MsgBeginRedelegate"
	TypeMsgWithdrawDelegatorReward = "/cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward"
	TypeMsgVote                    = "/cosmos.gov.v1beta1.MsgVote"
)

// Msg is implemented only by the message types of this package.
type Msg interface {
	TypeURL() string
	AminoType() string
	// GetSigners returns the bech32 addresses that must sign the message.
	GetSigners() []string
	ValidateBasic() error

	isMsg()
}

var (
	_ Msg = &MsgSend{}
	_ Msg = &MsgDelegate{}
	_ Msg = &MsgUndelegate{}
	_ Msg = &MsgBeginRedelegate{}
	_ Msg = &MsgWithdrawDelegatorReward{}
	_ Msg = &MsgVote{}
)

type VoteOption int32

const (
	VoteOptionUnspecified VoteOption = 0
	VoteOptionYes         VoteOption = 1
	VoteOptionAbstain     VoteOption = 2
	VoteOptionNo          VoteOption = 3
	VoteOptionNoWithVeto  VoteOption = 4
)

// ParseVoteOption accepts yes, abstain, no and no_with_veto.
func ParseVoteOption(s string) (VoteOption, error) {
	switch s {
	case "yes":
		return VoteOptionYes, nil
	case "abstain":
		return VoteOptionAbstain, nil
	case "no":
		return VoteOptionNo, nil
	case "no_with_veto", "veto":
		return VoteOptionNoWithVeto, nil
	}
	return VoteOptionUnspecified, errors.Errorf("invalid vote option %q", s)
}

type MsgSend struct {
	FromAddress string
	ToAddress   string
	Amount      types.Coins
}

type MsgDelegate struct {
	DelegatorAddress string
	ValidatorAddress string
	Amount           types.Coin
}

type MsgUndelegate struct {
	DelegatorAddress string
	ValidatorAddress string
	Amount           types.Coin
}

type MsgBeginRedelegate struct {
	DelegatorAddress    string
	ValidatorSrcAddress string
	ValidatorDstAddress string
	Amount              types.Coin
}

type MsgWithdrawDelegatorReward struct {
	DelegatorAddress string
	ValidatorAddress string
}

type MsgVote struct {
	ProposalID uint64
	Voter      string
	Option     VoteOption
}

func (*MsgSend) isMsg()                    {}
func (*MsgDelegate) isMsg()                {}
func (*MsgUndelegate) isMsg()              {}
func (*MsgBeginRedelegate) isMsg()         {}
func (*MsgWithdrawDelegatorReward) isMsg() {}
func (*MsgVote) isMsg()                    {}

func (*MsgSend) TypeURL() string                    { return TypeMsgSend }
func (*MsgDelegate) TypeURL() string                { return TypeMsgDelegate }
func (*MsgUndelegate) TypeURL() string              { return TypeMsgUndelegate }
func (*MsgBeginRedelegate) TypeURL() string         { return TypeMsgBeginRedelegate }
func (*MsgWithdrawDelegatorReward) TypeURL() string { return TypeMsgWithdrawDelegatorReward }
func (*MsgVote) TypeURL() string                    { return TypeMsgVote }

func (*MsgSend) AminoType() string                    { return "cosmos-sdk/MsgSend" }
func (*MsgDelegate) AminoType() string                { return "cosmos-sdk/MsgDelegate" }
func (*MsgUndelegate) AminoType() string              { return "cosmos-sdk/MsgUndelegate" }
func (*MsgBeginRedelegate) AminoType() string         { return "cosmos-sdk/MsgBeginRedelegate" }
func (*MsgWithdrawDelegatorReward) AminoType() string { return "cosmos-sdk/MsgWithdrawDelegationReward" }
func (*MsgVote) AminoType() string                    { return "cosmos-sdk/MsgVote" }

func (m *MsgSend) GetSigners() []string                    { return []string{m.FromAddress} }
func (m *MsgDelegate) GetSigners() []string                { return []string{m.DelegatorAddress} }
func (m *MsgUndelegate) GetSigners() []string              { return []string{m.DelegatorAddress} }
func (m *MsgBeginRedelegate) GetSigners() []string         { return []string{m.DelegatorAddress} }
func (m *MsgWithdrawDelegatorReward) GetSigners() []string { return []string{m.DelegatorAddress} }
func (m *MsgVote) GetSigners() []string                    { return []string{m.Voter} }

func (m *MsgSend) ValidateBasic() error {
	if err := validateAddresses(m.FromAddress, m.ToAddress); err != nil {
		return err
	}
	if len(m.Amount) == 0 {
		return errors.New("send amount is empty")
	}
	for _, c := range m.Amount {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgDelegate) ValidateBasic() error {
	if err := validateAddresses(m.DelegatorAddress, m.ValidatorAddress); err != nil {
		return err
	}
	return m.Amount.Validate()
}

func (m *MsgUndelegate) ValidateBasic() error {
	if err := validateAddresses(m.DelegatorAddress, m.ValidatorAddress); err != nil {
		return err
	}
	return m.Amount.Validate()
}

func (m *MsgBeginRedelegate) ValidateBasic() error {
	if err := validateAddresses(m.DelegatorAddress, m.ValidatorSrcAddress, m.ValidatorDstAddress); err != nil {
		return err
	}
	if m.ValidatorSrcAddress == m.ValidatorDstAddress {
		return errors.New("source and destination validators are the same")
	}
	return m.Amount.Validate()
}

func (m *MsgWithdrawDelegatorReward) ValidateBasic() error {
	return validateAddresses(m.DelegatorAddress, m.ValidatorAddress)
}

func (m *MsgVote) ValidateBasic() error {
	if err := validateAddresses(m.Voter); err != nil {
		return err
	}
	if m.Option < VoteOptionYes || m.Option > VoteOptionNoWithVeto {
		return errors.Errorf("invalid vote option %d", m.Option)
	}
	return nil
}

func validateAddresses(addrs ...string) error {
	for _, addr := range addrs {
		if _, err := types.AddressBytes(addr); err != nil {
			return errors.Wrapf(err, "invalid address %q", addr)
		}
	}
	return nil
}
