package types

import (
	authv1beta1 "cosmossdk.io/api/cosmos/auth/v1beta1"
	vestingv1beta1 "cosmossdk.io/api/cosmos/vesting/v1beta1"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/anypb"
)

const (
	TypeBaseAccount              = "/cosmos.auth.v1beta1.BaseAccount"
	TypeModuleAccount            = "/cosmos.auth.v1beta1.ModuleAccount"
	TypeContinuousVestingAccount = "/cosmos.vesting.v1beta1.ContinuousVestingAccount"
	TypeDelayedVestingAccount    = "/cosmos.vesting.v1beta1.DelayedVestingAccount"
	TypePeriodicVestingAccount   = "/cosmos.vesting.v1beta1.PeriodicVestingAccount"
	TypePermanentLockedAccount   = "/cosmos.vesting.v1beta1.PermanentLockedAccount"
)

// BaseAccountFromAny unwraps base, module and vesting accounts to their BaseAccount.
func BaseAccountFromAny(account *anypb.Any) (*authv1beta1.BaseAccount, error) {
	if account == nil {
		return nil, ErrAccountNotFound
	}
	var base *authv1beta1.BaseAccount
	switch account.TypeUrl {
	case TypeBaseAccount:
		base = &authv1beta1.BaseAccount{}
		if err := account.UnmarshalTo(base); err != nil {
			return nil, wrapAccountErr(err, account.TypeUrl)
		}
	case TypeModuleAccount:
		acc := &authv1beta1.ModuleAccount{}
		if err := account.UnmarshalTo(acc); err != nil {
			return nil, wrapAccountErr(err, account.TypeUrl)
		}
		base = acc.BaseAccount
	case TypeContinuousVestingAccount:
		acc := &vestingv1beta1.ContinuousVestingAccount{}
		if err := account.UnmarshalTo(acc); err != nil {
			return nil, wrapAccountErr(err, account.TypeUrl)
		}
		base = acc.GetBaseVestingAccount().GetBaseAccount()
	case TypeDelayedVestingAccount:
		acc := &vestingv1beta1.DelayedVestingAccount{}
		if err := account.UnmarshalTo(acc); err != nil {
			return nil, wrapAccountErr(err, account.TypeUrl)
		}
		base = acc.GetBaseVestingAccount().GetBaseAccount()
	case TypePeriodicVestingAccount:
		acc := &vestingv1beta1.PeriodicVestingAccount{}
		if err := account.UnmarshalTo(acc); err != nil {
			return nil, wrapAccountErr(err, account.TypeUrl)
		}
		base = acc.GetBaseVestingAccount().GetBaseAccount()
	case TypePermanentLockedAccount:
		acc := &vestingv1beta1.PermanentLockedAccount{}
		if err := account.UnmarshalTo(acc); err != nil {
			return nil, wrapAccountErr(err, account.TypeUrl)
		}
		base = acc.GetBaseVestingAccount().GetBaseAccount()
	default:
		return nil, errors.Errorf("unsupported account type %s", account.TypeUrl)
	}
	if base == nil {
		return nil, errors.Errorf("account of type %s has no base account", account.TypeUrl)
	}
	return base, nil
}

func wrapAccountErr(err error, typeURL string) error {
	return errors.Wrapf(err, "failed to unpack %s", typeURL)
}
