package types

import (
	"bytes"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/crypto/secp256k1"
)

// Bech32 conversion constants
const (
	// MaxAddrLen is the maximum allowed length (in bytes) for an address.
	MaxAddrLen = 255

	// CheqdBech32Prefix is the account address prefix (cheqd)
	CheqdBech32Prefix = "cheqd"
	// ValidatorAddressPrefix is the validator operator prefix (cheqdvaloper)
	ValidatorAddressPrefix = CheqdBech32Prefix + "valoper"

	// BaseDenom is the chain's base denomination
	BaseDenom = "ncheq"

	// DefaultHDPath is the cosmos coin type 118 path
	DefaultHDPath = "m/44'/118'/0'/0/0"
)

var ErrEmptyAddress = errors.New("address is empty")

// ConvertAndEncode converts from a base256 encoded byte string to base32 encoded byte string and then to bech32.
func ConvertAndEncode(hrp string, data []byte) (string, error) {
	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "encoding bech32 failed")
	}
	return bech32.Encode(hrp, converted)
}

// DecodeAndConvert decodes a bech32 encoded string and converts to base256 encoded bytes.
func DecodeAndConvert(bech string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(bech)
	if err != nil {
		return "", nil, errors.Wrap(err, "decoding bech32 failed")
	}
	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(err, "decoding bech32 failed")
	}
	return hrp, converted, nil
}

// GetFromBech32 decodes a bytestring from a Bech32 encoded string, checking the prefix.
func GetFromBech32(bech32str, prefix string) ([]byte, error) {
	if len(bech32str) == 0 {
		return nil, ErrEmptyAddress
	}
	hrp, bz, err := DecodeAndConvert(bech32str)
	if err != nil {
		return nil, err
	}
	if hrp != prefix {
		return nil, errors.Errorf("invalid Bech32 prefix; expected %s, got %s", prefix, hrp)
	}
	return bz, nil
}

// VerifyAddressFormat verifies that the provided bytes form a valid address.
func VerifyAddressFormat(bz []byte) error {
	if len(bz) == 0 {
		return errors.Wrap(ErrEmptyAddress, "addresses cannot be empty")
	}
	if len(bz) > MaxAddrLen {
		return errors.Errorf("address max length is %d, got %d", MaxAddrLen, len(bz))
	}
	return nil
}

// AddressFromPubKey derives the bech32 account address of a compressed secp256k1 key.
func AddressFromPubKey(prefix string, pubKey []byte) (string, error) {
	pk, err := secp256k1.PubKeyFromBytes(pubKey)
	if err != nil {
		return "", err
	}
	return ConvertAndEncode(prefix, pk.Address())
}

// AddressBytes decodes any bech32 address regardless of prefix.
func AddressBytes(address string) ([]byte, error) {
	if len(strings.TrimSpace(address)) == 0 {
		return nil, ErrEmptyAddress
	}
	_, bz, err := DecodeAndConvert(address)
	if err != nil {
		return nil, err
	}
	if err = VerifyAddressFormat(bz); err != nil {
		return nil, err
	}
	return bz, nil
}

// SameAccount reports whether two bech32 addresses encode the same account bytes.
func SameAccount(a, b string) bool {
	abz, err := AddressBytes(a)
	if err != nil {
		return false
	}
	bbz, err := AddressBytes(b)
	if err != nil {
		return false
	}
	return bytes.Equal(abz, bbz)
}

// VerifyWalletAddrBytes verifies that walletAddr is derived from walletPubkey
// under the address's own prefix.
func VerifyWalletAddrBytes(walletPubkey []byte, walletAddr string) bool {
	hrp, _, err := DecodeAndConvert(walletAddr)
	if err != nil {
		return false
	}
	derived, err := AddressFromPubKey(hrp, walletPubkey)
	if err != nil {
		return false
	}
	return derived == walletAddr
}
