package secp256k1

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cosmos/go-bip39"
	dcrsecp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/pkg/errors"
)

const (
	// PrivKeySize defines the size of the PrivKey bytes
	PrivKeySize = 32
	// PubKeySize defines the size of the compressed PubKey bytes
	PubKeySize = 33
	// SignatureSize is the size of a compact [R || S] signature
	SignatureSize = 64
	// KeyType is the string constant for the Secp256k1 algorithm
	KeyType = "secp256k1"
)

// ----------------------------------------------------------------------------
// secp256k1 Private Key

type PrivKey struct {
	Key []byte
}

// Generate wraps the given bytes as a private key, left padding to PrivKeySize.
func Generate(bz []byte) *PrivKey {
	bzArr := make([]byte, PrivKeySize)
	copy(bzArr[PrivKeySize-min(len(bz), PrivKeySize):], bz)

	return &PrivKey{
		Key: bzArr,
	}
}

// ParseHDPath parses a BIP44 path such as m/44'/118'/0'/0/0.
func ParseHDPath(path string) ([]uint32, error) {
	hdpath, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hd path %q", path)
	}
	return hdpath, nil
}

// Derive derives and returns the secp256k1 private key for the given mnemonic and HD path.
func Derive(mnemonic, bip39Passphrase, path string) ([]byte, error) {
	hdpath, err := ParseHDPath(path)
	if err != nil {
		return nil, err
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, bip39Passphrase)
	if err != nil {
		return nil, err
	}

	masterKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}

	key := masterKey
	for _, n := range hdpath {
		key, err = key.Derive(n)
		if err != nil {
			return nil, err
		}
	}

	privateKey, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return privateKey.Serialize(), nil
}

// GenerateKey generates a new random private key.
func GenerateKey() (*PrivKey, error) {
	priv, err := dcrsecp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivKey{Key: priv.Serialize()}, nil
}

// NewMnemonic returns a fresh 24 word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// Bytes returns a copy of the raw private key.
func (privKey *PrivKey) Bytes() []byte {
	bz := make([]byte, len(privKey.Key))
	copy(bz, privKey.Key)
	return bz
}

// PubKey returns the compressed public key.
func (privKey *PrivKey) PubKey() *PubKey {
	priv := dcrsecp256k1.PrivKeyFromBytes(privKey.Key)
	return &PubKey{Key: priv.PubKey().SerializeCompressed()}
}

func (privKey *PrivKey) Equals(other *PrivKey) bool {
	return subtle.ConstantTimeCompare(privKey.Bytes(), other.Bytes()) == 1
}

func (privKey *PrivKey) Type() string {
	return KeyType
}

// Sign produces a deterministic (RFC6979) low-S signature over sha256(msg),
// in 64 byte [R || S] form.
func (privKey *PrivKey) Sign(msg []byte) ([]byte, error) {
	if len(privKey.Key) != PrivKeySize {
		return nil, fmt.Errorf("invalid private key length %d", len(privKey.Key))
	}
	priv := dcrsecp256k1.PrivKeyFromBytes(privKey.Key)
	hash := sha256.Sum256(msg)
	sig := ecdsa.SignCompact(priv, hash[:], false)
	// drop the recovery byte
	return sig[1:], nil
}

// Zero wipes the key material.
func (privKey *PrivKey) Zero() {
	for i := range privKey.Key {
		privKey.Key[i] = 0
	}
}

// ----------------------------------------------------------------------------
// secp256k1 Public Key

type PubKey struct {
	Key []byte
}

// PubKeyFromBytes validates a compressed public key.
func PubKeyFromBytes(bz []byte) (*PubKey, error) {
	if len(bz) != PubKeySize {
		return nil, fmt.Errorf("invalid public key length %d, expected %d", len(bz), PubKeySize)
	}
	if _, err := dcrsecp256k1.ParsePubKey(bz); err != nil {
		return nil, errors.Wrap(err, "invalid secp256k1 public key")
	}
	return &PubKey{Key: bytes.Clone(bz)}, nil
}

// Address returns RIPEMD160(SHA256(pubkey)).
func (pubKey *PubKey) Address() []byte {
	return btcutil.Hash160(pubKey.Key)
}

func (pubKey *PubKey) Bytes() []byte {
	bz := make([]byte, len(pubKey.Key))
	copy(bz, pubKey.Key)
	return bz
}

func (pubKey *PubKey) Type() string {
	return KeyType
}

func (pubKey *PubKey) Equals(other *PubKey) bool {
	return other != nil && bytes.Equal(pubKey.Key, other.Key)
}

// VerifySignature checks a 64 byte [R || S] signature over sha256(msg).
// Signatures with a high S value are rejected.
func (pubKey *PubKey) VerifySignature(msg, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	pub, err := dcrsecp256k1.ParsePubKey(pubKey.Key)
	if err != nil {
		return false
	}

	var r, s dcrsecp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}

	hash := sha256.Sum256(msg)
	return ecdsa.NewSignature(&r, &s).Verify(hash[:], pub)
}

// SignatureFromDER converts a DER encoded signature, as returned by hardware
// signers, into the 64 byte low-S [R || S] form.
func SignatureFromDER(der []byte) ([]byte, error) {
	parsed, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, errors.Wrap(err, "invalid DER signature")
	}

	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	ser := parsed.Serialize()
	rLen := int(ser[3])
	rBytes := ser[4 : 4+rLen]
	sBytes := ser[4+rLen+2:]

	var r, s dcrsecp256k1.ModNScalar
	r.SetByteSlice(trimLeadingZeros(rBytes))
	s.SetByteSlice(trimLeadingZeros(sBytes))
	if s.IsOverHalfOrder() {
		s.Negate()
	}

	sig := make([]byte, SignatureSize)
	r.PutBytesUnchecked(sig[:32])
	s.PutBytesUnchecked(sig[32:])
	return sig, nil
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
