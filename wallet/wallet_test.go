package wallet

import (
	"context"
	"crypto/sha256"
	"path/filepath"
	"sync"
	"testing"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	sdkmath "cosmossdk.io/math"
	dcrsecp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/cheqd/wallet-core/crypto/keystore"
	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/types/msgs"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testChainID  = "test-1"
)

func derivedKey(t *testing.T, path string) *secp256k1.PrivKey {
	bz, err := secp256k1.Derive(testMnemonic, "", path)
	require.NoError(t, err)
	return secp256k1.Generate(bz)
}

func paperWallet(t *testing.T) *PaperWallet {
	w, err := NewPaperWalletFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	require.NoError(t, w.UseAccount(context.Background(), types.DefaultHDPath, types.CheqdBech32Prefix))
	return w
}

func sendDoc(t *testing.T, w Wallet) *tx.Document {
	from, err := w.Address()
	require.NoError(t, err)
	pubKey, err := w.PublicKey()
	require.NoError(t, err)
	to, err := types.AddressFromPubKey(types.CheqdBech32Prefix, derivedKey(t, "m/44'/118'/0'/0/7").PubKey().Bytes())
	require.NoError(t, err)

	return &tx.Document{
		ChainID: testChainID,
		Fee:     types.NewFee(5000, 200000),
		Memo:    "",
		Messages: []msgs.Msg{&msgs.MsgSend{
			FromAddress: from,
			ToAddress:   to,
			Amount:      types.Coins{types.NewCoin(types.BaseDenom, sdkmath.NewInt(1000000000))},
		}},
		Signers: []tx.DocSigner{{AccountNumber: 5, Sequence: 0, PublicKey: pubKey}},
	}
}

// fakeLedger signs like the cosmos ledger app: SHA-256 then DER encoded ECDSA.
type fakeLedger struct {
	priv       *secp256k1.PrivKey
	returnCode uint16
	payloads   [][]byte
}

func (l *fakeLedger) GetAddress(_ context.Context, _ []uint32, prefix string) (*LedgerAddress, error) {
	pubKey := l.priv.PubKey().Bytes()
	address, err := types.AddressFromPubKey(prefix, pubKey)
	if err != nil {
		return nil, err
	}
	return &LedgerAddress{Address: address, PublicKey: pubKey}, nil
}

func (l *fakeLedger) Sign(_ context.Context, _ []uint32, payload []byte) (*LedgerSignResponse, error) {
	l.payloads = append(l.payloads, payload)
	if l.returnCode != 0 && l.returnCode != LedgerCodeOK {
		return &LedgerSignResponse{ReturnCode: l.returnCode}, nil
	}
	hash := sha256.Sum256(payload)
	der := ecdsa.Sign(dcrsecp256k1.PrivKeyFromBytes(l.priv.Key), hash[:]).Serialize()
	return &LedgerSignResponse{Signature: der, ReturnCode: LedgerCodeOK}, nil
}

type fakeAccounts struct {
	priv *secp256k1.PrivKey
}

func (f fakeAccounts) GetAccounts(context.Context) ([]AccountData, error) {
	pubKey := f.priv.PubKey().Bytes()
	address, err := types.AddressFromPubKey(types.CheqdBech32Prefix, pubKey)
	if err != nil {
		return nil, err
	}
	return []AccountData{{Address: address, PubKey: pubKey, Algo: secp256k1.KeyType}}, nil
}

type fakeDirectSigner struct {
	fakeAccounts
	tamper bool
}

func (f fakeDirectSigner) SignDirect(_ context.Context, _ string, signDoc *txv1beta1.SignDoc) (*DirectSignResponse, error) {
	signed := &txv1beta1.SignDoc{
		BodyBytes:     signDoc.BodyBytes,
		AuthInfoBytes: signDoc.AuthInfoBytes,
		ChainId:       signDoc.ChainId,
		AccountNumber: signDoc.AccountNumber,
	}
	if f.tamper {
		signed.BodyBytes = append([]byte{0x0a, 0x00}, signed.BodyBytes...)
	}
	bz, err := tx.DirectSignBytes(signed.BodyBytes, signed.AuthInfoBytes, signed.ChainId, signed.AccountNumber)
	if err != nil {
		return nil, err
	}
	sig, err := f.priv.Sign(bz)
	if err != nil {
		return nil, err
	}
	return &DirectSignResponse{Signed: signed, Signature: sig}, nil
}

type fakeAminoSigner struct {
	fakeAccounts
	edit func(doc *tx.StdSignDoc)
}

func (f fakeAminoSigner) SignAmino(_ context.Context, _ string, signDoc *tx.StdSignDoc) (*AminoSignResponse, error) {
	signed := *signDoc
	if f.edit != nil {
		f.edit(&signed)
	}
	bz, err := signed.Bytes()
	if err != nil {
		return nil, err
	}
	sig, err := f.priv.Sign(bz)
	if err != nil {
		return nil, err
	}
	return &AminoSignResponse{Signed: &signed, Signature: sig}, nil
}

func TestNoAccountSelected(t *testing.T) {
	ctx := context.Background()
	w, err := NewPaperWalletFromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	_, err = w.Address()
	require.ErrorIs(t, err, types.ErrNoAccountSelected)
	_, err = w.PublicKey()
	require.ErrorIs(t, err, types.ErrNoAccountSelected)
	_, err = w.Sign(ctx, []byte("data"))
	require.ErrorIs(t, err, types.ErrNoAccountSelected)
	_, err = w.SignMessage(ctx, "hello")
	require.ErrorIs(t, err, types.ErrNoAccountSelected)

	ledger := NewLedgerWallet(&fakeLedger{priv: derivedKey(t, types.DefaultHDPath)})
	_, err = ledger.Address()
	require.ErrorIs(t, err, types.ErrNoAccountSelected)
}

func TestPaperWalletAccounts(t *testing.T) {
	ctx := context.Background()
	w := paperWallet(t)
	require.True(t, w.CanChangeAccount())
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_DIRECT, w.SigningMode())

	first, err := w.Address()
	require.NoError(t, err)
	expected, err := types.AddressFromPubKey(types.CheqdBech32Prefix, derivedKey(t, types.DefaultHDPath).PubKey().Bytes())
	require.NoError(t, err)
	require.Equal(t, expected, first)

	require.NoError(t, w.UseAccount(ctx, "m/44'/118'/0'/0/1", ""))
	second, err := w.Address()
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.Error(t, w.UseAccount(ctx, "not a path", ""))

	fromKey, err := NewPaperWalletFromPrivateKey(derivedKey(t, types.DefaultHDPath).Bytes())
	require.NoError(t, err)
	require.False(t, fromKey.CanChangeAccount())
	require.NoError(t, fromKey.UseAccount(ctx, "m/44'/118'/0'/0/9", "cosmos"))
	addr, err := fromKey.Address()
	require.NoError(t, err)
	require.True(t, types.SameAccount(first, addr))

	require.ErrorIs(t, (&PaperWallet{}).UseAccount(ctx, "", ""), types.ErrNoMnemonicOrKey)

	_, err = NewPaperWalletFromMnemonic("not a mnemonic", "")
	require.ErrorIs(t, err, types.ErrNoMnemonicOrKey)
	_, err = NewPaperWalletFromPrivateKey(nil)
	require.ErrorIs(t, err, types.ErrNoMnemonicOrKey)
}

func TestPaperWalletSignTransaction(t *testing.T) {
	ctx := context.Background()
	w := paperWallet(t)
	doc := sendDoc(t, w)

	signDoc, sig, err := w.SignTransaction(ctx, doc)
	require.NoError(t, err)
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_DIRECT, signDoc.Mode)
	require.Equal(t, uint64(5), signDoc.AccountNumber)

	signBytes, err := signDoc.SignBytes()
	require.NoError(t, err)
	pubKey, err := w.PublicKey()
	require.NoError(t, err)
	pk, err := secp256k1.PubKeyFromBytes(pubKey)
	require.NoError(t, err)
	require.True(t, pk.VerifySignature(signBytes, sig))
	require.Len(t, sig, secp256k1.SignatureSize)

	sigV2, err := tx.SignWithPrivKey(signDoc, derivedKey(t, types.DefaultHDPath))
	require.NoError(t, err)
	require.Equal(t, tx.RawSignature(sigV2), sig)

	_, again, err := w.SignTransaction(ctx, sendDoc(t, w))
	require.NoError(t, err)
	require.Equal(t, sig, again)

	noChain := sendDoc(t, w)
	noChain.ChainID = ""
	_, _, err = w.SignTransaction(ctx, noChain)
	require.ErrorIs(t, err, types.ErrInvalidDocument)

	other, err := NewPaperWalletFromPrivateKey(derivedKey(t, "m/44'/118'/0'/0/3").Bytes())
	require.NoError(t, err)
	require.NoError(t, other.UseAccount(ctx, "", ""))
	_, _, err = other.SignTransaction(ctx, sendDoc(t, w))
	require.ErrorIs(t, err, types.ErrSignerNotFound)

	stdDoc, aminoSig, err := w.SignAminoTx(ctx, sendDoc(t, w))
	require.NoError(t, err)
	aminoBytes, err := stdDoc.Bytes()
	require.NoError(t, err)
	require.True(t, pk.VerifySignature(aminoBytes, aminoSig))
}

func TestPaperWalletFromKeystore(t *testing.T) {
	priv := derivedKey(t, types.DefaultHDPath)
	address, err := types.AddressFromPubKey(types.CheqdBech32Prefix, priv.PubKey().Bytes())
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "key.json")
	key := keystore.NewKey(priv, "main", address)
	require.NoError(t, keystore.StoreKey(filename, key, "secret", keystore.LightScryptN, keystore.LightScryptP))

	w, err := NewPaperWalletFromKeystore(filename, "secret")
	require.NoError(t, err)
	got, err := w.Address()
	require.NoError(t, err)
	require.Equal(t, address, got)

	_, err = NewPaperWalletFromKeystore(filename, "wrong")
	require.ErrorIs(t, err, keystore.ErrDecrypt)

	exported, err := w.ExportKey("main")
	require.NoError(t, err)
	require.Equal(t, address, exported.Address)
	require.True(t, priv.Equals(exported.PrivateKey))
}

func TestLedgerWallet(t *testing.T) {
	ctx := context.Background()
	device := &fakeLedger{priv: derivedKey(t, types.DefaultHDPath)}
	w := NewLedgerWallet(device)
	require.NoError(t, w.UseAccount(ctx, "", ""))
	require.False(t, w.CanChangeAccount())
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, w.SigningMode())

	_, err := w.Sign(ctx, []byte("data"))
	require.ErrorIs(t, err, types.ErrNotSupported)

	doc := sendDoc(t, w)
	signDoc, sig, err := w.SignTransaction(ctx, doc)
	require.NoError(t, err)
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, signDoc.Mode)
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, doc.Signers[0].Mode)
	require.Len(t, sig, secp256k1.SignatureSize)

	signBytes, err := signDoc.SignBytes()
	require.NoError(t, err)
	require.Equal(t, signBytes, device.payloads[0])
	require.True(t, device.priv.PubKey().VerifySignature(signBytes, sig))

	device.returnCode = 0x6985
	_, _, err = w.SignTransaction(ctx, sendDoc(t, w))
	require.ErrorIs(t, err, types.ErrLedgerDevice)

	require.ErrorIs(t, NewLedgerWallet(nil).UseAccount(ctx, "", ""), types.ErrNoMnemonicOrKey)
}

func TestOfflineDirectSigner(t *testing.T) {
	ctx := context.Background()
	priv := derivedKey(t, types.DefaultHDPath)
	w := NewOfflineSignerWallet(fakeDirectSigner{fakeAccounts: fakeAccounts{priv: priv}})
	require.NoError(t, w.UseAccount(ctx, "ignored", ""))
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_DIRECT, w.SigningMode())

	signDoc, sig, err := w.SignTransaction(ctx, sendDoc(t, w))
	require.NoError(t, err)
	signBytes, err := signDoc.SignBytes()
	require.NoError(t, err)
	require.True(t, priv.PubKey().VerifySignature(signBytes, sig))

	_, err = w.Sign(ctx, []byte("data"))
	require.ErrorIs(t, err, types.ErrNotSupported)
	_, _, err = w.SignAminoTx(ctx, sendDoc(t, w))
	require.ErrorIs(t, err, types.ErrNotSupported)

	tampering := NewOfflineSignerWallet(fakeDirectSigner{fakeAccounts: fakeAccounts{priv: priv}, tamper: true})
	require.NoError(t, tampering.UseAccount(ctx, "", ""))
	_, _, err = tampering.SignTransaction(ctx, sendDoc(t, tampering))
	require.ErrorIs(t, err, types.ErrSignDocMismatch)
}

func TestOfflineAminoSignerEdits(t *testing.T) {
	ctx := context.Background()
	priv := derivedKey(t, types.DefaultHDPath)
	w := NewOfflineSignerWallet(fakeAminoSigner{
		fakeAccounts: fakeAccounts{priv: priv},
		edit: func(doc *tx.StdSignDoc) {
			doc.Memo = "edited by signer"
			doc.Fee.Gas = "250000"
		},
	})
	require.NoError(t, w.UseAccount(ctx, "", ""))
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, w.SigningMode())

	doc := sendDoc(t, w)
	signDoc, sig, err := w.SignTransaction(ctx, doc)
	require.NoError(t, err)
	require.Equal(t, "edited by signer", doc.Memo)
	require.Equal(t, uint64(250000), doc.Fee.Gas)
	require.Equal(t, "edited by signer", signDoc.Amino.Memo)

	signBytes, err := signDoc.SignBytes()
	require.NoError(t, err)
	require.True(t, priv.PubKey().VerifySignature(signBytes, sig))

	_, err = w.SignMessage(ctx, "hello")
	require.ErrorIs(t, err, types.ErrNotSupported)

	sneaky := NewOfflineSignerWallet(fakeAminoSigner{
		fakeAccounts: fakeAccounts{priv: priv},
		edit:         func(doc *tx.StdSignDoc) { doc.Sequence = "99" },
	})
	require.NoError(t, sneaky.UseAccount(ctx, "", ""))
	_, _, err = sneaky.SignTransaction(ctx, sendDoc(t, sneaky))
	require.ErrorIs(t, err, types.ErrSignDocMismatch)
}

func TestOfflineSignerWithoutModes(t *testing.T) {
	ctx := context.Background()
	w := NewOfflineSignerWallet(fakeAccounts{priv: derivedKey(t, types.DefaultHDPath)})
	require.NoError(t, w.UseAccount(ctx, "", ""))
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED, w.SigningMode())
	_, _, err := w.SignTransaction(ctx, sendDoc(t, w))
	require.ErrorIs(t, err, types.ErrUnknownSigningMode)
}

func TestSignAndVerifyMessage(t *testing.T) {
	ctx := context.Background()
	priv := derivedKey(t, types.DefaultHDPath)

	ledger := NewLedgerWallet(&fakeLedger{priv: priv})
	require.NoError(t, ledger.UseAccount(ctx, "", ""))
	offline := NewOfflineSignerWallet(fakeDirectSigner{fakeAccounts: fakeAccounts{priv: priv}})
	require.NoError(t, offline.UseAccount(ctx, "", ""))

	for _, w := range []Wallet{paperWallet(t), ledger, offline} {
		signed, err := w.SignMessage(ctx, "I own this account")
		require.NoError(t, err)
		require.Equal(t, SignMsgVersion, signed.Version)
		require.NoError(t, VerifySignMsg(signed), string(signed.Signer))

		tampered := *signed
		tampered.Msg = "I own another account"
		require.Equal(t, types.ErrVerificationFailure, VerifySignMsg(&tampered))

		tampered = *signed
		tampered.Version = "2"
		require.Equal(t, types.ErrVerificationFailure, VerifySignMsg(&tampered))

		tampered = *signed
		tampered.Address, err = types.AddressFromPubKey(types.CheqdBech32Prefix, derivedKey(t, "m/44'/118'/0'/0/5").PubKey().Bytes())
		require.NoError(t, err)
		require.Equal(t, types.ErrVerificationFailure, VerifySignMsg(&tampered))

		tampered = *signed
		tampered.Signer = "unknown"
		require.Equal(t, types.ErrVerificationFailure, VerifySignMsg(&tampered))
	}

	paper, err := paperWallet(t).SignMessage(ctx, "same")
	require.NoError(t, err)
	paper.Signer = BackendLedger
	require.Equal(t, types.ErrVerificationFailure, VerifySignMsg(paper))
	require.Equal(t, types.ErrVerificationFailure, VerifySignMsg(nil))
}

func TestSignMsgPrefix(t *testing.T) {
	ctx := context.Background()
	w, err := NewPaperWalletFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	require.NoError(t, w.UseAccount(ctx, "", "cosmos"))

	signed, err := w.SignMessage(ctx, "other chain")
	require.NoError(t, err)
	require.NoError(t, VerifySignMsg(signed))
}

func TestConcurrentUseAccountAndSign(t *testing.T) {
	ctx := context.Background()
	w := paperWallet(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := w.Sign(ctx, []byte("payload"))
			require.NoError(t, err)
		}()
		go func(i int) {
			defer wg.Done()
			path := "m/44'/118'/0'/0/0"
			if i%2 == 1 {
				path = "m/44'/118'/0'/0/1"
			}
			require.NoError(t, w.UseAccount(ctx, path, ""))
		}(i)
	}
	wg.Wait()

	_, err := w.Address()
	require.False(t, errors.Is(err, types.ErrNoAccountSelected))
}
