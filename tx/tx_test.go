package tx

import (
	"fmt"
	"testing"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/cheqd/wallet-core/crypto/secp256k1"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/types/msgs"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testChainID  = "cheqd-mainnet-1"
)

func testKey(t *testing.T, path string) *secp256k1.PrivKey {
	bz, err := secp256k1.Derive(testMnemonic, "", path)
	require.NoError(t, err)
	return secp256k1.Generate(bz)
}

func testAddress(t *testing.T, priv *secp256k1.PrivKey) string {
	addr, err := types.AddressFromPubKey(types.CheqdBech32Prefix, priv.PubKey().Bytes())
	require.NoError(t, err)
	return addr
}

func sendDocument(t *testing.T, priv *secp256k1.PrivKey, mode signingv1beta1.SignMode) *Document {
	from := testAddress(t, priv)
	to := testAddress(t, testKey(t, "m/44'/118'/0'/0/1"))
	return &Document{
		ChainID: testChainID,
		Fee:     types.NewFee(5000, 200000),
		Memo:    "rent",
		Messages: []msgs.Msg{&msgs.MsgSend{
			FromAddress: from,
			ToAddress:   to,
			Amount:      types.Coins{types.NewCoin(types.BaseDenom, sdkmath.NewInt(1000000000))},
		}},
		Signers: []DocSigner{{
			AccountNumber: 5,
			Sequence:      2,
			PublicKey:     priv.PubKey().Bytes(),
			Mode:          mode,
		}},
	}
}

func TestMakeSignDocDirect(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	doc := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT)

	signDoc, signBytes, err := MakeSignDoc(doc, 0)
	require.NoError(t, err)
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_DIRECT, signDoc.Mode)
	require.Nil(t, signDoc.Amino)

	expected, err := DirectSignBytes(signDoc.BodyBytes, signDoc.AuthInfoBytes, testChainID, 5)
	require.NoError(t, err)
	require.Equal(t, expected, signBytes)

	again, err := signDoc.SignBytes()
	require.NoError(t, err)
	require.Equal(t, signBytes, again)

	decoded := &txv1beta1.SignDoc{}
	require.NoError(t, proto.Unmarshal(signBytes, decoded))
	require.Equal(t, testChainID, decoded.ChainId)
	require.Equal(t, uint64(5), decoded.AccountNumber)

	authInfo := &txv1beta1.AuthInfo{}
	require.NoError(t, proto.Unmarshal(signDoc.AuthInfoBytes, authInfo))
	require.Len(t, authInfo.SignerInfos, 1)
	require.Equal(t, uint64(2), authInfo.SignerInfos[0].Sequence)
	require.Equal(t, uint64(200000), authInfo.Fee.GasLimit)
	require.Equal(t, "5000", authInfo.Fee.Amount[0].Amount)
	require.Equal(t, types.BaseDenom, authInfo.Fee.Amount[0].Denom)
}

func TestMakeSignDocDeterministic(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	for _, mode := range DefaultSignModes {
		_, first, err := MakeSignDoc(sendDocument(t, priv, mode), 0)
		require.NoError(t, err)
		_, second, err := MakeSignDoc(sendDocument(t, priv, mode), 0)
		require.NoError(t, err)
		require.Equal(t, first, second, mode.String())
	}
}

func TestUnspecifiedModeEncodesAsDirect(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	_, direct, err := MakeSignDoc(sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT), 0)
	require.NoError(t, err)
	signDoc, unspecified, err := MakeSignDoc(sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED), 0)
	require.NoError(t, err)
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_DIRECT, signDoc.Mode)
	require.Equal(t, direct, unspecified)
}

func TestUnsupportedModeIsRejected(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	_, _, err := MakeSignDoc(sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_TEXTUAL), 0)
	require.ErrorIs(t, err, types.ErrUnknownSigningMode)
}

func TestAminoSignBytes(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	doc := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	send := doc.Messages[0].(*msgs.MsgSend)

	signDoc, signBytes, err := MakeSignDoc(doc, 0)
	require.NoError(t, err)
	require.NotNil(t, signDoc.Amino)

	expected := fmt.Sprintf(`{"account_number":"5","chain_id":"%s","fee":{"amount":[{"amount":"5000","denom":"ncheq"}],"gas":"200000"},"memo":"rent",`+
		`"msgs":[{"type":"cosmos-sdk/MsgSend","value":{"amount":[{"amount":"1000000000","denom":"ncheq"}],"from_address":"%s","to_address":"%s"}}],"sequence":"2"}`,
		testChainID, send.FromAddress, send.ToAddress)
	require.Equal(t, expected, string(signBytes))

	again, err := signDoc.SignBytes()
	require.NoError(t, err)
	require.Equal(t, signBytes, again)
}

func TestSortJSONIgnoresInsertionOrder(t *testing.T) {
	a, err := SortJSON([]byte(`{"b":{"y":1,"x":"2"},"a":[{"d":0,"c":12345678901234567890}]}`))
	require.NoError(t, err)
	b, err := SortJSON([]byte(`{"a":[{"c":12345678901234567890,"d":0}],"b":{"x":"2","y":1}}`))
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, `{"a":[{"c":12345678901234567890,"d":0}],"b":{"x":"2","y":1}}`, string(a))
}

func TestMessageDocumentAmino(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	doc := MessageDocument(priv.PubKey().Bytes(), "hello", signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)

	_, signBytes, err := MakeSignDoc(doc, 0)
	require.NoError(t, err)
	require.Equal(t, `{"account_number":"0","chain_id":"","fee":{"amount":[],"gas":"0"},"memo":"hello","msgs":[],"sequence":"0"}`, string(signBytes))
}

func TestSignWithPrivKey(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	for _, mode := range DefaultSignModes {
		signDoc, signBytes, err := MakeSignDoc(sendDocument(t, priv, mode), 0)
		require.NoError(t, err)

		sig, err := SignWithPrivKey(signDoc, priv)
		require.NoError(t, err)
		require.Equal(t, uint64(2), sig.Sequence)

		raw := RawSignature(sig)
		require.Len(t, raw, secp256k1.SignatureSize)
		require.True(t, priv.PubKey().VerifySignature(signBytes, raw))
	}
}

func TestMultiSignerAuthInfo(t *testing.T) {
	first := testKey(t, types.DefaultHDPath)
	second := testKey(t, "m/44'/118'/0'/0/2")

	doc := sendDocument(t, first, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	doc.Messages = append(doc.Messages, &msgs.MsgDelegate{
		DelegatorAddress: testAddress(t, second),
		ValidatorAddress: validatorAddr(t),
		Amount:           types.NewCoin(types.BaseDenom, sdkmath.NewInt(10)),
	})
	doc.Signers = append(doc.Signers, DocSigner{
		AccountNumber: 9,
		Sequence:      0,
		PublicKey:     second.PubKey().Bytes(),
		Mode:          signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON,
	})

	firstDoc, _, err := MakeSignDoc(doc, 0)
	require.NoError(t, err)
	secondDoc, secondBytes, err := MakeSignDoc(doc, 1)
	require.NoError(t, err)
	require.True(t, firstDoc.SameTransaction(secondDoc))
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, secondDoc.Mode)
	require.Contains(t, string(secondBytes), `"account_number":"9"`)

	authInfo := &txv1beta1.AuthInfo{}
	require.NoError(t, proto.Unmarshal(firstDoc.AuthInfoBytes, authInfo))
	require.Len(t, authInfo.SignerInfos, 2)
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_DIRECT, authInfo.SignerInfos[0].ModeInfo.GetSingle().GetMode())
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, authInfo.SignerInfos[1].ModeInfo.GetSingle().GetMode())

	_, _, err = MakeSignDoc(doc, 2)
	require.ErrorIs(t, err, types.ErrSignerNotFound)
}

func validatorAddr(t *testing.T) string {
	addr, err := types.ConvertAndEncode(types.ValidatorAddressPrefix, make([]byte, 20))
	require.NoError(t, err)
	return addr
}

func TestAssembleTxRaw(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	signDoc, _, err := MakeSignDoc(sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT), 0)
	require.NoError(t, err)
	sig, err := SignWithPrivKey(signDoc, priv)
	require.NoError(t, err)

	rawBz, err := AssembleTxRaw(signDoc, [][]byte{RawSignature(sig)})
	require.NoError(t, err)

	raw := &txv1beta1.TxRaw{}
	require.NoError(t, proto.Unmarshal(rawBz, raw))
	require.Equal(t, signDoc.BodyBytes, raw.BodyBytes)
	require.Equal(t, signDoc.AuthInfoBytes, raw.AuthInfoBytes)
	require.Len(t, raw.Signatures, 1)

	body := &txv1beta1.TxBody{}
	require.NoError(t, proto.Unmarshal(raw.BodyBytes, body))
	require.Equal(t, "rent", body.Memo)
	require.Len(t, body.Messages, 1)
	require.Equal(t, msgs.TypeMsgSend, body.Messages[0].TypeUrl)

	_, err = AssembleTxRaw(nil, nil)
	require.Error(t, err)
}

func TestBuildSimulationTx(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	bz, err := BuildSimulationTx(sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED))
	require.NoError(t, err)

	raw := &txv1beta1.TxRaw{}
	require.NoError(t, proto.Unmarshal(bz, raw))
	require.Len(t, raw.Signatures, 1)
	require.Empty(t, raw.Signatures[0])
}

func TestApplyAminoEdits(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	doc := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	signDoc, _, err := MakeSignDoc(doc, 0)
	require.NoError(t, err)

	returned := *signDoc.Amino
	returned.Memo = "edited"
	returned.Fee = StdFee{Amount: []msgs.AminoCoin{{Amount: "7500", Denom: types.BaseDenom}}, Gas: "300000"}
	require.NoError(t, doc.ApplyAminoEdits(signDoc.Amino, &returned))
	require.Equal(t, "edited", doc.Memo)
	require.Equal(t, uint64(300000), doc.Fee.Gas)
	require.Equal(t, "7500", doc.Fee.Amount[0].Amount.String())

	edited, editedBytes, err := MakeSignDoc(doc, 0)
	require.NoError(t, err)
	returnedBytes, err := returned.Bytes()
	require.NoError(t, err)
	require.Equal(t, returnedBytes, editedBytes)
	require.False(t, signDoc.SameTransaction(edited))

	tampered := returned
	tampered.Sequence = "3"
	require.Error(t, doc.ApplyAminoEdits(edited.Amino, &tampered))

	tampered = returned
	tampered.Msgs = []msgs.AminoMsg{}
	require.Error(t, doc.ApplyAminoEdits(edited.Amino, &tampered))

	tampered = returned
	tampered.Fee.Gas = "lots"
	require.Error(t, doc.ApplyAminoEdits(edited.Amino, &tampered))

	require.Error(t, doc.ApplyAminoEdits(edited.Amino, nil))

	for _, fee := range []msgs.AminoCoin{
		{Amount: "-1", Denom: types.BaseDenom},
		{Amount: "5", Denom: ""},
	} {
		tampered = returned
		tampered.Fee = StdFee{Amount: []msgs.AminoCoin{fee}, Gas: "300000"}
		require.Error(t, doc.ApplyAminoEdits(edited.Amino, &tampered), "fee %v", fee)
	}
	require.Equal(t, "7500", doc.Fee.Amount[0].Amount.String())
}

func TestDocumentValidate(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	other := testKey(t, "m/44'/118'/0'/0/3")

	doc := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	require.NoError(t, doc.Validate())

	noSigners := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	noSigners.Signers = nil
	require.True(t, errors.Is(noSigners.Validate(), types.ErrInvalidDocument))

	duplicate := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	duplicate.Signers = append(duplicate.Signers, duplicate.Signers[0])
	require.True(t, errors.Is(duplicate.Validate(), types.ErrInvalidDocument))

	badKey := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	badKey.Signers[0].PublicKey = []byte{1, 2, 3}
	require.True(t, errors.Is(badKey.Validate(), types.ErrInvalidDocument))

	foreign := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	foreign.Signers[0].PublicKey = other.PubKey().Bytes()
	require.True(t, errors.Is(foreign.Validate(), types.ErrInvalidDocument))

	_, _, err := MakeSignDoc(foreign, 0)
	require.ErrorIs(t, err, types.ErrInvalidDocument)

	badFees := []struct {
		name string
		coin types.Coin
	}{
		{"nil amount", types.Coin{Denom: types.BaseDenom}},
		{"negative amount", types.NewCoin(types.BaseDenom, sdkmath.NewInt(-5))},
		{"empty denom", types.NewCoin("", sdkmath.NewInt(5))},
	}
	for _, tc := range badFees {
		t.Run(tc.name, func(t *testing.T) {
			badFee := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_DIRECT)
			badFee.Fee.Amount = types.Coins{tc.coin}
			require.ErrorIs(t, badFee.Validate(), types.ErrInvalidDocument)

			_, _, err := MakeSignDoc(badFee, 0)
			require.ErrorIs(t, err, types.ErrInvalidDocument)
		})
	}
}

func TestPrepareSigner(t *testing.T) {
	priv := testKey(t, types.DefaultHDPath)
	doc := sendDocument(t, priv, signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED)

	idx, err := doc.PrepareSigner(priv.PubKey().Bytes(), signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, doc.Signers[0].Mode)

	_, err = doc.PrepareSigner(priv.PubKey().Bytes(), signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	require.ErrorIs(t, err, types.ErrInvalidDocument)

	_, err = doc.PrepareSigner(testKey(t, "m/44'/118'/0'/0/4").PubKey().Bytes(), signingv1beta1.SignMode_SIGN_MODE_DIRECT)
	require.ErrorIs(t, err, types.ErrSignerNotFound)
}
