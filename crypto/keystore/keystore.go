package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"

	"github.com/cheqd/wallet-core/crypto/secp256k1"
)

const (
	keyHeaderKDF = "scrypt"
	scryptR      = 8
	scryptDKLen  = 32

	// StandardScryptN and StandardScryptP are the work factors for keys stored on disk.
	StandardScryptN = 1 << 18
	StandardScryptP = 1

	// LightScryptN and LightScryptP trade security for speed.
	LightScryptN = 1 << 12
	LightScryptP = 6

	version = 3
)

var ErrDecrypt = errors.New("could not decrypt key with given passphrase")

// Key is a decrypted keystore entry.
type Key struct {
	Id uuid.UUID
	// a nickname
	Account string
	// bech32 address, stored for lookups
	Address    string
	PrivateKey *secp256k1.PrivKey
}

type encryptedKeyJSONV3 struct {
	Address string     `json:"address"`
	Account string     `json:"account"`
	Crypto  cryptoJSON `json:"crypto"`
	Id      string     `json:"id"`
	Version int        `json:"version"`
}

type cryptoJSON struct {
	Cipher       string                 `json:"cipher"`
	CipherText   string                 `json:"ciphertext"`
	CipherParams cipherparamsJSON       `json:"cipherparams"`
	KDF          string                 `json:"kdf"`
	KDFParams    map[string]interface{} `json:"kdfparams"`
	MAC          string                 `json:"mac"`
}

type cipherparamsJSON struct {
	IV string `json:"iv"`
}

// NewKey wraps a private key with a fresh random id.
func NewKey(priv *secp256k1.PrivKey, account, address string) *Key {
	return &Key{
		Id:         uuid.New(),
		Account:    account,
		Address:    address,
		PrivateKey: priv,
	}
}

// EncryptKey encrypts a key using the specified scrypt parameters into a json
// blob that can be decrypted later on.
func EncryptKey(key *Key, auth string, scryptN, scryptP int) ([]byte, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Wrap(err, "reading from crypto/rand failed")
	}
	derivedKey, err := scrypt.Key([]byte(auth), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}
	encryptKey := derivedKey[:16]

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, errors.Wrap(err, "reading from crypto/rand failed")
	}
	cipherText, err := aesCTRXOR(encryptKey, key.PrivateKey.Bytes(), iv)
	if err != nil {
		return nil, err
	}
	mac := crypto.Keccak256(derivedKey[16:32], cipherText)

	scryptParamsJSON := make(map[string]interface{}, 5)
	scryptParamsJSON["n"] = scryptN
	scryptParamsJSON["r"] = scryptR
	scryptParamsJSON["p"] = scryptP
	scryptParamsJSON["dklen"] = scryptDKLen
	scryptParamsJSON["salt"] = hex.EncodeToString(salt)

	return json.Marshal(encryptedKeyJSONV3{
		Address: key.Address,
		Account: key.Account,
		Crypto: cryptoJSON{
			Cipher:       "aes-128-ctr",
			CipherText:   hex.EncodeToString(cipherText),
			CipherParams: cipherparamsJSON{IV: hex.EncodeToString(iv)},
			KDF:          keyHeaderKDF,
			KDFParams:    scryptParamsJSON,
			MAC:          hex.EncodeToString(mac),
		},
		Id:      key.Id.String(),
		Version: version,
	})
}

// DecryptKey decrypts a key from a json blob, returning the private key itself.
func DecryptKey(keyjson []byte, auth string) (*Key, error) {
	k := &encryptedKeyJSONV3{}
	if err := json.Unmarshal(keyjson, k); err != nil {
		return nil, errors.Wrap(err, "malformed keystore json")
	}
	keyBytes, keyId, err := decryptKeyV3(k, auth)
	if err != nil {
		return nil, err
	}
	if len(keyBytes) != secp256k1.PrivKeySize {
		return nil, fmt.Errorf("decrypted key has wrong length %d", len(keyBytes))
	}

	return &Key{
		Id:         keyId,
		Account:    k.Account,
		Address:    k.Address,
		PrivateKey: secp256k1.Generate(keyBytes),
	}, nil
}

// StoreKey encrypts the key and writes it atomically to filename.
func StoreKey(filename string, key *Key, auth string, scryptN, scryptP int) error {
	keyjson, err := EncryptKey(key, auth, scryptN, scryptP)
	if err != nil {
		return err
	}
	return WriteKeyFile(filename, keyjson)
}

// LoadKey reads and decrypts a keystore file.
func LoadKey(filename, auth string) (*Key, error) {
	keyjson, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keystore file %s", filename)
	}
	return DecryptKey(keyjson, auth)
}

func WriteKeyFile(file string, content []byte) error {
	const dirPerm = 0700
	if err := os.MkdirAll(filepath.Dir(file), dirPerm); err != nil {
		return err
	}
	// Atomic write: create a temporary hidden file first
	// then move it into place. CreateTemp assigns mode 0600.
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".tmp")
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	f.Close()
	return os.Rename(f.Name(), file)
}

func aesCTRXOR(key, inText, iv []byte) ([]byte, error) {
	// AES-128 is selected due to size of encryptKey.
	aesBlock, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(aesBlock, iv)
	outText := make([]byte, len(inText))
	stream.XORKeyStream(outText, inText)
	return outText, err
}

func decryptKeyV3(keyProtected *encryptedKeyJSONV3, auth string) (keyBytes []byte, keyId uuid.UUID, err error) {
	if keyProtected.Version != version {
		return nil, keyId, fmt.Errorf("version not supported: %v", keyProtected.Version)
	}
	if keyProtected.Crypto.Cipher != "aes-128-ctr" {
		return nil, keyId, fmt.Errorf("cipher not supported: %v", keyProtected.Crypto.Cipher)
	}

	keyId, err = uuid.Parse(keyProtected.Id)
	if err != nil {
		return nil, keyId, errors.Wrap(err, "invalid key id")
	}
	mac, err := hex.DecodeString(keyProtected.Crypto.MAC)
	if err != nil {
		return nil, keyId, err
	}
	iv, err := hex.DecodeString(keyProtected.Crypto.CipherParams.IV)
	if err != nil {
		return nil, keyId, err
	}
	cipherText, err := hex.DecodeString(keyProtected.Crypto.CipherText)
	if err != nil {
		return nil, keyId, err
	}

	derivedKey, err := getKDFKey(keyProtected.Crypto, auth)
	if err != nil {
		return nil, keyId, err
	}

	calculatedMAC := crypto.Keccak256(derivedKey[16:32], cipherText)
	if !bytes.Equal(calculatedMAC, mac) {
		return nil, keyId, ErrDecrypt
	}

	plainText, err := aesCTRXOR(derivedKey[:16], cipherText, iv)
	if err != nil {
		return nil, keyId, err
	}
	return plainText, keyId, nil
}

func getKDFKey(cryptoJSON cryptoJSON, auth string) ([]byte, error) {
	authArray := []byte(auth)
	saltStr, ok := cryptoJSON.KDFParams["salt"].(string)
	if !ok {
		return nil, errors.New("missing kdf salt")
	}
	salt, err := hex.DecodeString(saltStr)
	if err != nil {
		return nil, err
	}
	dkLen := ensureInt(cryptoJSON.KDFParams["dklen"])
	if dkLen < 32 {
		return nil, fmt.Errorf("kdf dklen %d too short", dkLen)
	}

	switch cryptoJSON.KDF {
	case keyHeaderKDF:
		n := ensureInt(cryptoJSON.KDFParams["n"])
		r := ensureInt(cryptoJSON.KDFParams["r"])
		p := ensureInt(cryptoJSON.KDFParams["p"])
		return scrypt.Key(authArray, salt, n, r, p, dkLen)
	case "pbkdf2":
		c := ensureInt(cryptoJSON.KDFParams["c"])
		prf, _ := cryptoJSON.KDFParams["prf"].(string)
		if prf != "hmac-sha256" {
			return nil, fmt.Errorf("unsupported PBKDF2 PRF: %s", prf)
		}
		return pbkdf2.Key(authArray, salt, c, dkLen, sha256.New), nil
	}

	return nil, fmt.Errorf("unsupported KDF: %s", cryptoJSON.KDF)
}

// integers in kdf params come back from encoding/json as float64
func ensureInt(x interface{}) int {
	switch v := x.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
