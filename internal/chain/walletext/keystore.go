// Package walletext implements the backend for the browser-extension
// wallet environment. Unlike the in-app backend it holds its own signing
// key: an age-encrypted BIP-39 mnemonic on disk, from which the account
// key is derived on demand.
package walletext

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/scallionlabs/manor/internal/fileutil"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Standard Ethereum account path, m/44'/60'/0'/0/0.
var accountPath = []uint32{
	bip32.FirstHardenedChild + 44,
	bip32.FirstHardenedChild + 60,
	bip32.FirstHardenedChild + 0,
	0,
	0,
}

// GenerateMnemonic creates a fresh 12-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", manorerr.Wrap(err, manorerr.ErrGeneral, "generating entropy")
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", manorerr.Wrap(err, manorerr.ErrGeneral, "generating mnemonic")
	}

	return mnemonic, nil
}

// KeyfileExists reports whether a keyfile is present at path.
func KeyfileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CreateKeyfile validates the mnemonic, encrypts it with the passphrase,
// and writes it to path. Refuses to overwrite an existing keyfile.
func CreateKeyfile(path, mnemonic, passphrase string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return manorerr.ErrInvalidMnemonic
	}

	if KeyfileExists(path) {
		return manorerr.WithDetails(manorerr.ErrKeyfileExists, map[string]string{
			"path": path,
		})
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return manorerr.Wrap(err, manorerr.ErrGeneral, "creating encryption recipient")
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return manorerr.Wrap(err, manorerr.ErrGeneral, "encrypting keyfile")
	}
	if _, err := io.WriteString(w, mnemonic); err != nil {
		return manorerr.Wrap(err, manorerr.ErrGeneral, "encrypting keyfile")
	}
	if err := w.Close(); err != nil {
		return manorerr.Wrap(err, manorerr.ErrGeneral, "encrypting keyfile")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return manorerr.Wrap(err, manorerr.ErrGeneral, "creating keyfile directory")
	}
	if err := fileutil.WriteAtomic(path, buf.Bytes(), 0o600); err != nil {
		return manorerr.Wrap(err, manorerr.ErrGeneral, "writing keyfile")
	}

	return nil
}

// LoadKey decrypts the keyfile and derives the account private key at
// m/44'/60'/0'/0/0. The caller must zero the key when done with it.
func LoadKey(path, passphrase string) (*ecdsa.PrivateKey, error) {
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, manorerr.WithDetails(manorerr.ErrKeyfileNotFound, map[string]string{
				"path": path,
			})
		}
		return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "reading keyfile")
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "creating decryption identity")
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrDecryptionFailed, "wrong passphrase or corrupt keyfile")
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrDecryptionFailed, "reading decrypted keyfile")
	}
	defer zeroBytes(plaintext)

	mnemonic := strings.TrimSpace(string(plaintext))
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, manorerr.ErrInvalidMnemonic
	}

	return deriveAccountKey(mnemonic)
}

// deriveAccountKey walks the account path from the mnemonic's seed.
func deriveAccountKey(mnemonic string) (*ecdsa.PrivateKey, error) {
	seed := bip39.NewSeed(mnemonic, "")
	defer zeroBytes(seed)

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "creating master key")
	}

	for _, child := range accountPath {
		key, err = key.NewChildKey(child)
		if err != nil {
			return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "deriving account key")
		}
	}

	priv, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "converting derived key")
	}

	return priv, nil
}

// AddressFromKeyfile decrypts the keyfile and returns the account address
// without keeping the key around.
func AddressFromKeyfile(path, passphrase string) (string, error) {
	key, err := LoadKey(path, passphrase)
	if err != nil {
		return "", err
	}
	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()
	zeroKey(key)
	return addr, nil
}

func zeroBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// zeroKey clears the scalar of a private key.
func zeroKey(key *ecdsa.PrivateKey) {
	if key != nil && key.D != nil {
		key.D.SetInt64(0)
	}
}
