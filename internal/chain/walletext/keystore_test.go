package walletext

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Well-known BIP-39 test vector.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateMnemonic(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	require.NoError(t, err)

	assert.Len(t, strings.Fields(mnemonic), 12)
	assert.True(t, bip39.IsMnemonicValid(mnemonic))

	// Fresh entropy each call.
	second, err := GenerateMnemonic()
	require.NoError(t, err)
	assert.NotEqual(t, mnemonic, second)
}

func TestCreateKeyfile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyfile.age")

	require.NoError(t, CreateKeyfile(path, testMnemonic, "correct horse"))
	assert.True(t, KeyfileExists(path))

	key, err := LoadKey(path, "correct horse")
	require.NoError(t, err)
	require.NotNil(t, key)
	zeroKey(key)
}

func TestCreateKeyfile_InvalidMnemonic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyfile.age")

	err := CreateKeyfile(path, "not a valid mnemonic", "pass")
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrInvalidMnemonic))
	assert.False(t, KeyfileExists(path))
}

func TestCreateKeyfile_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyfile.age")
	require.NoError(t, CreateKeyfile(path, testMnemonic, "pass"))

	err := CreateKeyfile(path, testMnemonic, "pass")
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrKeyfileExists))
}

func TestLoadKey_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyfile.age")
	require.NoError(t, CreateKeyfile(path, testMnemonic, "right"))

	_, err := LoadKey(path, "wrong")
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrDecryptionFailed))
}

func TestLoadKey_Missing(t *testing.T) {
	_, err := LoadKey(filepath.Join(t.TempDir(), "nope.age"), "pass")
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrKeyfileNotFound))
}

func TestAddressFromKeyfile_KnownVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyfile.age")
	require.NoError(t, CreateKeyfile(path, testMnemonic, "pass"))

	address, err := AddressFromKeyfile(path, "pass")
	require.NoError(t, err)

	// m/44'/60'/0'/0/0 for the all-abandon mnemonic.
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", address)
}

func TestAddressFromKeyfile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.age")
	second := filepath.Join(dir, "b.age")
	require.NoError(t, CreateKeyfile(first, testMnemonic, "pass"))
	require.NoError(t, CreateKeyfile(second, testMnemonic, "other"))

	addrA, err := AddressFromKeyfile(first, "pass")
	require.NoError(t, err)
	addrB, err := AddressFromKeyfile(second, "other")
	require.NoError(t, err)

	assert.Equal(t, addrA, addrB)
}
