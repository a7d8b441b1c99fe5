package permit2

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scallionlabs/manor/internal/chain"
)

var (
	testToken   = common.HexToAddress(chain.WLDTokenAddress)
	testSpender = common.HexToAddress(chain.ContractAddress)
	testPermit2 = common.HexToAddress(chain.Permit2Address)
)

func fixedBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder(testPermit2, chain.ChainID)
	b.now = func() time.Time { return time.Unix(1700000000, 0) }
	return b
}

func TestBuilder_NewPermit(t *testing.T) {
	b := fixedBuilder(t)

	permit := b.NewPermit(testToken, big.NewInt(5000000))

	assert.Equal(t, testToken, permit.Permitted.Token)
	assert.Equal(t, "5000000", permit.Permitted.Amount.String())

	// Nonce is the wall clock in milliseconds.
	assert.Equal(t, int64(1700000000000), permit.Nonce.Int64())

	// Deadline is 30 minutes out, in seconds.
	assert.Equal(t, int64(1700000000+30*60), permit.Deadline.Int64())
}

func TestBuilder_NewPermit_CopiesAmount(t *testing.T) {
	b := fixedBuilder(t)

	amount := big.NewInt(100)
	permit := b.NewPermit(testToken, amount)
	amount.SetInt64(999)

	assert.Equal(t, "100", permit.Permitted.Amount.String())
}

func TestBuilder_TypedData(t *testing.T) {
	b := fixedBuilder(t)
	permit := b.NewPermit(testToken, big.NewInt(42))

	data := b.TypedData(permit, testSpender)

	assert.Equal(t, "PermitTransferFrom", data.PrimaryType)
	assert.Equal(t, "Permit2", data.Domain.Name)
	assert.Empty(t, data.Domain.Version)
	assert.Equal(t, testPermit2.Hex(), data.Domain.VerifyingContract)

	// Spender is bound in the signed message even though the calldata
	// tuple omits it.
	assert.Equal(t, testSpender.Hex(), data.Message["spender"])
	assert.Equal(t, permit.Nonce.String(), data.Message["nonce"])
	assert.Equal(t, permit.Deadline.String(), data.Message["deadline"])

	permitted, ok := data.Message["permitted"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, testToken.Hex(), permitted["token"])
	assert.Equal(t, "42", permitted["amount"])
}

func TestKeySigner_SignTypedData(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	signer := NewKeySigner(key)
	b := fixedBuilder(t)
	data := b.TypedData(b.NewPermit(testToken, big.NewInt(1)), testSpender)

	sig, err := signer.SignTypedData(data)
	require.NoError(t, err)

	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	// Same payload, same signature.
	sig2, err := signer.SignTypedData(data)
	require.NoError(t, err)
	assert.Equal(t, sig, sig2)
}

func TestKeySigner_Address(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	signer := NewKeySigner(key)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.Address())
}

func TestBuilder_Build(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	b := fixedBuilder(t)
	auth, err := b.Build(NewKeySigner(key), testToken, big.NewInt(7), testSpender)
	require.NoError(t, err)

	assert.Equal(t, "7", auth.Permit.Permitted.Amount.String())
	assert.Len(t, auth.Signature, 65)
}
