package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManorABI_HasAllEntryPoints(t *testing.T) {
	parsed := ManorABI()

	for _, fn := range []string{
		FnPurchaseManorAccess, FnDepositWBTC, FnWithdrawWBTC, FnInheritWBTC,
		FnSetInheritors, FnMaintainInheritors, FnRefreshActivity,
		FnSetManorName, FnTipDeveloper,
		FnGetManorInfo, FnGetWithdrawer, FnIsUserActive,
		FnManorAccessPrice, FnForceChangeFee,
	} {
		_, ok := parsed.Methods[fn]
		assert.True(t, ok, "method %s missing from ABI", fn)
	}
}

func TestManorABI_PackDepositWBTC(t *testing.T) {
	parsed := ManorABI()

	permit := PermitTransferFrom{
		Permitted: TokenPermissions{
			Token:  common.HexToAddress(WBTCTokenAddress),
			Amount: big.NewInt(5000000),
		},
		Nonce:    big.NewInt(1700000000000),
		Deadline: big.NewInt(1700000000),
	}

	data, err := parsed.Pack(FnDepositWBTC, big.NewInt(3600), permit, []byte{0x01})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)

	method, err := parsed.MethodById(data[:4])
	require.NoError(t, err)
	assert.Equal(t, FnDepositWBTC, method.Name)
}

func TestManorABI_PackSetInheritorsZeroAmount(t *testing.T) {
	parsed := ManorABI()

	permit := PermitTransferFrom{
		Permitted: TokenPermissions{
			Token:  common.HexToAddress(WLDTokenAddress),
			Amount: big.NewInt(0),
		},
		Nonce:    big.NewInt(1700000000000),
		Deadline: big.NewInt(1700001800),
	}
	inheritors := []common.Address{
		common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"),
	}

	data, err := parsed.Pack(FnSetInheritors, inheritors, false, permit, []byte{0x01})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestERC20ABI_PackBalanceOf(t *testing.T) {
	parsed := ERC20ABI()

	data, err := parsed.Pack("balanceOf", common.HexToAddress(WBTCTokenAddress))
	require.NoError(t, err)

	// balanceOf(address) selector is 0x70a08231
	assert.Equal(t, []byte{0x70, 0xa0, 0x82, 0x31}, data[:4])
}

func TestManorABIJSON_IsRawABI(t *testing.T) {
	raw := ManorABIJSON()
	assert.NotEmpty(t, raw)
	assert.Equal(t, byte('['), raw[0])
}
