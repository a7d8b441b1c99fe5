package chain

import (
	"encoding/json"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// manorABIJSON is the ScallionManor contract interface. Value-moving entry
// points take a Permit2 PermitTransferFrom tuple and its signature as
// trailing parameters (tipDeveloper takes them before the message).
const manorABIJSON = `[
  {"type":"function","stateMutability":"view","name":"getManorInfo",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"hasAccess","type":"bool"},{"name":"wbtcBalance","type":"uint256"},
              {"name":"unlockTime","type":"uint256"},{"name":"lastActiveTime","type":"uint256"},
              {"name":"inheritors","type":"address[]"},{"name":"name","type":"string"}]},
  {"type":"function","stateMutability":"view","name":"getWithdrawer",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","stateMutability":"view","name":"isUserActive",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","stateMutability":"view","name":"manorAccessPrice",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","stateMutability":"view","name":"forceChangeFee",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","stateMutability":"nonpayable","name":"purchaseManorAccess",
   "inputs":[
     {"name":"permit","type":"tuple","components":[
       {"name":"permitted","type":"tuple","components":[
         {"name":"token","type":"address"},{"name":"amount","type":"uint256"}]},
       {"name":"nonce","type":"uint256"},{"name":"deadline","type":"uint256"}]},
     {"name":"signature","type":"bytes"}],
   "outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"depositWBTC",
   "inputs":[
     {"name":"lockPeriod","type":"uint256"},
     {"name":"permit","type":"tuple","components":[
       {"name":"permitted","type":"tuple","components":[
         {"name":"token","type":"address"},{"name":"amount","type":"uint256"}]},
       {"name":"nonce","type":"uint256"},{"name":"deadline","type":"uint256"}]},
     {"name":"signature","type":"bytes"}],
   "outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"withdrawWBTC",
   "inputs":[],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"inheritWBTC",
   "inputs":[{"name":"manorOwner","type":"address"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"setInheritors",
   "inputs":[
     {"name":"inheritors","type":"address[]"},
     {"name":"forceChange","type":"bool"},
     {"name":"permit","type":"tuple","components":[
       {"name":"permitted","type":"tuple","components":[
         {"name":"token","type":"address"},{"name":"amount","type":"uint256"}]},
       {"name":"nonce","type":"uint256"},{"name":"deadline","type":"uint256"}]},
     {"name":"signature","type":"bytes"}],
   "outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"maintainInheritors",
   "inputs":[
     {"name":"manorOwner","type":"address"},
     {"name":"inheritors","type":"address[]"},
     {"name":"forceChange","type":"bool"},
     {"name":"permit","type":"tuple","components":[
       {"name":"permitted","type":"tuple","components":[
         {"name":"token","type":"address"},{"name":"amount","type":"uint256"}]},
       {"name":"nonce","type":"uint256"},{"name":"deadline","type":"uint256"}]},
     {"name":"signature","type":"bytes"}],
   "outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"refreshActivity",
   "inputs":[],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"setManorName",
   "inputs":[{"name":"name","type":"string"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"tipDeveloper",
   "inputs":[
     {"name":"permit","type":"tuple","components":[
       {"name":"permitted","type":"tuple","components":[
         {"name":"token","type":"address"},{"name":"amount","type":"uint256"}]},
       {"name":"nonce","type":"uint256"},{"name":"deadline","type":"uint256"}]},
     {"name":"signature","type":"bytes"},
     {"name":"message","type":"string"}],
   "outputs":[]}
]`

// erc20ABIJSON is the minimal ERC-20 surface used for balance reads.
const erc20ABIJSON = `[
  {"type":"function","stateMutability":"view","name":"balanceOf",
   "inputs":[{"name":"owner","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","stateMutability":"view","name":"decimals",
   "inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

var (
	manorABIOnce sync.Once
	manorABI     abi.ABI
	erc20ABIOnce sync.Once
	erc20ABI     abi.ABI
)

// ManorABIJSON returns the raw contract ABI for payloads that carry it
// verbatim, such as host wallet transaction requests.
func ManorABIJSON() json.RawMessage {
	return json.RawMessage(manorABIJSON)
}

// ManorABI returns the parsed ScallionManor contract ABI.
func ManorABI() abi.ABI {
	manorABIOnce.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(manorABIJSON))
		if err != nil {
			panic("chain: invalid embedded manor ABI: " + err.Error())
		}
		manorABI = parsed
	})
	return manorABI
}

// ERC20ABI returns the parsed minimal ERC-20 ABI.
func ERC20ABI() abi.ABI {
	erc20ABIOnce.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
		if err != nil {
			panic("chain: invalid embedded ERC-20 ABI: " + err.Error())
		}
		erc20ABI = parsed
	})
	return erc20ABI
}

// TokenPermissions mirrors the Permit2 TokenPermissions tuple for ABI packing.
type TokenPermissions struct {
	Token  common.Address
	Amount *big.Int
}

// PermitTransferFrom mirrors the Permit2 PermitTransferFrom tuple for ABI
// packing. Entry points that require the parameter but move no value still
// receive a signed permit, with the amount set to zero.
type PermitTransferFrom struct {
	Permitted TokenPermissions
	Nonce     *big.Int
	Deadline  *big.Int
}
