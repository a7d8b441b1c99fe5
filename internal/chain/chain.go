// Package chain defines the backend contract for the manor custody
// contract and common utilities shared by all backend variants.
package chain

import (
	"context"
	"time"
)

// Worldchain mainnet parameters.
const (
	// ChainID is the Worldchain mainnet chain id.
	ChainID = 480

	// ContractAddress is the ScallionManor contract address.
	ContractAddress = "0x6EA33738ef28C274F8E08F0b5fD213C79e0E569C"

	// WLDTokenAddress is the WLD token contract address.
	WLDTokenAddress = "0x2cFc85d8E48F8EAB294be644d9E25C3030863003"

	// WBTCTokenAddress is the wrapped-BTC token contract address.
	WBTCTokenAddress = "0x03C7054BCB39f7b2e5B2c7AcB37583e32D70Cfa3"

	// Permit2Address is the canonical Permit2 deployment address.
	Permit2Address = "0x000000000022D473030F116dDEE9F6B43aC78BA3"
)

// Network identifies one deployment of the manor contract: the chain it
// lives on, the contract and Permit2 addresses, and the tokens whose
// balances are tracked. Configuration can point the client at a different
// deployment without a rebuild.
type Network struct {
	ChainID  int64
	Contract string
	Permit2  string
	Tokens   []Token
}

// DefaultNetwork returns the Worldchain mainnet deployment.
func DefaultNetwork() Network {
	return Network{
		ChainID:  ChainID,
		Contract: ContractAddress,
		Permit2:  Permit2Address,
		Tokens:   SupportedTokens(),
	}
}

// OrDefault fills a zero or partially specified network from the mainnet
// deployment.
func (n Network) OrDefault() Network {
	if n.Contract == "" {
		n.Contract = ContractAddress
	}
	if n.Permit2 == "" {
		n.Permit2 = Permit2Address
	}
	if n.ChainID == 0 {
		n.ChainID = ChainID
	}
	if len(n.Tokens) == 0 {
		n.Tokens = SupportedTokens()
	}
	return n
}

// Contract entry points. Value-moving calls take a Permit2 authorization
// and signature as trailing parameters; tipDeveloper places them before
// the message argument.
const (
	FnPurchaseManorAccess = "purchaseManorAccess"
	FnDepositWBTC         = "depositWBTC"
	FnWithdrawWBTC        = "withdrawWBTC"
	FnInheritWBTC         = "inheritWBTC"
	FnSetInheritors       = "setInheritors"
	FnMaintainInheritors  = "maintainInheritors"
	FnRefreshActivity     = "refreshActivity"
	FnSetManorName        = "setManorName"
	FnTipDeveloper        = "tipDeveloper"

	FnGetManorInfo     = "getManorInfo"
	FnGetWithdrawer    = "getWithdrawer"
	FnIsUserActive     = "isUserActive"
	FnManorAccessPrice = "manorAccessPrice"
	FnForceChangeFee   = "forceChangeFee"
)

// ManorInfo is a snapshot of one user's custody record. It is never
// mutated in place; every fetch replaces the previous snapshot wholesale.
type ManorInfo struct {
	HasAccess      bool     `json:"has_access"`
	WbtcBalance    string   `json:"wbtc_balance"` // decimal string, 8-decimal precision
	UnlockTime     int64    `json:"unlock_time"`  // unix seconds, 0 means no funds/lock
	LastActiveTime int64    `json:"last_active_time"`
	Inheritors     []string `json:"inheritors"`
	IsActive       bool     `json:"is_active"`
	Withdrawer     string   `json:"withdrawer"` // address currently entitled to withdraw
	Name           string   `json:"name"`
}

// UserToken is one wallet balance entry, keyed by token address.
type UserToken struct {
	Token  string `json:"token"`
	Amount string `json:"amount"` // decimal string in the token's precision
}

// TransactionResult identifies a submitted transaction within a specific
// wallet execution context. MiniAppID disambiguates which backend produced
// the id because confirmation checking is backend-specific.
type TransactionResult struct {
	TransactionID string `json:"transaction_id"`
	MiniAppID     string `json:"mini_app_id"`
}

// PendingTransaction is a submitted-but-unconfirmed mutating operation.
// At most one exists process-wide; see the tracker package.
type PendingTransaction struct {
	TransactionID string    `json:"transaction_id"`
	MiniAppID     string    `json:"mini_app_id"`
	Timestamp     time.Time `json:"timestamp"`
	FunctionName  string    `json:"function_name"`
}

// SetInheritorsOptions selects between managing the caller's own inheritor
// list and maintaining another owner's list on their behalf. The force-change
// fee is charged only when ForceChange is set.
type SetInheritorsOptions struct {
	ForceChange bool
	ManorOwner  string // non-empty: maintain this owner's list instead of the caller's
}

// Prober reports whether a backend's runtime environment is present.
type Prober interface {
	// Name returns the backend variant name.
	Name() string

	// IsValid reports whether this backend's required wallet environment
	// is currently present. Side-effect-free and cheap; used only for
	// backend selection.
	IsValid() bool
}

// Authenticator performs wallet authentication.
type Authenticator interface {
	// Login authenticates the wallet and returns the user's address.
	Login(ctx context.Context) (string, error)
}

// Reader combines the read-only manor operations.
type Reader interface {
	// GetUserInfo reads on-chain balances for the supported tokens for the
	// currently connected account.
	GetUserInfo(ctx context.Context) ([]UserToken, error)

	// GetManorInfo reads the full custody record for an address. The three
	// underlying reads are issued concurrently.
	GetManorInfo(ctx context.Context, address string) (*ManorInfo, error)

	// GetManorAccessPrice returns the access price in WLD as a decimal string.
	GetManorAccessPrice(ctx context.Context) (string, error)

	// GetForceChangeFee returns the force-change fee in WLD as a decimal string.
	GetForceChangeFee(ctx context.Context) (string, error)
}

// Writer combines the state-mutating manor operations. Each returns a
// TransactionResult; confirmation happens separately through a Confirmer.
type Writer interface {
	PurchaseManorAccess(ctx context.Context) (*TransactionResult, error)
	DepositWBTC(ctx context.Context, amount string, lockPeriodSeconds int64) (*TransactionResult, error)
	WithdrawWBTC(ctx context.Context) (*TransactionResult, error)
	InheritWBTC(ctx context.Context, manorOwner string) (*TransactionResult, error)
	SetInheritors(ctx context.Context, inheritors []string, opts SetInheritorsOptions) (*TransactionResult, error)
	RenameManor(ctx context.Context, name string) (*TransactionResult, error)
	RefreshActivity(ctx context.Context) (*TransactionResult, error)
	TipDeveloper(ctx context.Context, amount, message string) (*TransactionResult, error)
}

// Confirmer provides transaction-confirmation checking.
type Confirmer interface {
	// CheckTransactionConfirmation is a single non-blocking probe of one
	// transaction's finality. Returns true when confirmed, false while
	// pending (including not-yet-visible transactions), and
	// ErrTransactionFailed on a confirmed on-chain failure.
	CheckTransactionConfirmation(ctx context.Context, transactionID, miniAppID string) (bool, error)

	// WaitForTransactionConfirmation polls CheckTransactionConfirmation
	// until confirmed, failed, or retries are exhausted.
	WaitForTransactionConfirmation(ctx context.Context, transactionID, miniAppID string, opts *ConfirmOptions) error
}

// Backend is the full contract every backend variant implements.
type Backend interface {
	Prober
	Authenticator
	Reader
	Writer
	Confirmer
}
