package worldapp

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/chain/contract"
	"github.com/scallionlabs/manor/internal/chain/permit2"
	"github.com/scallionlabs/manor/internal/chain/rpc"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Client implements the backend contract on top of the host wallet bridge.
// Reads go straight to the chain over JSON-RPC; writes are delegated to the
// host, which signs permits and submits on the user's behalf.
type Client struct {
	bridge  Bridge
	status  *StatusClient
	network chain.Network
	reader  *contract.Reader
	permits *permit2.Builder

	mu      sync.RWMutex
	address string
}

// Options configures the in-app backend.
type Options struct {
	// Status overrides the default transaction status client.
	Status *StatusClient

	// Network overrides the Worldchain mainnet deployment.
	Network chain.Network
}

// NewClient creates the in-app backend around a bridge and an RPC endpoint.
func NewClient(bridge Bridge, rpcClient *rpc.Client, opts *Options) *Client {
	network := chain.Network{}
	if opts != nil {
		network = opts.Network
	}
	network = network.OrDefault()

	c := &Client{
		bridge:  bridge,
		network: network,
		reader:  contract.NewReader(rpcClient, network),
		status:  NewStatusClient(nil),
		permits: permit2.NewBuilder(common.HexToAddress(network.Permit2), network.ChainID),
	}
	if opts != nil && opts.Status != nil {
		c.status = opts.Status
	}
	return c
}

// Name returns the backend variant name.
func (c *Client) Name() string { return "worldapp" }

// IsValid reports whether the host bridge handshake has completed.
func (c *Client) IsValid() bool { return c.bridge.Installed() }

// Login authenticates against the host wallet and records the address for
// subsequent balance reads.
func (c *Client) Login(ctx context.Context) (string, error) {
	address, err := c.bridge.WalletAuth(ctx)
	if err != nil {
		return "", manorerr.Wrap(err, manorerr.ErrAuth, "wallet authentication failed")
	}

	c.mu.Lock()
	c.address = address
	c.mu.Unlock()

	return address, nil
}

// Address returns the authenticated wallet address, if any.
func (c *Client) Address() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.address
}

func (c *Client) requireAddress() (string, error) {
	addr := c.Address()
	if addr == "" {
		return "", manorerr.ErrNotLoggedIn
	}
	return addr, nil
}

// GetUserInfo reads the wallet's balance for every supported token.
func (c *Client) GetUserInfo(ctx context.Context) ([]chain.UserToken, error) {
	addr, err := c.requireAddress()
	if err != nil {
		return nil, err
	}
	return c.reader.UserTokens(ctx, addr)
}

// GetManorInfo reads the full custody record for an address.
func (c *Client) GetManorInfo(ctx context.Context, address string) (*chain.ManorInfo, error) {
	return c.reader.ManorInfo(ctx, address)
}

// GetManorAccessPrice returns the access price in WLD.
func (c *Client) GetManorAccessPrice(ctx context.Context) (string, error) {
	raw, err := c.reader.AccessPriceRaw(ctx)
	if err != nil {
		return "", err
	}
	return chain.FormatDecimalAmount(raw, chain.WLDDecimals), nil
}

// GetForceChangeFee returns the force-change fee in WLD.
func (c *Client) GetForceChangeFee(ctx context.Context) (string, error) {
	raw, err := c.reader.ForceChangeFeeRaw(ctx)
	if err != nil {
		return "", err
	}
	return chain.FormatDecimalAmount(raw, chain.WLDDecimals), nil
}

// permitForm renders a permit as the tuple-shaped argument and request entry
// the host expects. All numbers travel as decimal strings.
func (c *Client) permitForm(token string, amount *big.Int) (arg []any, req PermitRequest) {
	permit := c.permits.NewPermit(common.HexToAddress(token), amount)

	arg = []any{
		[]any{token, permit.Permitted.Amount.String()},
		permit.Nonce.String(),
		permit.Deadline.String(),
	}
	req = PermitRequest{
		Permitted: PermittedToken{Token: token, Amount: permit.Permitted.Amount.String()},
		Spender:   c.network.Contract,
		Nonce:     permit.Nonce.String(),
		Deadline:  permit.Deadline.String(),
	}
	return arg, req
}

// send wraps one contract call into a transaction request and hands it to
// the host.
func (c *Client) send(ctx context.Context, fn string, args []any, permits []PermitRequest) (*chain.TransactionResult, error) {
	if _, err := c.requireAddress(); err != nil {
		return nil, err
	}

	req := TransactionRequest{
		Transaction: []TransactionCall{{
			Address:      c.network.Contract,
			ABI:          chain.ManorABIJSON(),
			FunctionName: fn,
			Args:         args,
		}},
		Permit2: permits,
	}

	return c.bridge.SendTransaction(ctx, req)
}

// PurchaseManorAccess buys access at the current on-chain price, paid in WLD
// through a host-signed permit.
func (c *Client) PurchaseManorAccess(ctx context.Context) (*chain.TransactionResult, error) {
	price, err := c.reader.AccessPriceRaw(ctx)
	if err != nil {
		return nil, err
	}

	permitArg, permitReq := c.permitForm(chain.WLDTokenAddress, price)
	args := []any{permitArg, PermitSignaturePlaceholder}

	return c.send(ctx, chain.FnPurchaseManorAccess, args, []PermitRequest{permitReq})
}

// DepositWBTC locks the given WBTC amount for lockPeriodSeconds.
func (c *Client) DepositWBTC(ctx context.Context, amount string, lockPeriodSeconds int64) (*chain.TransactionResult, error) {
	raw, err := chain.ParseDecimalAmount(amount, chain.WBTCDecimals)
	if err != nil {
		return nil, err
	}

	permitArg, permitReq := c.permitForm(chain.WBTCTokenAddress, raw)
	args := []any{
		big.NewInt(lockPeriodSeconds).String(),
		permitArg,
		PermitSignaturePlaceholder,
	}

	return c.send(ctx, chain.FnDepositWBTC, args, []PermitRequest{permitReq})
}

// WithdrawWBTC withdraws the caller's unlocked balance.
func (c *Client) WithdrawWBTC(ctx context.Context) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnWithdrawWBTC, []any{}, nil)
}

// InheritWBTC claims an inheritance from the given manor owner.
func (c *Client) InheritWBTC(ctx context.Context, manorOwner string) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnInheritWBTC, []any{manorOwner}, nil)
}

// SetInheritors replaces an inheritor list. With opts.ManorOwner set the
// call maintains that owner's list instead of the caller's. The force-change
// fee is charged, via a WLD permit, only when opts.ForceChange is set.
func (c *Client) SetInheritors(ctx context.Context, inheritors []string, opts chain.SetInheritorsOptions) (*chain.TransactionResult, error) {
	fee := big.NewInt(0)
	if opts.ForceChange {
		raw, err := c.reader.ForceChangeFeeRaw(ctx)
		if err != nil {
			return nil, err
		}
		fee = raw
	}

	permitArg, permitReq := c.permitForm(chain.WLDTokenAddress, fee)

	list := make([]any, len(inheritors))
	for i, addr := range inheritors {
		list[i] = addr
	}

	fn := chain.FnSetInheritors
	args := []any{list, opts.ForceChange, permitArg, PermitSignaturePlaceholder}
	if opts.ManorOwner != "" {
		fn = chain.FnMaintainInheritors
		args = append([]any{opts.ManorOwner}, args...)
	}

	return c.send(ctx, fn, args, []PermitRequest{permitReq})
}

// RenameManor sets the caller's manor display name.
func (c *Client) RenameManor(ctx context.Context, name string) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnSetManorName, []any{name}, nil)
}

// RefreshActivity bumps the caller's last-active timestamp.
func (c *Client) RefreshActivity(ctx context.Context) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnRefreshActivity, []any{}, nil)
}

// TipDeveloper sends a WLD tip with a message. The permit and signature
// placeholders precede the message argument in this entry point.
func (c *Client) TipDeveloper(ctx context.Context, amount, message string) (*chain.TransactionResult, error) {
	raw, err := chain.ParseDecimalAmount(amount, chain.WLDDecimals)
	if err != nil {
		return nil, err
	}

	_, permitReq := c.permitForm(chain.WLDTokenAddress, raw)
	args := []any{PermitTransferPlaceholder, PermitSignaturePlaceholder, message}

	return c.send(ctx, chain.FnTipDeveloper, args, []PermitRequest{permitReq})
}

// CheckTransactionConfirmation probes the portal status of one transaction.
func (c *Client) CheckTransactionConfirmation(ctx context.Context, transactionID, miniAppID string) (bool, error) {
	return c.status.Check(ctx, transactionID, miniAppID)
}

// WaitForTransactionConfirmation polls the portal until the transaction is
// mined, fails, or the retry budget runs out.
func (c *Client) WaitForTransactionConfirmation(ctx context.Context, transactionID, miniAppID string, opts *chain.ConfirmOptions) error {
	return chain.WaitForConfirmation(ctx, func(ctx context.Context) (bool, error) {
		return c.status.Check(ctx, transactionID, miniAppID)
	}, opts)
}

var _ chain.Backend = (*Client)(nil)
