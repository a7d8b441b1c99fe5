package walletext

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/chain/contract"
	"github.com/scallionlabs/manor/internal/chain/permit2"
	"github.com/scallionlabs/manor/internal/chain/rpc"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// MiniAppID labels transactions submitted by this backend so the
// confirmation path knows not to ask the portal about them.
const MiniAppID = "walletext"

// txGasLimit is the fixed gas limit for manor contract calls. The contract's
// entry points are bounded, so a fixed limit avoids an estimate round trip.
const txGasLimit = 500_000

// PassphraseFunc supplies the keyfile passphrase at login time, typically
// by prompting the user.
type PassphraseFunc func(ctx context.Context) (string, error)

// Client implements the backend contract with a locally held key. It packs
// calldata, signs permits and transactions itself, and submits raw
// transactions over JSON-RPC.
type Client struct {
	rpc        *rpc.Client
	network    chain.Network
	reader     *contract.Reader
	keyfile    string
	passphrase PassphraseFunc
	permits    *permit2.Builder

	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	signer  *permit2.KeySigner
	address string
}

// NewClient creates the extension backend on the given network. A zero
// network means Worldchain mainnet. The keyfile stays encrypted until Login.
func NewClient(rpcClient *rpc.Client, network chain.Network, keyfile string, passphrase PassphraseFunc) *Client {
	network = network.OrDefault()
	return &Client{
		rpc:        rpcClient,
		network:    network,
		reader:     contract.NewReader(rpcClient, network),
		keyfile:    keyfile,
		passphrase: passphrase,
		permits:    permit2.NewBuilder(common.HexToAddress(network.Permit2), network.ChainID),
	}
}

// Name returns the backend variant name.
func (c *Client) Name() string { return "walletext" }

// IsValid reports whether a keyfile is present. Presence is the probe; the
// passphrase is not requested until login.
func (c *Client) IsValid() bool { return KeyfileExists(c.keyfile) }

// Login prompts for the passphrase, decrypts the keyfile, and keeps the
// derived account key in memory for the session. The node is checked
// against the configured chain before any transaction is signed for it.
func (c *Client) Login(ctx context.Context) (string, error) {
	if c.passphrase == nil {
		return "", manorerr.ErrAuth
	}

	pass, err := c.passphrase(ctx)
	if err != nil {
		return "", err
	}

	key, err := LoadKey(c.keyfile, pass)
	if err != nil {
		return "", err
	}

	nodeID, err := c.rpc.ChainID(ctx)
	if err != nil {
		zeroKey(key)
		return "", err
	}
	if nodeID.Int64() != c.network.ChainID {
		zeroKey(key)
		return "", manorerr.WithDetails(manorerr.ErrConfigInvalid, map[string]string{
			"expected_chain_id": big.NewInt(c.network.ChainID).String(),
			"node_chain_id":     nodeID.String(),
		})
	}

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	c.mu.Lock()
	if c.key != nil {
		zeroKey(c.key)
	}
	c.key = key
	c.signer = permit2.NewKeySigner(key)
	c.address = address
	c.mu.Unlock()

	return address, nil
}

// Close zeroes the session key.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key != nil {
		zeroKey(c.key)
		c.key = nil
		c.signer = nil
		c.address = ""
	}
}

func (c *Client) session() (*ecdsa.PrivateKey, *permit2.KeySigner, string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.key == nil {
		return nil, nil, "", manorerr.ErrNotLoggedIn
	}
	return c.key, c.signer, c.address, nil
}

// GetUserInfo reads the account's balance for every supported token.
func (c *Client) GetUserInfo(ctx context.Context) ([]chain.UserToken, error) {
	_, _, addr, err := c.session()
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

// signedPermit builds and signs a Permit2 authorization for the manor
// contract as spender.
func (c *Client) signedPermit(token string, amount *big.Int) (permit2.Authorization, error) {
	_, signer, _, err := c.session()
	if err != nil {
		return permit2.Authorization{}, err
	}
	return c.permits.Build(signer, common.HexToAddress(token), amount, common.HexToAddress(c.network.Contract))
}

// send packs fn(args) into a signed transaction and submits it.
func (c *Client) send(ctx context.Context, fn string, args ...any) (*chain.TransactionResult, error) {
	key, _, addr, err := c.session()
	if err != nil {
		return nil, err
	}

	data, err := chain.ManorABI().Pack(fn, args...)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrInvalidInput, "packing "+fn)
	}

	nonce, err := c.rpc.GetTransactionCount(ctx, addr, "pending")
	if err != nil {
		return nil, err
	}

	gasPrice, err := c.rpc.GasPrice(ctx)
	if err != nil {
		return nil, err
	}

	to := common.HexToAddress(c.network.Contract)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      txGasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signer := types.LatestSignerForChainID(big.NewInt(c.network.ChainID))
	signedTx, err := types.SignTx(tx, signer, key)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "signing transaction")
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "encoding transaction")
	}

	hash, err := c.rpc.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, err
	}

	return &chain.TransactionResult{
		TransactionID: hash,
		MiniAppID:     MiniAppID,
	}, nil
}

// PurchaseManorAccess buys access at the current on-chain price, paid in
// WLD through a locally signed permit.
func (c *Client) PurchaseManorAccess(ctx context.Context) (*chain.TransactionResult, error) {
	price, err := c.reader.AccessPriceRaw(ctx)
	if err != nil {
		return nil, err
	}

	auth, err := c.signedPermit(chain.WLDTokenAddress, price)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, chain.FnPurchaseManorAccess, auth.Permit, auth.Signature)
}

// DepositWBTC locks the given WBTC amount for lockPeriodSeconds.
func (c *Client) DepositWBTC(ctx context.Context, amount string, lockPeriodSeconds int64) (*chain.TransactionResult, error) {
	raw, err := chain.ParseDecimalAmount(amount, chain.WBTCDecimals)
	if err != nil {
		return nil, err
	}

	auth, err := c.signedPermit(chain.WBTCTokenAddress, raw)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, chain.FnDepositWBTC, big.NewInt(lockPeriodSeconds), auth.Permit, auth.Signature)
}

// WithdrawWBTC withdraws the caller's unlocked balance.
func (c *Client) WithdrawWBTC(ctx context.Context) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnWithdrawWBTC)
}

// InheritWBTC claims an inheritance from the given manor owner.
func (c *Client) InheritWBTC(ctx context.Context, manorOwner string) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnInheritWBTC, common.HexToAddress(manorOwner))
}

// SetInheritors replaces an inheritor list. The force-change fee is charged
// only when opts.ForceChange is set; otherwise a zero-amount permit rides
// along to satisfy the entry point's signature.
func (c *Client) SetInheritors(ctx context.Context, inheritors []string, opts chain.SetInheritorsOptions) (*chain.TransactionResult, error) {
	fee := big.NewInt(0)
	if opts.ForceChange {
		raw, err := c.reader.ForceChangeFeeRaw(ctx)
		if err != nil {
			return nil, err
		}
		fee = raw
	}

	auth, err := c.signedPermit(chain.WLDTokenAddress, fee)
	if err != nil {
		return nil, err
	}

	list := make([]common.Address, len(inheritors))
	for i, addr := range inheritors {
		list[i] = common.HexToAddress(addr)
	}

	if opts.ManorOwner != "" {
		return c.send(ctx, chain.FnMaintainInheritors,
			common.HexToAddress(opts.ManorOwner), list, opts.ForceChange, auth.Permit, auth.Signature)
	}
	return c.send(ctx, chain.FnSetInheritors, list, opts.ForceChange, auth.Permit, auth.Signature)
}

// RenameManor sets the caller's manor display name.
func (c *Client) RenameManor(ctx context.Context, name string) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnSetManorName, name)
}

// RefreshActivity bumps the caller's last-active timestamp.
func (c *Client) RefreshActivity(ctx context.Context) (*chain.TransactionResult, error) {
	return c.send(ctx, chain.FnRefreshActivity)
}

// TipDeveloper sends a WLD tip with a message.
func (c *Client) TipDeveloper(ctx context.Context, amount, message string) (*chain.TransactionResult, error) {
	raw, err := chain.ParseDecimalAmount(amount, chain.WLDDecimals)
	if err != nil {
		return nil, err
	}

	auth, err := c.signedPermit(chain.WLDTokenAddress, raw)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, chain.FnTipDeveloper, auth.Permit, auth.Signature, message)
}

// CheckTransactionConfirmation probes the receipt of one transaction. A
// missing receipt, whether a null result or a not-found error reply, means
// still pending; receipt status zero is a confirmed on-chain failure.
func (c *Client) CheckTransactionConfirmation(ctx context.Context, transactionID, _ string) (bool, error) {
	receipt, err := c.rpc.TransactionReceipt(ctx, transactionID)
	if err != nil {
		if manorerr.Is(err, rpc.ErrReceiptNotFound) {
			return false, nil
		}
		return false, err
	}
	if receipt == nil {
		return false, nil
	}
	if receipt.Status == 0 {
		return false, manorerr.WithDetails(manorerr.ErrTransactionFailed, map[string]string{
			"transaction_id": transactionID,
		})
	}
	return true, nil
}

// WaitForTransactionConfirmation polls the receipt until mined, failed, or
// the retry budget runs out.
func (c *Client) WaitForTransactionConfirmation(ctx context.Context, transactionID, miniAppID string, opts *chain.ConfirmOptions) error {
	return chain.WaitForConfirmation(ctx, func(ctx context.Context) (bool, error) {
		return c.CheckTransactionConfirmation(ctx, transactionID, miniAppID)
	}, opts)
}

var _ chain.Backend = (*Client)(nil)
