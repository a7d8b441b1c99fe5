// Package contract provides the read-only view of the manor contract over
// JSON-RPC. Both wallet backends read the chain the same way; only their
// write paths differ.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/chain/rpc"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Reader performs eth_call reads against the manor contract and the
// network's tracked ERC-20 tokens.
type Reader struct {
	rpc      *rpc.Client
	contract string
	tokens   []chain.Token
}

// NewReader creates a reader on top of an RPC client. A zero network means
// Worldchain mainnet.
func NewReader(rpcClient *rpc.Client, network chain.Network) *Reader {
	network = network.OrDefault()
	return &Reader{
		rpc:      rpcClient,
		contract: network.Contract,
		tokens:   network.Tokens,
	}
}

// Call packs fn(args), eth_calls the manor contract, and unpacks the
// result values.
func (r *Reader) Call(ctx context.Context, fn string, args ...any) ([]any, error) {
	contractABI := chain.ManorABI()

	data, err := contractABI.Pack(fn, args...)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrInvalidInput, "packing "+fn)
	}

	out, err := r.rpc.EthCall(ctx, rpc.CallMsg{To: r.contract, Data: data}, "")
	if err != nil {
		return nil, err
	}

	vals, err := contractABI.Unpack(fn, out)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrNetwork, "decoding "+fn+" result")
	}
	return vals, nil
}

// ManorInfo reads the full custody record for an address. The record,
// withdrawer, and activity flag live behind separate entry points and are
// fetched concurrently.
func (r *Reader) ManorInfo(ctx context.Context, address string) (*chain.ManorInfo, error) {
	user := common.HexToAddress(address)
	info := &chain.ManorInfo{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		vals, err := r.Call(gctx, chain.FnGetManorInfo, user)
		if err != nil {
			return err
		}

		hasAccess, _ := vals[0].(bool)
		balance, _ := vals[1].(*big.Int)
		unlockTime, _ := vals[2].(*big.Int)
		lastActive, _ := vals[3].(*big.Int)
		inheritors, _ := vals[4].([]common.Address)
		name, _ := vals[5].(string)

		info.HasAccess = hasAccess
		info.WbtcBalance = chain.FormatDecimalAmount(balance, chain.WBTCDecimals)
		if unlockTime != nil {
			info.UnlockTime = unlockTime.Int64()
		}
		if lastActive != nil {
			info.LastActiveTime = lastActive.Int64()
		}
		info.Inheritors = make([]string, len(inheritors))
		for i, a := range inheritors {
			info.Inheritors[i] = a.Hex()
		}
		info.Name = name
		return nil
	})

	g.Go(func() error {
		vals, err := r.Call(gctx, chain.FnGetWithdrawer, user)
		if err != nil {
			return err
		}
		withdrawer, _ := vals[0].(common.Address)
		info.Withdrawer = withdrawer.Hex()
		return nil
	})

	g.Go(func() error {
		vals, err := r.Call(gctx, chain.FnIsUserActive, user)
		if err != nil {
			return err
		}
		active, _ := vals[0].(bool)
		info.IsActive = active
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return info, nil
}

// uint256 reads a single uint256-returning view function.
func (r *Reader) uint256(ctx context.Context, fn string) (*big.Int, error) {
	vals, err := r.Call(ctx, fn)
	if err != nil {
		return nil, err
	}
	raw, ok := vals[0].(*big.Int)
	if !ok {
		return nil, manorerr.ErrNetwork
	}
	return raw, nil
}

// AccessPriceRaw returns the access price in WLD base units.
func (r *Reader) AccessPriceRaw(ctx context.Context) (*big.Int, error) {
	return r.uint256(ctx, chain.FnManorAccessPrice)
}

// ForceChangeFeeRaw returns the force-change fee in WLD base units.
func (r *Reader) ForceChangeFeeRaw(ctx context.Context) (*big.Int, error) {
	return r.uint256(ctx, chain.FnForceChangeFee)
}

// ERC20Balance reads one token balance in base units.
func (r *Reader) ERC20Balance(ctx context.Context, tokenAddr, owner string) (*big.Int, error) {
	erc20 := chain.ERC20ABI()

	data, err := erc20.Pack("balanceOf", common.HexToAddress(owner))
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrInvalidInput, "packing balanceOf")
	}

	out, err := r.rpc.EthCall(ctx, rpc.CallMsg{To: tokenAddr, Data: data}, "")
	if err != nil {
		return nil, err
	}

	vals, err := erc20.Unpack("balanceOf", out)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrNetwork, "decoding balanceOf result")
	}

	balance, ok := vals[0].(*big.Int)
	if !ok {
		return nil, manorerr.ErrNetwork
	}
	return balance, nil
}

// UserTokens reads the owner's balance for every tracked token
// concurrently and formats each in the token's precision.
func (r *Reader) UserTokens(ctx context.Context, owner string) ([]chain.UserToken, error) {
	balances := make([]chain.UserToken, len(r.tokens))

	g, gctx := errgroup.WithContext(ctx)
	for i, token := range r.tokens {
		g.Go(func() error {
			raw, err := r.ERC20Balance(gctx, token.Address, owner)
			if err != nil {
				return err
			}
			balances[i] = chain.UserToken{
				Token:  token.Address,
				Amount: chain.FormatDecimalAmount(raw, token.Decimals),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return balances, nil
}
