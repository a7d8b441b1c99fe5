// Package mock provides an in-memory backend for development and tests.
// It honors the full backend contract against local state, with scriptable
// latency and failure behavior.
package mock

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/scallionlabs/manor/internal/chain"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// MiniAppID labels transactions produced by the mock backend.
const MiniAppID = "mock"

// DefaultAddress is the mock wallet address.
const DefaultAddress = "0x1111111111111111111111111111111111111111"

// Options configures mock behavior. The zero value is a well-behaved
// backend with no latency.
type Options struct {
	// Address overrides DefaultAddress.
	Address string

	// Latency is added to every operation.
	Latency time.Duration

	// DeclineTransactions makes every write fail with ErrUserRejected.
	DeclineTransactions bool

	// FailTransactions makes every submitted transaction report a
	// confirmed on-chain failure.
	FailTransactions bool

	// PendingProbes is how many confirmation probes report pending before
	// a transaction is considered mined.
	PendingProbes int

	// Now overrides the clock.
	Now func() time.Time
}

// Backend is the mock implementation of the backend contract.
type Backend struct {
	opts Options

	mu       sync.Mutex
	loggedIn bool
	txSeq    int
	probes   map[string]int // remaining pending probes per transaction

	// scripted chain state
	manor          chain.ManorInfo
	accessPrice    string
	forceChangeFee string
	balances       []chain.UserToken
}

// New creates a mock backend.
func New(opts Options) *Backend {
	if opts.Address == "" {
		opts.Address = DefaultAddress
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Backend{
		opts:   opts,
		probes: make(map[string]int),
		manor: chain.ManorInfo{
			WbtcBalance: "0",
			Inheritors:  []string{},
			IsActive:    true,
		},
		accessPrice:    "5",
		forceChangeFee: "10",
		balances: []chain.UserToken{
			{Token: chain.WLDTokenAddress, Amount: "100"},
			{Token: chain.WBTCTokenAddress, Amount: "1"},
		},
	}
}

// SetManorInfo replaces the scripted custody record.
func (b *Backend) SetManorInfo(info chain.ManorInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.manor = info
}

// SetBalances replaces the scripted wallet balances.
func (b *Backend) SetBalances(balances []chain.UserToken) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances = balances
}

// sleep applies the configured latency, honoring cancellation.
func (b *Backend) sleep(ctx context.Context) error {
	if b.opts.Latency <= 0 {
		return nil
	}
	timer := time.NewTimer(b.opts.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Name returns the backend variant name.
func (b *Backend) Name() string { return "mock" }

// IsValid always reports true; the mock environment is always present.
func (b *Backend) IsValid() bool { return true }

// Login succeeds with the configured address.
func (b *Backend) Login(ctx context.Context) (string, error) {
	if err := b.sleep(ctx); err != nil {
		return "", err
	}
	b.mu.Lock()
	b.loggedIn = true
	b.mu.Unlock()
	return b.opts.Address, nil
}

// GetUserInfo returns the scripted balances.
func (b *Backend) GetUserInfo(ctx context.Context) ([]chain.UserToken, error) {
	if err := b.sleep(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.loggedIn {
		return nil, manorerr.ErrNotLoggedIn
	}
	out := make([]chain.UserToken, len(b.balances))
	copy(out, b.balances)
	return out, nil
}

// GetManorInfo returns a copy of the current custody record.
func (b *Backend) GetManorInfo(ctx context.Context, _ string) (*chain.ManorInfo, error) {
	if err := b.sleep(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	info := b.manor
	info.Inheritors = append([]string(nil), b.manor.Inheritors...)
	return &info, nil
}

// GetManorAccessPrice returns the scripted access price.
func (b *Backend) GetManorAccessPrice(ctx context.Context) (string, error) {
	if err := b.sleep(ctx); err != nil {
		return "", err
	}
	return b.accessPrice, nil
}

// GetForceChangeFee returns the scripted force-change fee.
func (b *Backend) GetForceChangeFee(ctx context.Context) (string, error) {
	if err := b.sleep(ctx); err != nil {
		return "", err
	}
	return b.forceChangeFee, nil
}

// submit runs the shared write path: latency, decline handling, then the
// state mutation under the lock.
func (b *Backend) submit(ctx context.Context, mutate func()) (*chain.TransactionResult, error) {
	if err := b.sleep(ctx); err != nil {
		return nil, err
	}

	if b.opts.DeclineTransactions {
		return nil, manorerr.ErrUserRejected
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loggedIn {
		return nil, manorerr.ErrNotLoggedIn
	}

	if mutate != nil {
		mutate()
	}

	b.txSeq++
	txID := fmt.Sprintf("mock-tx-%d", b.txSeq)
	b.probes[txID] = b.opts.PendingProbes

	return &chain.TransactionResult{
		TransactionID: txID,
		MiniAppID:     MiniAppID,
	}, nil
}

// PurchaseManorAccess grants access.
func (b *Backend) PurchaseManorAccess(ctx context.Context) (*chain.TransactionResult, error) {
	return b.submit(ctx, func() {
		b.manor.HasAccess = true
	})
}

// DepositWBTC adds to the locked balance and extends the unlock time.
func (b *Backend) DepositWBTC(ctx context.Context, amount string, lockPeriodSeconds int64) (*chain.TransactionResult, error) {
	raw, err := chain.ParseDecimalAmount(amount, chain.WBTCDecimals)
	if err != nil {
		return nil, err
	}

	return b.submit(ctx, func() {
		current, _ := chain.ParseDecimalAmount(b.manor.WbtcBalance, chain.WBTCDecimals)
		if current == nil {
			current = big.NewInt(0)
		}
		b.manor.WbtcBalance = chain.FormatDecimalAmount(new(big.Int).Add(current, raw), chain.WBTCDecimals)
		b.manor.UnlockTime = b.opts.Now().Unix() + lockPeriodSeconds
	})
}

// WithdrawWBTC drains the balance.
func (b *Backend) WithdrawWBTC(ctx context.Context) (*chain.TransactionResult, error) {
	return b.submit(ctx, func() {
		b.manor.WbtcBalance = "0"
		b.manor.UnlockTime = 0
	})
}

// InheritWBTC claims an inheritance; the mock just records activity.
func (b *Backend) InheritWBTC(ctx context.Context, _ string) (*chain.TransactionResult, error) {
	return b.submit(ctx, func() {
		b.manor.LastActiveTime = b.opts.Now().Unix()
	})
}

// SetInheritors replaces the inheritor list.
func (b *Backend) SetInheritors(ctx context.Context, inheritors []string, _ chain.SetInheritorsOptions) (*chain.TransactionResult, error) {
	return b.submit(ctx, func() {
		b.manor.Inheritors = append([]string(nil), inheritors...)
	})
}

// RenameManor sets the display name.
func (b *Backend) RenameManor(ctx context.Context, name string) (*chain.TransactionResult, error) {
	return b.submit(ctx, func() {
		b.manor.Name = name
	})
}

// RefreshActivity bumps the last-active timestamp.
func (b *Backend) RefreshActivity(ctx context.Context) (*chain.TransactionResult, error) {
	return b.submit(ctx, func() {
		b.manor.LastActiveTime = b.opts.Now().Unix()
	})
}

// TipDeveloper accepts any tip.
func (b *Backend) TipDeveloper(ctx context.Context, amount, _ string) (*chain.TransactionResult, error) {
	if _, err := chain.ParseDecimalAmount(amount, chain.WLDDecimals); err != nil {
		return nil, err
	}
	return b.submit(ctx, nil)
}

// CheckTransactionConfirmation reports pending for the configured number of
// probes, then mined, or a confirmed failure when FailTransactions is set.
// Ids this backend never issued stay pending, matching a node that has not
// seen the transaction yet.
func (b *Backend) CheckTransactionConfirmation(ctx context.Context, transactionID, _ string) (bool, error) {
	if err := b.sleep(ctx); err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	remaining, ok := b.probes[transactionID]
	if !ok {
		return false, nil
	}

	if remaining > 0 {
		b.probes[transactionID] = remaining - 1
		return false, nil
	}

	if b.opts.FailTransactions {
		return false, manorerr.WithDetails(manorerr.ErrTransactionFailed, map[string]string{
			"transaction_id": transactionID,
		})
	}
	return true, nil
}

// WaitForTransactionConfirmation polls CheckTransactionConfirmation.
func (b *Backend) WaitForTransactionConfirmation(ctx context.Context, transactionID, miniAppID string, opts *chain.ConfirmOptions) error {
	return chain.WaitForConfirmation(ctx, func(ctx context.Context) (bool, error) {
		return b.CheckTransactionConfirmation(ctx, transactionID, miniAppID)
	}, opts)
}

var _ chain.Backend = (*Backend)(nil)
