// Package tracker holds the process-wide pending transaction slot. The
// contract serializes a user's mutating operations, so at most one
// submitted-but-unconfirmed transaction exists at a time.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/scallionlabs/manor/internal/chain"
)

// Tracker is a single-slot pending transaction holder, safe for concurrent
// use.
type Tracker struct {
	mu      sync.Mutex
	pending *chain.PendingTransaction
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{}
}

// Set records a newly submitted transaction, replacing any previous entry
// unconditionally.
func (t *Tracker) Set(result chain.TransactionResult, functionName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = &chain.PendingTransaction{
		TransactionID: result.TransactionID,
		MiniAppID:     result.MiniAppID,
		Timestamp:     time.Now(),
		FunctionName:  functionName,
	}
}

// Pending returns the current slot contents.
func (t *Tracker) Pending() (chain.PendingTransaction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return chain.PendingTransaction{}, false
	}
	return *t.pending, true
}

// Clear empties the slot.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
}

// CheckAndWaitForPending waits for the tracked transaction to confirm. The
// slot is cleared on every outcome, including failure and timeout; a stuck
// transaction must not block the next operation forever. An empty slot
// returns nil immediately.
func (t *Tracker) CheckAndWaitForPending(ctx context.Context, confirmer chain.Confirmer, opts *chain.ConfirmOptions) error {
	pending, ok := t.Pending()
	if !ok {
		return nil
	}

	defer t.Clear()

	return confirmer.WaitForTransactionConfirmation(ctx, pending.TransactionID, pending.MiniAppID, opts)
}
