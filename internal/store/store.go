// Package store holds client-side session state: the authenticated user,
// the cached custody record, and the pending transaction slot. It is the
// layer the CLI commands talk to.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/scallionlabs/manor/internal/chain"
	"github.com/scallionlabs/manor/internal/metrics"
	"github.com/scallionlabs/manor/internal/tracker"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Store is the session state holder. All methods are safe for concurrent
// use; snapshots are returned by value.
type Store struct {
	backend chain.Backend
	tracker *tracker.Tracker

	mu       sync.RWMutex
	address  string
	loggedIn bool
	loading  bool
	manor    *chain.ManorInfo
	tokens   []chain.UserToken
	lastErr  error
}

// New creates a store bound to a backend.
func New(backend chain.Backend) *Store {
	return &Store{
		backend: backend,
		tracker: tracker.New(),
	}
}

// Tracker exposes the pending transaction slot.
func (s *Store) Tracker() *tracker.Tracker {
	return s.tracker
}

// Backend returns the backend this store is bound to.
func (s *Store) Backend() chain.Backend {
	return s.backend
}

// Address returns the authenticated address, empty before login.
func (s *Store) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

// LoggedIn reports whether a login has completed.
func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the most recent fetch error, nil after a clean fetch.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ManorInfo returns the cached custody record, which may be stale if the
// last fetch failed.
func (s *Store) ManorInfo() (chain.ManorInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.manor == nil {
		return chain.ManorInfo{}, false
	}
	return *s.manor, true
}

// Tokens returns the cached wallet balances.
func (s *Store) Tokens() []chain.UserToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chain.UserToken(nil), s.tokens...)
}

// Login authenticates and then attempts the initial data fetch. The
// logged-in flag flips only after the fetch attempt completes; a fetch
// failure still counts as logged in, with the error recorded for display.
func (s *Store) Login(ctx context.Context) (string, error) {
	address, err := s.backend.Login(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.address = address
	s.mu.Unlock()

	// The fetch outcome is recorded in lastErr; login itself has succeeded
	// either way.
	_ = s.Refresh(ctx)

	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()

	return address, nil
}

// Logout clears all session state, including any pending transaction.
func (s *Store) Logout() {
	s.tracker.Clear()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = ""
	s.loggedIn = false
	s.loading = false
	s.manor = nil
	s.tokens = nil
	s.lastErr = nil
}

// Refresh fetches the custody record and wallet balances concurrently. On
// failure the previous cache is kept and the error recorded; the caller
// decides whether stale data is acceptable.
func (s *Store) Refresh(ctx context.Context) error {
	addr := s.Address()
	if addr == "" {
		return manorerr.ErrNotLoggedIn
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var (
		manor  *chain.ManorInfo
		tokens []chain.UserToken
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := s.backend.GetManorInfo(gctx, addr)
		if err != nil {
			return err
		}
		manor = info
		return nil
	})
	g.Go(func() error {
		balances, err := s.backend.GetUserInfo(gctx)
		if err != nil {
			return err
		}
		tokens = balances
		return nil
	})

	err := g.Wait()

	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	if err == nil {
		s.manor = manor
		s.tokens = tokens
	}
	s.mu.Unlock()

	return err
}

// Execute runs one mutating operation end to end: wait out any pending
// transaction, submit, track, wait for confirmation, then refresh the
// cached state. A user decline propagates untouched so callers can treat
// it as benign.
func (s *Store) Execute(ctx context.Context, functionName string, submit func(ctx context.Context) (*chain.TransactionResult, error), opts *chain.ConfirmOptions) error {
	if !s.LoggedIn() {
		return manorerr.ErrNotLoggedIn
	}

	if err := s.tracker.CheckAndWaitForPending(ctx, s.backend, opts); err != nil {
		return err
	}

	result, err := submit(ctx)
	if err != nil {
		if manorerr.IsUserRejected(err) {
			metrics.Global.RecordRejected()
		}
		return err
	}
	if result == nil || result.TransactionID == "" {
		return manorerr.ErrTransactionIDMissing
	}

	s.tracker.Set(*result, functionName)
	metrics.Global.RecordSubmission(s.backend.Name())

	if err := s.tracker.CheckAndWaitForPending(ctx, s.backend, opts); err != nil {
		switch {
		case manorerr.Is(err, manorerr.ErrConfirmationTimeout):
			metrics.Global.RecordConfirmTimeout()
		case manorerr.Is(err, manorerr.ErrTransactionFailed):
			metrics.Global.RecordFailed()
		}
		return err
	}
	metrics.Global.RecordConfirmed()

	// Confirmation succeeded; pick up the new on-chain state. A refresh
	// failure is recorded but does not fail the operation.
	_ = s.Refresh(ctx)

	return nil
}
