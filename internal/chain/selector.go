package chain

import (
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Selection identifies which backend variant was chosen at startup.
type Selection string

// Terminal selection states, reached exactly once per process lifetime.
const (
	SelectionNone      Selection = "none"
	SelectionWorldApp  Selection = "worldapp"
	SelectionWalletExt Selection = "walletext"
	SelectionMock      Selection = "mock"
)

// Candidate pairs a backend with its selection label. Candidates are
// registered by the caller in probe priority order; the chain package
// cannot import the backend packages directly (they import chain), so the
// wiring happens in the CLI layer.
type Candidate struct {
	Selection Selection
	Backend   Backend
}

// SelectorOptions configures backend selection.
type SelectorOptions struct {
	// MockSignal forces the mock backend regardless of other candidates'
	// validity. Detected from the environment once at startup.
	MockSignal bool

	// Mock is the backend used when MockSignal is set.
	Mock Backend

	// InstallBridge installs the in-app wallet bridge before the candidates
	// are probed. An install failure is not fatal; the probe simply fails.
	InstallBridge func() error

	// Candidates are probed in order; the first valid one is selected.
	Candidates []Candidate
}

// Selector holds the process-wide backend selection. It is constructed once
// at startup and immutable afterward; consumers receive it by injection.
type Selector struct {
	selection Selection
	backend   Backend
}

// NewSelector evaluates the selection rule exactly once and returns the
// resulting selector. Environment changes after this point are not observed.
func NewSelector(opts SelectorOptions) *Selector {
	if opts.MockSignal && opts.Mock != nil {
		return &Selector{selection: SelectionMock, backend: opts.Mock}
	}

	if opts.InstallBridge != nil {
		// Best effort; an unreachable bridge just fails the IsValid probe.
		_ = opts.InstallBridge()
	}

	for _, c := range opts.Candidates {
		if c.Backend != nil && c.Backend.IsValid() {
			return &Selector{selection: c.Selection, backend: c.Backend}
		}
	}

	return &Selector{selection: SelectionNone}
}

// Selection returns the terminal selection state.
func (s *Selector) Selection() Selection {
	return s.selection
}

// Backend returns the active backend, or false when no wallet environment
// was detected.
func (s *Selector) Backend() (Backend, bool) {
	if s.backend == nil {
		return nil, false
	}
	return s.backend, true
}

// Require returns the active backend or ErrNoBackend.
func (s *Selector) Require() (Backend, error) {
	if s.backend == nil {
		return nil, manorerr.ErrNoBackend
	}
	return s.backend, nil
}
