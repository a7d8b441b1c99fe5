package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// stubBackend implements only the probe surface; selection never calls
// anything else.
type stubBackend struct {
	Backend

	name  string
	valid bool
}

func (s *stubBackend) Name() string  { return s.name }
func (s *stubBackend) IsValid() bool { return s.valid }

func TestNewSelector_MockSignalWins(t *testing.T) {
	mock := &stubBackend{name: "mock", valid: true}
	worldapp := &stubBackend{name: "worldapp", valid: true}

	sel := NewSelector(SelectorOptions{
		MockSignal: true,
		Mock:       mock,
		Candidates: []Candidate{
			{Selection: SelectionWorldApp, Backend: worldapp},
		},
	})

	assert.Equal(t, SelectionMock, sel.Selection())
	backend, ok := sel.Backend()
	require.True(t, ok)
	assert.Equal(t, "mock", backend.Name())
}

func TestNewSelector_FirstValidCandidateWins(t *testing.T) {
	worldapp := &stubBackend{name: "worldapp", valid: false}
	walletext := &stubBackend{name: "walletext", valid: true}

	sel := NewSelector(SelectorOptions{
		Candidates: []Candidate{
			{Selection: SelectionWorldApp, Backend: worldapp},
			{Selection: SelectionWalletExt, Backend: walletext},
		},
	})

	assert.Equal(t, SelectionWalletExt, sel.Selection())
	backend, err := sel.Require()
	require.NoError(t, err)
	assert.Equal(t, "walletext", backend.Name())
}

func TestNewSelector_PriorityOrder(t *testing.T) {
	worldapp := &stubBackend{name: "worldapp", valid: true}
	walletext := &stubBackend{name: "walletext", valid: true}

	sel := NewSelector(SelectorOptions{
		Candidates: []Candidate{
			{Selection: SelectionWorldApp, Backend: worldapp},
			{Selection: SelectionWalletExt, Backend: walletext},
		},
	})

	assert.Equal(t, SelectionWorldApp, sel.Selection())
}

func TestNewSelector_NoneWhenNothingValid(t *testing.T) {
	sel := NewSelector(SelectorOptions{
		Candidates: []Candidate{
			{Selection: SelectionWorldApp, Backend: &stubBackend{name: "worldapp"}},
		},
	})

	assert.Equal(t, SelectionNone, sel.Selection())

	_, ok := sel.Backend()
	assert.False(t, ok)

	_, err := sel.Require()
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrNoBackend))
}

func TestNewSelector_InstallBridgeFailureIsNotFatal(t *testing.T) {
	installed := false
	walletext := &stubBackend{name: "walletext", valid: true}

	sel := NewSelector(SelectorOptions{
		InstallBridge: func() error {
			installed = true
			return manorerr.ErrBridgeUnavailable
		},
		Candidates: []Candidate{
			{Selection: SelectionWalletExt, Backend: walletext},
		},
	})

	assert.True(t, installed)
	assert.Equal(t, SelectionWalletExt, sel.Selection())
}

func TestNewSelector_MockSignalSkipsBridgeInstall(t *testing.T) {
	installed := false

	sel := NewSelector(SelectorOptions{
		MockSignal:    true,
		Mock:          &stubBackend{name: "mock", valid: true},
		InstallBridge: func() error { installed = true; return nil },
	})

	assert.False(t, installed)
	assert.Equal(t, SelectionMock, sel.Selection())
}
