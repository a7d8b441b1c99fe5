package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManorError_Error(t *testing.T) {
	err := &ManorError{Code: "TEST", Message: "something broke"}
	assert.Equal(t, "something broke", err.Error())

	withDetails := &ManorError{
		Code:    "TEST",
		Message: "something broke",
		Details: map[string]string{"b": "2", "a": "1"},
	}
	// Details render sorted by key.
	assert.Equal(t, "something broke (a: 1) (b: 2)", withDetails.Error())

	withCause := &ManorError{Code: "TEST", Message: "outer", Cause: stderrors.New("inner")}
	assert.Equal(t, "outer: inner", withCause.Error())
}

func TestManorError_IsMatchesByCode(t *testing.T) {
	err := WithDetails(ErrNetwork, map[string]string{"status": "500"})

	assert.True(t, Is(err, ErrNetwork))
	assert.False(t, Is(err, ErrAuth))
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(cause, ErrNetwork, "fetching balances")

	require.Error(t, err)
	assert.True(t, Is(err, ErrNetwork))
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "fetching balances")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, ErrNetwork.ExitCode, ExitCode(err))
}

func TestWrap_NilPassesThrough(t *testing.T) {
	assert.NoError(t, Wrap(nil, ErrNetwork, "nothing"))
	assert.NoError(t, WithDetails(nil, nil))
	assert.NoError(t, WithSuggestion(nil, "nothing"))
}

func TestWithDetails(t *testing.T) {
	err := WithDetails(ErrTokenNotFound, map[string]string{"symbol": "XYZ"})

	var me *ManorError
	require.True(t, As(err, &me))
	assert.Equal(t, ErrTokenNotFound.Code, me.Code)
	assert.Equal(t, "XYZ", me.Details["symbol"])
	assert.Equal(t, ExitNotFound, me.ExitCode)
}

func TestWithDetails_PlainError(t *testing.T) {
	err := WithDetails(stderrors.New("boom"), map[string]string{"k": "v"})

	var me *ManorError
	require.True(t, As(err, &me))
	assert.Equal(t, "GENERAL_ERROR", me.Code)
	assert.Equal(t, "v", me.Details["k"])
}

func TestWithSuggestion(t *testing.T) {
	err := WithSuggestion(ErrKeyfileNotFound, "run manor wallet init")

	var me *ManorError
	require.True(t, As(err, &me))
	assert.Equal(t, "run manor wallet init", me.Suggestion)
	assert.True(t, Is(err, ErrKeyfileNotFound))
}

func TestIsUserRejected(t *testing.T) {
	assert.True(t, IsUserRejected(ErrUserRejected))
	assert.True(t, IsUserRejected(WithDetails(ErrUserRejected, map[string]string{"via": "bridge"})))
	assert.False(t, IsUserRejected(ErrTransactionFailed))
	assert.False(t, IsUserRejected(nil))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: ExitSuccess},
		{name: "user rejected is benign", err: ErrUserRejected, expected: ExitSuccess},
		{name: "invalid input", err: ErrInvalidAmount, expected: ExitInput},
		{name: "auth", err: ErrNotLoggedIn, expected: ExitAuth},
		{name: "not found", err: ErrKeyfileNotFound, expected: ExitNotFound},
		{name: "plain error", err: stderrors.New("boom"), expected: ExitGeneral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExitCode(tc.err))
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, "NETWORK_ERROR", Code(ErrNetwork))
	assert.Equal(t, "GENERAL_ERROR", Code(stderrors.New("boom")))
}

func TestNew(t *testing.T) {
	err := New("CUSTOM", "custom failure")
	assert.Equal(t, "CUSTOM", err.Code)
	assert.Equal(t, ExitGeneral, err.ExitCode)
	assert.Equal(t, "custom failure", err.Error())
}
