package chain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

func fastOptions(maxRetries int) *ConfirmOptions {
	return &ConfirmOptions{MaxRetries: maxRetries, Interval: time.Millisecond}
}

func TestWaitForConfirmation_ConfirmsAfterPendingProbes(t *testing.T) {
	calls := 0
	probe := func(_ context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	}

	err := WaitForConfirmation(context.Background(), probe, fastOptions(10))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitForConfirmation_ImmediateSuccessSkipsSleep(t *testing.T) {
	probe := func(_ context.Context) (bool, error) { return true, nil }

	// A generous interval would show up in elapsed time if the loop
	// slept after a confirmed probe.
	start := time.Now()
	err := WaitForConfirmation(context.Background(), probe, &ConfirmOptions{
		MaxRetries: 5,
		Interval:   time.Second,
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitForConfirmation_TimeoutAfterMaxRetries(t *testing.T) {
	calls := 0
	probe := func(_ context.Context) (bool, error) {
		calls++
		return false, nil
	}

	err := WaitForConfirmation(context.Background(), probe, fastOptions(4))
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrConfirmationTimeout))
	assert.Equal(t, 4, calls)
}

func TestWaitForConfirmation_NoSleepAfterFinalProbe(t *testing.T) {
	probe := func(_ context.Context) (bool, error) { return false, nil }

	start := time.Now()
	err := WaitForConfirmation(context.Background(), probe, &ConfirmOptions{
		MaxRetries: 1,
		Interval:   time.Second,
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitForConfirmation_ErrorPropagatesImmediately(t *testing.T) {
	calls := 0
	probe := func(_ context.Context) (bool, error) {
		calls++
		return false, manorerr.ErrTransactionFailed
	}

	err := WaitForConfirmation(context.Background(), probe, fastOptions(10))
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrTransactionFailed))
	assert.Equal(t, 1, calls)
}

func TestWaitForConfirmation_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	probe := func(_ context.Context) (bool, error) {
		cancel()
		return false, nil
	}

	err := WaitForConfirmation(ctx, probe, &ConfirmOptions{
		MaxRetries: 10,
		Interval:   10 * time.Second,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForConfirmation_NilOptionsUseDefaults(t *testing.T) {
	probe := func(_ context.Context) (bool, error) { return true, nil }
	require.NoError(t, WaitForConfirmation(context.Background(), probe, nil))
}

func TestDefaultConfirmOptions(t *testing.T) {
	opts := DefaultConfirmOptions()
	assert.Equal(t, 10, opts.MaxRetries)
	assert.Equal(t, time.Second, opts.Interval)
}
