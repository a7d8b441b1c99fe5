package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/scallionlabs/manor/internal/metrics"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Confirmation polling defaults.
const (
	// DefaultConfirmMaxRetries is the number of confirmation probes before
	// giving up.
	DefaultConfirmMaxRetries = 10

	// DefaultConfirmInterval is the fixed delay between probes.
	DefaultConfirmInterval = time.Second
)

// ConfirmOptions configures the confirmation polling loop.
type ConfirmOptions struct {
	MaxRetries int           // Maximum number of probes (including the first)
	Interval   time.Duration // Fixed delay between probes
}

// DefaultConfirmOptions returns the default polling configuration:
// 10 probes, 1 second apart.
func DefaultConfirmOptions() ConfirmOptions {
	return ConfirmOptions{
		MaxRetries: DefaultConfirmMaxRetries,
		Interval:   DefaultConfirmInterval,
	}
}

func (o *ConfirmOptions) withDefaults() ConfirmOptions {
	cfg := DefaultConfirmOptions()
	if o == nil {
		return cfg
	}
	if o.MaxRetries > 0 {
		cfg.MaxRetries = o.MaxRetries
	}
	if o.Interval > 0 {
		cfg.Interval = o.Interval
	}
	return cfg
}

// ConfirmProbe is a single non-blocking finality check. It returns true when
// the transaction is confirmed, false while it is still pending, and an error
// (ErrTransactionFailed) on a confirmed failure.
type ConfirmProbe func(ctx context.Context) (bool, error)

// WaitForConfirmation polls the probe up to MaxRetries times with a fixed
// interval between probes. The probe runs strictly sequentially; there is no
// backoff and no delay after the final probe or after a confirmed result.
// A probe error propagates immediately without further probing. If every
// probe reports pending, ErrConfirmationTimeout is returned.
func WaitForConfirmation(ctx context.Context, probe ConfirmProbe, opts *ConfirmOptions) error {
	cfg := opts.withDefaults()

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		metrics.Global.RecordConfirmProbe()
		confirmed, err := probe(ctx)
		if err != nil {
			return err
		}
		if confirmed {
			return nil
		}

		if attempt < cfg.MaxRetries-1 {
			timer := time.NewTimer(cfg.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return manorerr.WithDetails(manorerr.ErrConfirmationTimeout, map[string]string{
		"retries": fmt.Sprintf("%d", cfg.MaxRetries),
	})
}
