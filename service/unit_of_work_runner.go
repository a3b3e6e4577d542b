package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"
)

// TxPolicy bounds every unit of work a service runs
type TxPolicy struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultTxPolicy matches the configuration defaults
var DefaultTxPolicy = TxPolicy{
	Timeout:     5 * time.Second,
	MaxAttempts: 3,
	BaseDelay:   25 * time.Millisecond,
}

const maxRetryDelay = 800 * time.Millisecond

// runInUnitOfWork runs fn in a fresh unit of work and commits it.
// A unit that loses a race (deadlock, serialization failure or a unique key
// taken concurrently) is restarted from scratch until MaxAttempts is reached;
// the last ErrConflict is returned then.
func runInUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, policy TxPolicy, fn func(ctx context.Context, uow UnitOfWork) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.BaseDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = runOnce(ctx, factory, policy.Timeout, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		log.WithFields(log.Fields{
			"attempt":     attempt,
			"maxAttempts": attempts,
			"delay":       delay,
			"error":       err,
		}).Warn("Unit of work conflicted, retrying")

		if sleepErr := sleepWithContext(ctx, withJitter(delay)); sleepErr != nil {
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, sleepErr)
		}
		if delay < maxRetryDelay {
			delay *= 2
		}
	}
	return err
}

func runOnce(ctx context.Context, factory UnitOfWorkFactory, timeout time.Duration, fn func(ctx context.Context, uow UnitOfWork) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := fn(ctx, uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// withJitter spreads colliding retries over [d, 1.5d]
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + rand.N(d/2+1)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
