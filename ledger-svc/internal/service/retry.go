package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"overcooked-pos/ledger-svc/internal/domain"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// RetryPolicy bounds how often an atomic unit is re-run after a transient
// store failure. Every attempt starts from scratch in a fresh transaction.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// AttemptTimeout caps a single attempt; zero means only the caller's context applies.
	AttemptTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      5,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		AttemptTimeout:  10 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// runAtomic executes fn inside store.WithinTx, re-running the whole unit while
// it fails with domain.ErrTransient. Any other failure is returned at once.
func runAtomic(ctx context.Context, store LedgerStore, policy RetryPolicy, op string, fn func(ctx context.Context, tx LedgerTx) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		attemptCtx := ctx
		if policy.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, policy.AttemptTimeout)
			defer cancel()
		}

		err := store.WithinTx(attemptCtx, fn)
		if err == nil {
			return nil
		}
		if domain.Category(err) == nil && attemptCtx.Err() != nil && ctx.Err() == nil {
			// Drivers report a cancelled statement in their own words.
			err = fmt.Errorf("%w: attempt timed out after %s: %w", domain.ErrTransient, policy.AttemptTimeout, err)
		}
		if !errors.Is(err, domain.ErrTransient) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		log.WithFields(log.Fields{
			"op":      op,
			"attempt": attempt,
		}).WithError(err).Warn("atomic unit failed transiently, retrying")
		return err
	}

	err := backoff.Retry(operation, policy.backOff(ctx))
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, domain.ErrTransient) {
		return errors.Join(domain.ErrTransient, ctxErr)
	}
	if errors.Is(err, domain.ErrTransient) {
		log.WithFields(log.Fields{"op": op, "attempts": attempt}).WithError(err).Error("atomic unit retries exhausted")
	}
	return err
}
