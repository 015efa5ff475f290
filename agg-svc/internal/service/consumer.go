package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"overcooked-pos/agg-svc/internal/domain"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	// NewBackOff paces re-reads after a fetch error and re-handling of a
	// message whose invalidation failed.
	NewBackOff func() backoff.BackOff
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		NewBackOff: ExponentialBackOff(30 * time.Second),
	}
}

// ExponentialBackOff returns a factory for unbounded exponential back-off
// capped at maxInterval.
func ExponentialBackOff(maxInterval time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 100 * time.Millisecond
		if maxInterval > 0 {
			b.MaxInterval = maxInterval
		}
		b.MaxElapsedTime = 0
		b.Reset()
		return b
	}
}

// Start invalidates cached reports for each ledger event until ctx is done or
// the reader is closed. An offset is committed only once its message has been
// handled, so a failure keeps the message in play.
func (c *Consumer) Start(ctx context.Context) error {
	log.Info("report invalidation consumer starting")
	fetchBackOff := c.NewBackOff()
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			wait := fetchBackOff.NextBackOff()
			if wait == backoff.Stop {
				return err
			}
			log.WithField("retry_in", wait).WithError(err).Error("failed to read message")
			if !sleepCtx(ctx, wait) {
				return nil
			}
			continue
		}
		fetchBackOff.Reset()

		if err := c.process(ctx, message.Offset, message.Value); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.Reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			log.WithField("offset", message.Offset).WithError(err).Error("failed to commit offset")
		}
	}
}

// process handles one message, re-handling it with back-off until it succeeds.
// Malformed payloads are skipped since no retry can repair them.
func (c *Consumer) process(ctx context.Context, offset int64, value []byte) error {
	var event domain.LedgerEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.WithField("offset", offset).WithError(err).Warn("skipping malformed event")
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"type":     event.Type,
			"order_id": event.OrderID,
			"offset":   offset,
			"retry_in": wait,
		}).WithError(err).Error("failed to handle event")
	}
	return backoff.RetryNotify(func() error {
		return c.Handle(ctx, event)
	}, backoff.WithContext(c.NewBackOff(), ctx), notify)
}

// Handle applies one event. Handling is idempotent, so redelivery is harmless.
func (c *Consumer) Handle(ctx context.Context, event domain.LedgerEvent) error {
	if !event.AffectsReports() {
		log.WithField("type", event.Type).Debug("event does not affect reports")
		return nil
	}

	generation, err := c.Store.Invalidate(ctx)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"type":       event.Type,
		"order_id":   event.OrderID,
		"generation": generation,
	}).Info("report cache invalidated")
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
