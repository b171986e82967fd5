package orderqueue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsales/backend/internal/domain/order"
)

const flushBatchSize = 20

// Flusher drains the offline queue: it periodically delivers due pending
// entries to the sales API, advancing each entry's retry state.
type Flusher struct {
	queue     *SQLiteQueue
	submitter order.OrderSubmitter
	interval  time.Duration
	logger    *zap.Logger
}

// NewFlusher creates a flusher over the given queue and submitter
func NewFlusher(queue *SQLiteQueue, submitter order.OrderSubmitter, interval time.Duration, logger *zap.Logger) *Flusher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Flusher{
		queue:     queue,
		submitter: submitter,
		interval:  interval,
		logger:    logger,
	}
}

// Run flushes on a ticker until the context is cancelled
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.FlushOnce(ctx)
		}
	}
}

// FlushOnce delivers all currently due entries and returns the number
// successfully sent
func (f *Flusher) FlushOnce(ctx context.Context) int {
	entries, err := f.queue.DuePending(ctx, flushBatchSize)
	if err != nil {
		f.logger.Error("load queued orders failed", zap.Error(err))
		return 0
	}

	sent := 0
	for _, entry := range entries {
		submission, err := entry.Decode()
		if err != nil {
			// Undecodable payloads can never succeed; park them immediately
			entry.RetryCount = entry.MaxRetries
			if markErr := f.queue.MarkFailed(ctx, entry, err); markErr != nil {
				f.logger.Error("mark queued order dead failed", zap.Error(markErr))
			}
			continue
		}

		orderNumber, err := f.submitter.SubmitOrder(ctx, submission)
		if err != nil {
			if markErr := f.queue.MarkFailed(ctx, entry, err); markErr != nil {
				f.logger.Error("mark queued order failed", zap.Error(markErr))
			}
			continue
		}

		if err := f.queue.MarkSent(ctx, entry.ID, orderNumber); err != nil {
			f.logger.Error("mark queued order sent failed",
				zap.String("queue_id", entry.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
		f.logger.Info("queued order delivered",
			zap.String("queue_id", entry.ID.String()),
			zap.String("order_number", orderNumber))
	}
	return sent
}
