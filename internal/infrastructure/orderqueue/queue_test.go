package orderqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldsales/backend/internal/domain/order"
)

type MockOrderSubmitter struct {
	mock.Mock
}

func (m *MockOrderSubmitter) SubmitOrder(ctx context.Context, submission order.OrderSubmission) (string, error) {
	args := m.Called(ctx, submission)
	return args.String(0), args.Error(1)
}

func newTestQueue(t *testing.T) *SQLiteQueue {
	t.Helper()
	queue, err := NewSQLiteQueue(":memory:", nil, zap.NewNop())
	require.NoError(t, err)
	return queue
}

func testSubmission() order.OrderSubmission {
	return order.OrderSubmission{
		CustomerID:   "cust-1",
		CustomerName: "Pharmacy A",
		Lines: []order.SubmissionLine{{
			ProductID:  "prod-1",
			BatchID:    "batch-1",
			LotNumber:  "L001",
			Quantity:   decimal.NewFromInt(5),
			UnitPrice:  decimal.NewFromInt(100),
			TotalPrice: decimal.NewFromInt(500),
			Deductions: []order.StockDeduction{
				{BatchID: "batch-1", LotNumber: "L001", Quantity: decimal.NewFromInt(5)},
			},
		}},
	}
}

func TestSQLiteQueue_Enqueue(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)

	id, err := queue.Enqueue(ctx, testSubmission())
	require.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", id.String())

	entries, err := queue.DuePending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, StatusPending, entries[0].Status)
	assert.Equal(t, "cust-1", entries[0].CustomerID)

	decoded, err := entries[0].Decode()
	require.NoError(t, err)
	assert.Equal(t, "cust-1", decoded.CustomerID)
	require.Len(t, decoded.Lines, 1)
	assert.True(t, decoded.Lines[0].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestSQLiteQueue_MarkSent(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)

	id, err := queue.Enqueue(ctx, testSubmission())
	require.NoError(t, err)

	require.NoError(t, queue.MarkSent(ctx, id, "SO-001"))

	entries, err := queue.DuePending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteQueue_MarkFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules retry with backoff", func(t *testing.T) {
		queue := newTestQueue(t)
		_, err := queue.Enqueue(ctx, testSubmission())
		require.NoError(t, err)

		entries, err := queue.DuePending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		require.NoError(t, queue.MarkFailed(ctx, entries[0], errors.New("network down")))

		// Next retry is in the future, so nothing is due now
		due, err := queue.DuePending(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("exhausted retries go dead", func(t *testing.T) {
		queue := newTestQueue(t)
		_, err := queue.Enqueue(ctx, testSubmission())
		require.NoError(t, err)

		entries, err := queue.DuePending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entry := entries[0]
		entry.RetryCount = entry.MaxRetries - 1
		require.NoError(t, queue.MarkFailed(ctx, entry, errors.New("still down")))

		var stored QueuedOrder
		require.NoError(t, queue.db.First(&stored, "id = ?", entry.ID).Error)
		assert.Equal(t, StatusDead, stored.Status)
		assert.Equal(t, "still down", stored.LastError)
	})
}

func TestFlusher_FlushOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers due entries", func(t *testing.T) {
		queue := newTestQueue(t)
		id, err := queue.Enqueue(ctx, testSubmission())
		require.NoError(t, err)

		submitter := new(MockOrderSubmitter)
		submitter.On("SubmitOrder", mock.Anything, mock.MatchedBy(func(s order.OrderSubmission) bool {
			return s.CustomerID == "cust-1"
		})).Return("SO-001", nil)

		flusher := NewFlusher(queue, submitter, time.Second, zap.NewNop())
		sent := flusher.FlushOnce(ctx)
		assert.Equal(t, 1, sent)
		submitter.AssertExpectations(t)

		var stored QueuedOrder
		require.NoError(t, queue.db.First(&stored, "id = ?", id).Error)
		assert.Equal(t, StatusSent, stored.Status)
		assert.Equal(t, "SO-001", stored.OrderNumber)
	})

	t.Run("failed delivery stays queued", func(t *testing.T) {
		queue := newTestQueue(t)
		id, err := queue.Enqueue(ctx, testSubmission())
		require.NoError(t, err)

		submitter := new(MockOrderSubmitter)
		submitter.On("SubmitOrder", mock.Anything, mock.Anything).
			Return("", errors.New("api unreachable"))

		flusher := NewFlusher(queue, submitter, time.Second, zap.NewNop())
		sent := flusher.FlushOnce(ctx)
		assert.Equal(t, 0, sent)

		var stored QueuedOrder
		require.NoError(t, queue.db.First(&stored, "id = ?", id).Error)
		assert.Equal(t, StatusPending, stored.Status)
		assert.Equal(t, 1, stored.RetryCount)
		assert.Equal(t, "api unreachable", stored.LastError)
	})

	t.Run("empty queue is a no-op", func(t *testing.T) {
		queue := newTestQueue(t)
		submitter := new(MockOrderSubmitter)
		flusher := NewFlusher(queue, submitter, time.Second, zap.NewNop())
		assert.Equal(t, 0, flusher.FlushOnce(ctx))
		submitter.AssertNotCalled(t, "SubmitOrder")
	})
}
