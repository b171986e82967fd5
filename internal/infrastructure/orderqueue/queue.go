package orderqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fieldsales/backend/internal/domain/order"
)

// Queue entry statuses
const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
	StatusDead    = "DEAD"
)

// QueuedOrder is one order composed while offline, persisted locally until
// it can be delivered to the sales API.
type QueuedOrder struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	CustomerID  string    `gorm:"index"`
	Payload     []byte    `gorm:"not null"`
	Status      string    `gorm:"index;default:PENDING"`
	RetryCount  int       `gorm:"default:0"`
	MaxRetries  int       `gorm:"default:5"`
	LastError   string
	OrderNumber string
	NextRetryAt *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the table name
func (QueuedOrder) TableName() string {
	return "queued_orders"
}

const defaultMaxRetries = 5

// SQLiteQueue stores offline order submissions in a local SQLite database
type SQLiteQueue struct {
	db         *gorm.DB
	logger     *zap.Logger
	maxRetries int
}

// NewSQLiteQueue opens (or creates) the queue database at the given path
// and migrates the schema. Use ":memory:" for tests.
func NewSQLiteQueue(path string, gormLog gormlogger.Interface, logger *zap.Logger) (*SQLiteQueue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := &gorm.Config{}
	if gormLog != nil {
		cfg.Logger = gormLog
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}
	if err := db.AutoMigrate(&QueuedOrder{}); err != nil {
		return nil, fmt.Errorf("migrate queue schema: %w", err)
	}
	return &SQLiteQueue{db: db, logger: logger, maxRetries: defaultMaxRetries}, nil
}

// SetMaxRetries overrides the retry budget applied to new entries
func (q *SQLiteQueue) SetMaxRetries(n int) {
	if n > 0 {
		q.maxRetries = n
	}
}

// Enqueue stores the submission locally and returns the queue entry ID
func (q *SQLiteQueue) Enqueue(ctx context.Context, submission order.OrderSubmission) (uuid.UUID, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode queued order: %w", err)
	}

	now := time.Now()
	entry := QueuedOrder{
		ID:          uuid.New(),
		CustomerID:  submission.CustomerID,
		Payload:     payload,
		Status:      StatusPending,
		MaxRetries:  q.maxRetries,
		NextRetryAt: &now,
	}
	if err := q.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return uuid.Nil, fmt.Errorf("enqueue order: %w", err)
	}

	q.logger.Info("order queued for later delivery",
		zap.String("queue_id", entry.ID.String()),
		zap.String("customer_id", submission.CustomerID))
	return entry.ID, nil
}

// DuePending returns pending entries whose retry time has arrived,
// oldest first
func (q *SQLiteQueue) DuePending(ctx context.Context, limit int) ([]QueuedOrder, error) {
	var entries []QueuedOrder
	err := q.db.WithContext(ctx).
		Where("status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?)", StatusPending, time.Now()).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load pending queue entries: %w", err)
	}
	return entries, nil
}

// MarkSent records successful delivery and the remote order number
func (q *SQLiteQueue) MarkSent(ctx context.Context, id uuid.UUID, orderNumber string) error {
	return q.db.WithContext(ctx).Model(&QueuedOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       StatusSent,
			"order_number": orderNumber,
			"last_error":   "",
		}).Error
}

// MarkFailed records a delivery failure, scheduling a retry with
// exponential backoff or marking the entry dead when retries are exhausted
func (q *SQLiteQueue) MarkFailed(ctx context.Context, entry QueuedOrder, cause error) error {
	entry.RetryCount++
	entry.LastError = cause.Error()

	if entry.RetryCount >= entry.MaxRetries {
		entry.Status = StatusDead
		entry.NextRetryAt = nil
		q.logger.Error("queued order exhausted retries",
			zap.String("queue_id", entry.ID.String()),
			zap.Int("retry_count", entry.RetryCount),
			zap.Error(cause))
	} else {
		backoff := time.Duration(1<<uint(entry.RetryCount)) * time.Minute
		next := time.Now().Add(backoff)
		entry.Status = StatusPending
		entry.NextRetryAt = &next
	}

	return q.db.WithContext(ctx).Model(&QueuedOrder{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"status":        entry.Status,
			"retry_count":   entry.RetryCount,
			"last_error":    entry.LastError,
			"next_retry_at": entry.NextRetryAt,
		}).Error
}

// Decode unpacks the entry's payload back into a submission
func (e QueuedOrder) Decode() (order.OrderSubmission, error) {
	var submission order.OrderSubmission
	if err := json.Unmarshal(e.Payload, &submission); err != nil {
		return order.OrderSubmission{}, fmt.Errorf("decode queued order %s: %w", e.ID, err)
	}
	return submission, nil
}
