package inventory

import (
	"time"

	"github.com/fieldsales/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrUnsortedBatches indicates the remote API returned batches that are not
// sorted ascending by expiry date. The allocator's correctness depends on
// that sort order, so unsorted input is a contract violation, not something
// to silently fix.
var ErrUnsortedBatches = shared.NewDomainError("BATCH_ORDER_VIOLATION", "Batches are not sorted ascending by expiry date")

// Batch is a read-only snapshot of a physical lot of a product.
// Batches are created and mutated exclusively by the inventory side of the
// remote API; the engine only reads them. Stock deduction happens
// server-side on order submission.
type Batch struct {
	ID         string
	LotNumber  string
	ProductID  string
	UnitPrice  decimal.Decimal
	Available  decimal.Decimal
	ExpiryDate time.Time
}

// HasStock returns true if the batch has available quantity
func (b Batch) HasStock() bool {
	return b.Available.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the batch has expired at the given time
func (b Batch) IsExpired(at time.Time) bool {
	if b.ExpiryDate.IsZero() {
		return false
	}
	return b.ExpiryDate.Before(at)
}

// DaysUntilExpiry returns the number of days until expiry at the given
// time, -1 if the batch has no expiry date
func (b Batch) DaysUntilExpiry(at time.Time) int {
	if b.ExpiryDate.IsZero() {
		return -1
	}
	return int(b.ExpiryDate.Sub(at).Hours() / 24)
}

// BatchLedger is an immutable, expiry-ascending view over a product's
// batches. The first element with stock is the FEFO-compliant batch.
type BatchLedger struct {
	batches []Batch
}

// NewBatchLedger creates a ledger over the given batch snapshot.
// The slice is copied; callers may reuse their input.
func NewBatchLedger(batches []Batch) BatchLedger {
	cp := make([]Batch, len(batches))
	copy(cp, batches)
	return BatchLedger{batches: cp}
}

// IsEmpty returns true if the ledger holds no batches
func (l BatchLedger) IsEmpty() bool {
	return len(l.batches) == 0
}

// Len returns the number of batches in the ledger
func (l BatchLedger) Len() int {
	return len(l.batches)
}

// Batches returns a copy of the underlying batch list
func (l BatchLedger) Batches() []Batch {
	cp := make([]Batch, len(l.batches))
	copy(cp, l.batches)
	return cp
}

// CompliantBatch returns the FEFO-compliant batch: the earliest-expiry
// batch that still has stock. Depleted batches cannot be allocated from,
// so they never count as the compliant target. Returns nil if the ledger
// is empty or every batch is depleted; neither is an error.
func (l BatchLedger) CompliantBatch() *Batch {
	for i := range l.batches {
		if l.batches[i].HasStock() {
			b := l.batches[i]
			return &b
		}
	}
	return nil
}

// TotalAvailable returns the sum of available quantity across all batches
func (l BatchLedger) TotalAvailable() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.batches {
		total = total.Add(b.Available)
	}
	return total
}

// FindBatch returns the batch with the given ID, or nil if absent
func (l BatchLedger) FindBatch(batchID string) *Batch {
	for i := range l.batches {
		if l.batches[i].ID == batchID {
			b := l.batches[i]
			return &b
		}
	}
	return nil
}

// Validate checks the expiry-ascending contract the remote API promises.
// Batches with no expiry date must come last.
func (l BatchLedger) Validate() error {
	for i := 1; i < len(l.batches); i++ {
		prev, cur := l.batches[i-1], l.batches[i]
		if prev.ExpiryDate.IsZero() && !cur.ExpiryDate.IsZero() {
			return ErrUnsortedBatches
		}
		if prev.ExpiryDate.IsZero() || cur.ExpiryDate.IsZero() {
			continue
		}
		if cur.ExpiryDate.Before(prev.ExpiryDate) {
			return ErrUnsortedBatches
		}
	}
	return nil
}

// Prioritized returns the ledger's batches with the given batch moved to
// the front, preserving the relative order of the rest. Used when FEFO
// enforcement is disabled and the operator picked a batch manually.
func (l BatchLedger) Prioritized(batchID string) []Batch {
	out := make([]Batch, 0, len(l.batches))
	var picked *Batch
	for i := range l.batches {
		if l.batches[i].ID == batchID && picked == nil {
			b := l.batches[i]
			picked = &b
			continue
		}
		out = append(out, l.batches[i])
	}
	if picked == nil {
		return l.Batches()
	}
	return append([]Batch{*picked}, out...)
}
