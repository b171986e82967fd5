package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expiry(daysFromNow int) time.Time {
	return time.Now().Add(time.Duration(daysFromNow) * 24 * time.Hour)
}

func testBatches() []Batch {
	return []Batch{
		{ID: "batch-1", LotNumber: "L001", ProductID: "product-1", UnitPrice: decimal.NewFromInt(100), Available: decimal.NewFromInt(10), ExpiryDate: expiry(10)},
		{ID: "batch-2", LotNumber: "L002", ProductID: "product-1", UnitPrice: decimal.NewFromInt(110), Available: decimal.NewFromInt(40), ExpiryDate: expiry(30)},
		{ID: "batch-3", LotNumber: "L003", ProductID: "product-1", UnitPrice: decimal.NewFromInt(105), Available: decimal.NewFromInt(30), ExpiryDate: expiry(60)},
	}
}

func TestBatchLedger_CompliantBatch(t *testing.T) {
	t.Run("returns the earliest-expiry batch", func(t *testing.T) {
		ledger := NewBatchLedger(testBatches())
		compliant := ledger.CompliantBatch()
		require.NotNil(t, compliant)
		assert.Equal(t, "batch-1", compliant.ID)
	})

	t.Run("skips depleted batches", func(t *testing.T) {
		batches := testBatches()
		batches[0].Available = decimal.Zero
		ledger := NewBatchLedger(batches)

		compliant := ledger.CompliantBatch()
		require.NotNil(t, compliant)
		assert.Equal(t, "batch-2", compliant.ID)
	})

	t.Run("returns nil when every batch is depleted", func(t *testing.T) {
		batches := testBatches()
		for i := range batches {
			batches[i].Available = decimal.Zero
		}
		ledger := NewBatchLedger(batches)
		assert.Nil(t, ledger.CompliantBatch())
	})

	t.Run("returns nil for an empty ledger", func(t *testing.T) {
		ledger := NewBatchLedger(nil)
		assert.Nil(t, ledger.CompliantBatch())
		assert.True(t, ledger.IsEmpty())
	})
}

func TestBatchLedger_TotalAvailable(t *testing.T) {
	t.Run("sums available quantity across batches", func(t *testing.T) {
		ledger := NewBatchLedger(testBatches())
		assert.True(t, ledger.TotalAvailable().Equal(decimal.NewFromInt(80)))
	})

	t.Run("empty ledger yields zero, not an error", func(t *testing.T) {
		ledger := NewBatchLedger([]Batch{})
		assert.True(t, ledger.TotalAvailable().IsZero())
	})
}

func TestBatchLedger_Validate(t *testing.T) {
	t.Run("accepts expiry-ascending input", func(t *testing.T) {
		ledger := NewBatchLedger(testBatches())
		assert.NoError(t, ledger.Validate())
	})

	t.Run("rejects descending expiry dates", func(t *testing.T) {
		batches := testBatches()
		batches[0], batches[2] = batches[2], batches[0]
		ledger := NewBatchLedger(batches)
		assert.ErrorIs(t, ledger.Validate(), ErrUnsortedBatches)
	})

	t.Run("batches without expiry must come last", func(t *testing.T) {
		batches := []Batch{
			{ID: "no-expiry"},
			{ID: "with-expiry", ExpiryDate: expiry(5)},
		}
		assert.ErrorIs(t, NewBatchLedger(batches).Validate(), ErrUnsortedBatches)

		reversed := []Batch{batches[1], batches[0]}
		assert.NoError(t, NewBatchLedger(reversed).Validate())
	})

	t.Run("empty and single-batch ledgers are valid", func(t *testing.T) {
		assert.NoError(t, NewBatchLedger(nil).Validate())
		assert.NoError(t, NewBatchLedger(testBatches()[:1]).Validate())
	})
}

func TestBatchLedger_Prioritized(t *testing.T) {
	t.Run("moves the picked batch to the front", func(t *testing.T) {
		ledger := NewBatchLedger(testBatches())
		ordered := ledger.Prioritized("batch-3")
		require.Len(t, ordered, 3)
		assert.Equal(t, "batch-3", ordered[0].ID)
		assert.Equal(t, "batch-1", ordered[1].ID)
		assert.Equal(t, "batch-2", ordered[2].ID)
	})

	t.Run("unknown batch leaves the order unchanged", func(t *testing.T) {
		ledger := NewBatchLedger(testBatches())
		ordered := ledger.Prioritized("nope")
		require.Len(t, ordered, 3)
		assert.Equal(t, "batch-1", ordered[0].ID)
	})
}

func TestBatchLedger_Immutability(t *testing.T) {
	batches := testBatches()
	ledger := NewBatchLedger(batches)

	// Mutating the input or the returned copies must not affect the ledger
	batches[0].Available = decimal.NewFromInt(999)
	got := ledger.Batches()
	got[1].Available = decimal.NewFromInt(777)

	assert.True(t, ledger.CompliantBatch().Available.Equal(decimal.NewFromInt(10)))
	assert.True(t, ledger.TotalAvailable().Equal(decimal.NewFromInt(80)))
}

func TestBatch_Expiry(t *testing.T) {
	now := time.Now()

	t.Run("expired batch", func(t *testing.T) {
		b := Batch{ExpiryDate: now.Add(-24 * time.Hour)}
		assert.True(t, b.IsExpired(now))
	})

	t.Run("batch without expiry never expires", func(t *testing.T) {
		b := Batch{}
		assert.False(t, b.IsExpired(now))
		assert.Equal(t, -1, b.DaysUntilExpiry(now))
	})

	t.Run("days until expiry", func(t *testing.T) {
		b := Batch{ExpiryDate: now.Add(72 * time.Hour)}
		assert.Equal(t, 3, b.DaysUntilExpiry(now))
	})
}
