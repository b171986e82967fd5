package inventory

import (
	"errors"
	"testing"

	"github.com/fieldsales/backend/internal/domain/catalog"
	"github.com/fieldsales/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProduct = catalog.Product{ID: "product-1", Name: "Amoxicillin 500mg"}

func TestAllocate_SingleBatchSufficient(t *testing.T) {
	batches := []Batch{
		{ID: "B1", LotNumber: "L1", ProductID: "product-1", UnitPrice: decimal.NewFromInt(100), Available: decimal.NewFromInt(10), ExpiryDate: expiry(10)},
	}

	alloc, err := Allocate(testProduct, batches, decimal.NewFromInt(5), decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "B1", alloc.BatchID)
	assert.Equal(t, "L1", alloc.LotNumber)
	assert.True(t, alloc.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, alloc.TotalPrice.Equal(decimal.NewFromInt(500)))
	assert.True(t, alloc.MaxQuantity.Equal(decimal.NewFromInt(10)))
	assert.False(t, alloc.IsFefoSplit)
	assert.Empty(t, alloc.Contributions)
}

func TestAllocate_SplitAcrossBatches(t *testing.T) {
	batches := []Batch{
		{ID: "B1", LotNumber: "L1", UnitPrice: decimal.NewFromInt(100), Available: decimal.NewFromInt(3), ExpiryDate: expiry(10)},
		{ID: "B2", LotNumber: "L2", UnitPrice: decimal.NewFromInt(110), Available: decimal.NewFromInt(10), ExpiryDate: expiry(70)},
	}

	alloc, err := Allocate(testProduct, batches, decimal.NewFromInt(5), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, alloc.IsFefoSplit)
	require.Len(t, alloc.Contributions, 2)
	assert.Equal(t, "B1", alloc.Contributions[0].BatchID)
	assert.True(t, alloc.Contributions[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "B2", alloc.Contributions[1].BatchID)
	assert.True(t, alloc.Contributions[1].Quantity.Equal(decimal.NewFromInt(2)))

	// 3×100 + 2×110
	assert.True(t, alloc.TotalPrice.Equal(decimal.NewFromInt(520)))
	// Primary reference is the earliest-expiry contributing batch
	assert.Equal(t, "B1", alloc.BatchID)
	assert.Equal(t, "L1", alloc.LotNumber)
	// Max quantity spans all supplied batches when split
	assert.True(t, alloc.MaxQuantity.Equal(decimal.NewFromInt(13)))
}

func TestAllocate_DiscountSubtractedOnce(t *testing.T) {
	batches := []Batch{
		{ID: "B1", UnitPrice: decimal.NewFromInt(100), Available: decimal.NewFromInt(3), ExpiryDate: expiry(10)},
		{ID: "B2", UnitPrice: decimal.NewFromInt(110), Available: decimal.NewFromInt(10), ExpiryDate: expiry(70)},
	}

	alloc, err := Allocate(testProduct, batches, decimal.NewFromInt(5), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, alloc.TotalPrice.Equal(decimal.NewFromInt(500)))

	// Conservation: Σ(contribution qty × batch price) − discount == total
	sum := decimal.Zero
	prices := map[string]decimal.Decimal{"B1": decimal.NewFromInt(100), "B2": decimal.NewFromInt(110)}
	qty := decimal.Zero
	for _, c := range alloc.Contributions {
		sum = sum.Add(prices[c.BatchID].Mul(c.Quantity))
		qty = qty.Add(c.Quantity)
	}
	assert.True(t, sum.Sub(decimal.NewFromInt(20)).Equal(alloc.TotalPrice))
	assert.True(t, qty.Equal(alloc.Quantity))
}

func TestAllocate_OutOfStock(t *testing.T) {
	_, err := Allocate(testProduct, nil, decimal.NewFromInt(5), decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrOutOfStock)
}

func TestAllocate_InsufficientStock(t *testing.T) {
	batches := []Batch{
		{ID: "B1", UnitPrice: decimal.NewFromInt(100), Available: decimal.NewFromInt(2), ExpiryDate: expiry(10)},
	}

	_, err := Allocate(testProduct, batches, decimal.NewFromInt(5), decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	var insufficientErr *InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.True(t, insufficientErr.Shortfall.Equal(decimal.NewFromInt(3)))
	assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(2)))
	assert.True(t, insufficientErr.Requested.Equal(decimal.NewFromInt(5)))
}

func TestAllocate_FEFOOrdering(t *testing.T) {
	// A later-expiry batch is never drawn from while an earlier one still
	// has available quantity.
	batches := []Batch{
		{ID: "B1", UnitPrice: decimal.NewFromInt(10), Available: decimal.NewFromInt(4), ExpiryDate: expiry(5)},
		{ID: "B2", UnitPrice: decimal.NewFromInt(10), Available: decimal.NewFromInt(4), ExpiryDate: expiry(15)},
		{ID: "B3", UnitPrice: decimal.NewFromInt(10), Available: decimal.NewFromInt(4), ExpiryDate: expiry(25)},
	}

	alloc, err := Allocate(testProduct, batches, decimal.NewFromInt(9), decimal.Zero)
	require.NoError(t, err)
	require.Len(t, alloc.Contributions, 3)

	for i, c := range alloc.Contributions {
		// Every batch before the last contribution is fully consumed
		if i < len(alloc.Contributions)-1 {
			assert.True(t, c.Quantity.Equal(batches[i].Available),
				"earlier batch %s not fully consumed before drawing from a later one", c.BatchID)
		}
	}
	assert.Equal(t, []string{"B1", "B2", "B3"}, []string{
		alloc.Contributions[0].BatchID,
		alloc.Contributions[1].BatchID,
		alloc.Contributions[2].BatchID,
	})
}

func TestAllocate_SkipsDepletedBatches(t *testing.T) {
	batches := []Batch{
		{ID: "B1", LotNumber: "L1", UnitPrice: decimal.NewFromInt(100), Available: decimal.Zero, ExpiryDate: expiry(5)},
		{ID: "B2", LotNumber: "L2", UnitPrice: decimal.NewFromInt(110), Available: decimal.NewFromInt(8), ExpiryDate: expiry(15)},
	}

	alloc, err := Allocate(testProduct, batches, decimal.NewFromInt(5), decimal.Zero)
	require.NoError(t, err)

	// A single contribution is not a split even if reached via the walk
	assert.False(t, alloc.IsFefoSplit)
	require.Len(t, alloc.Contributions, 1)
	assert.Equal(t, "B2", alloc.BatchID)
	assert.True(t, alloc.UnitPrice.Equal(decimal.NewFromInt(110)))
	assert.True(t, alloc.MaxQuantity.Equal(decimal.NewFromInt(8)))
}

func TestAllocate_InvalidInput(t *testing.T) {
	batches := testBatches()

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := Allocate(testProduct, batches, decimal.Zero, decimal.Zero)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		_, err := Allocate(testProduct, batches, decimal.NewFromInt(1), decimal.NewFromInt(-1))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_DISCOUNT", domainErr.Code)
	})
}
