package inventory

import (
	"fmt"
	"time"

	"github.com/fieldsales/backend/internal/domain/catalog"
	"github.com/fieldsales/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchContribution records the quantity drawn from one batch as part of
// a split allocation. On submission each contribution is replayed as a
// separate stock deduction against its originating batch.
type BatchContribution struct {
	BatchID    string          `json:"batch_id"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate time.Time       `json:"expiry_date"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Allocation is the outcome of drawing a requested quantity from a
// product's batches in FEFO order. It carries everything the cart needs
// to represent the resulting line item.
type Allocation struct {
	ProductID   string
	ProductName string
	// BatchID and LotNumber reference the first contributing batch
	// (earliest expiry) even when the allocation is split.
	BatchID       string
	LotNumber     string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
	Discount      decimal.Decimal
	TotalPrice    decimal.Decimal
	MaxQuantity   decimal.Decimal
	IsFefoSplit   bool
	Contributions []BatchContribution
}

// InsufficientStockError reports that the product's batches exist but
// cannot satisfy the requested quantity even after exhausting all of them.
type InsufficientStockError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %s, available %s (short %s)",
		e.ProductID, e.Requested, e.Available, e.Shortfall)
}

// Unwrap allows errors.Is(err, shared.ErrInsufficientStock)
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// Allocate draws the requested quantity from the product's batches in
// first-expiry-first-out order. Batches must be sorted ascending by expiry
// date; the first batch is consumed before any later one.
//
// A single sufficient first batch yields a non-split allocation. Otherwise
// each batch's full available quantity is consumed greedily until the
// request is met; the result records one BatchContribution per consumed
// batch and is marked split. The discount is subtracted once from the
// accumulated total, never distributed per batch.
//
// Exhausting all batches before the request is met fails with
// InsufficientStockError; no short allocation is produced.
func Allocate(product catalog.Product, batches []Batch, quantity, discount decimal.Decimal) (Allocation, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return Allocation{}, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if discount.IsNegative() {
		return Allocation{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if len(batches) == 0 {
		return Allocation{}, shared.ErrOutOfStock
	}

	ledger := NewBatchLedger(batches)
	first := batches[0]

	// Fast path: the earliest-expiry batch alone satisfies the request.
	if first.Available.GreaterThanOrEqual(quantity) {
		return Allocation{
			ProductID:   product.ID,
			ProductName: product.Name,
			BatchID:     first.ID,
			LotNumber:   first.LotNumber,
			UnitPrice:   first.UnitPrice,
			Quantity:    quantity,
			Discount:    discount,
			TotalPrice:  first.UnitPrice.Mul(quantity).Sub(discount),
			MaxQuantity: first.Available,
			IsFefoSplit: false,
		}, nil
	}

	// Greedy walk in expiry order, consuming each batch fully until the
	// remaining quantity reaches zero.
	remaining := quantity
	total := decimal.Zero
	contributions := make([]BatchContribution, 0, len(batches))
	for _, b := range batches {
		if remaining.IsZero() {
			break
		}
		if !b.HasStock() {
			continue
		}
		drawn := decimal.Min(b.Available, remaining)
		contributions = append(contributions, BatchContribution{
			BatchID:    b.ID,
			LotNumber:  b.LotNumber,
			ExpiryDate: b.ExpiryDate,
			Quantity:   drawn,
		})
		total = total.Add(b.UnitPrice.Mul(drawn))
		remaining = remaining.Sub(drawn)
	}

	if remaining.GreaterThan(decimal.Zero) {
		available := ledger.TotalAvailable()
		return Allocation{}, &InsufficientStockError{
			ProductID: product.ID,
			Requested: quantity,
			Available: available,
			Shortfall: remaining,
		}
	}

	primary := contributions[0]
	primaryBatch := ledger.FindBatch(primary.BatchID)

	// A single contribution can still happen here when earlier batches had
	// zero stock; such an allocation is not split.
	maxQty := ledger.TotalAvailable()
	if len(contributions) == 1 {
		maxQty = primaryBatch.Available
	}

	return Allocation{
		ProductID:     product.ID,
		ProductName:   product.Name,
		BatchID:       primary.BatchID,
		LotNumber:     primary.LotNumber,
		UnitPrice:     primaryBatch.UnitPrice,
		Quantity:      quantity,
		Discount:      discount,
		TotalPrice:    total.Sub(discount),
		MaxQuantity:   maxQty,
		IsFefoSplit:   len(contributions) > 1,
		Contributions: contributions,
	}, nil
}
