package inventory

import (
	"context"

	"github.com/fieldsales/backend/internal/domain/catalog"
)

// BatchProvider supplies product and batch snapshots from the distribution
// company's API. Implementations must return batches already sorted
// ascending by expiry date; consumers verify with BatchLedger.Validate.
type BatchProvider interface {
	// FetchProduct returns the product snapshot for the given ID
	FetchProduct(ctx context.Context, productID string) (catalog.Product, error)
	// FetchBatchesForProduct returns the product's batches, expiry-ascending
	FetchBatchesForProduct(ctx context.Context, productID string) ([]Batch, error)
}
