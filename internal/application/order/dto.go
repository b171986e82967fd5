package order

import (
	"time"

	"github.com/fieldsales/backend/internal/domain/catalog"
	"github.com/fieldsales/backend/internal/domain/inventory"
	"github.com/fieldsales/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// BatchView is the read model of a batch exposed to the UI layer
type BatchView struct {
	ID              string          `json:"id"`
	LotNumber       string          `json:"lot_number"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Available       decimal.Decimal `json:"available"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
}

// ProductBatchesResponse is the ledger view for one product
type ProductBatchesResponse struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	CompliantBatch *BatchView      `json:"compliant_batch,omitempty"`
	TotalAvailable decimal.Decimal `json:"total_available"`
	Batches        []BatchView     `json:"batches"`
}

// AddToCartRequest asks for an allocation of a product into the cart.
// BatchID is the operator's manual pick; empty means FEFO decides.
type AddToCartRequest struct {
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id,omitempty"`
	Quantity  int64           `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// AddReturnRequest adds a return line for an already-fulfilled batch
type AddReturnRequest struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	BatchID     string          `json:"batch_id"`
	LotNumber   string          `json:"lot_number"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Reason      string          `json:"reason,omitempty"`
}

// CartLineView mirrors a cart line item for the UI layer
type CartLineView struct {
	ProductID   string                        `json:"product_id"`
	ProductName string                        `json:"product_name"`
	BatchID     string                        `json:"batch_id"`
	LotNumber   string                        `json:"lot_number"`
	UnitPrice   decimal.Decimal               `json:"unit_price"`
	Quantity    decimal.Decimal               `json:"quantity"`
	Discount    decimal.Decimal               `json:"discount"`
	TotalPrice  decimal.Decimal               `json:"total_price"`
	MaxQuantity decimal.Decimal               `json:"max_quantity"`
	IsFefoSplit bool                          `json:"is_fefo_split"`
	FefoBatches []inventory.BatchContribution `json:"fefo_batches,omitempty"`
}

// ReturnLineView mirrors a return line item for the UI layer
type ReturnLineView struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	BatchID     string          `json:"batch_id"`
	LotNumber   string          `json:"lot_number"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Reason      string          `json:"reason,omitempty"`
}

// CartResponse is the full composition state for the UI layer
type CartResponse struct {
	SessionID    string           `json:"session_id"`
	CustomerID   string           `json:"customer_id,omitempty"`
	CustomerName string           `json:"customer_name,omitempty"`
	Stage        string           `json:"stage"`
	FefoEnabled  bool             `json:"fefo_enabled"`
	Online       bool             `json:"online"`
	CartItems    []CartLineView   `json:"cart_items"`
	ReturnItems  []ReturnLineView `json:"return_items"`
	Summary      order.Summary    `json:"summary"`
}

// SubmitResponse reports the outcome of an order submission
type SubmitResponse struct {
	OrderNumber string `json:"order_number,omitempty"`
	Queued      bool   `json:"queued"`
	QueueID     string `json:"queue_id,omitempty"`
}

// ToBatchView converts a domain batch to its read model
func ToBatchView(b inventory.Batch, at time.Time) BatchView {
	return BatchView{
		ID:              b.ID,
		LotNumber:       b.LotNumber,
		UnitPrice:       b.UnitPrice,
		Available:       b.Available,
		ExpiryDate:      b.ExpiryDate,
		DaysUntilExpiry: b.DaysUntilExpiry(at),
	}
}

// ToProductBatchesResponse builds the ledger view for a product
func ToProductBatchesResponse(product catalog.Product, ledger inventory.BatchLedger) ProductBatchesResponse {
	now := time.Now()
	resp := ProductBatchesResponse{
		ProductID:      product.ID,
		ProductName:    product.Name,
		TotalAvailable: ledger.TotalAvailable(),
		Batches:        make([]BatchView, 0, ledger.Len()),
	}
	if compliant := ledger.CompliantBatch(); compliant != nil {
		v := ToBatchView(*compliant, now)
		resp.CompliantBatch = &v
	}
	for _, b := range ledger.Batches() {
		resp.Batches = append(resp.Batches, ToBatchView(b, now))
	}
	return resp
}

// ToCartResponse converts the cart state to its read model
func ToCartResponse(sessionID string, state *order.OrderCartState) CartResponse {
	resp := CartResponse{
		SessionID:    sessionID,
		CustomerID:   state.CustomerID,
		CustomerName: state.CustomerName,
		Stage:        state.Stage.String(),
		FefoEnabled:  state.FefoEnabled,
		Online:       state.Online,
		CartItems:    make([]CartLineView, 0, len(state.CartItems)),
		ReturnItems:  make([]ReturnLineView, 0, len(state.ReturnItems)),
		Summary:      order.Summarize(state),
	}
	for _, item := range state.CartItems {
		resp.CartItems = append(resp.CartItems, CartLineView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			BatchID:     item.BatchID,
			LotNumber:   item.LotNumber,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Discount:    item.Discount,
			TotalPrice:  item.TotalPrice,
			MaxQuantity: item.MaxQuantity,
			IsFefoSplit: item.IsFefoSplit,
			FefoBatches: item.FefoBatches,
		})
	}
	for _, item := range state.ReturnItems {
		resp.ReturnItems = append(resp.ReturnItems, ReturnLineView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			BatchID:     item.BatchID,
			LotNumber:   item.LotNumber,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice,
			Reason:      item.Reason,
		})
	}
	return resp
}
