package order

import (
	"context"

	"github.com/fieldsales/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockDeduction is one server-side stock deduction against a specific
// batch. Split allocations produce one deduction per contributing batch;
// deducting only from the primary batch would corrupt batch-level stock.
type StockDeduction struct {
	BatchID   string          `json:"batch_id"`
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SubmissionLine is one order line in the shape the order-creation API
// expects, with its batch deductions expanded.
type SubmissionLine struct {
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	BatchID     string           `json:"batch_id"`
	LotNumber   string           `json:"lot_number"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Discount    decimal.Decimal  `json:"discount"`
	TotalPrice  decimal.Decimal  `json:"total_price"`
	Deductions  []StockDeduction `json:"deductions"`
}

// ReturnSubmissionLine is one return line for submission
type ReturnSubmissionLine struct {
	ProductID  string          `json:"product_id"`
	BatchID    string          `json:"batch_id"`
	LotNumber  string          `json:"lot_number"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Reason     string          `json:"reason,omitempty"`
}

// OrderSubmission is the exact shape handed to the order-creation API
type OrderSubmission struct {
	CustomerID   string                 `json:"customer_id"`
	CustomerName string                 `json:"customer_name"`
	Lines        []SubmissionLine       `json:"lines"`
	Returns      []ReturnSubmissionLine `json:"returns,omitempty"`
	Totals       Summary                `json:"totals"`
}

// OrderSubmitter persists a composed order with the distribution
// company's API
type OrderSubmitter interface {
	// SubmitOrder creates the order remotely and returns its order number
	SubmitOrder(ctx context.Context, submission OrderSubmission) (string, error)
}

// BuildSubmission converts the cart state into a submission payload,
// replaying every batch contribution as a separate stock deduction.
// Non-split lines deduct their full quantity from the primary batch.
func BuildSubmission(s *OrderCartState) (OrderSubmission, error) {
	if s.CustomerID == "" {
		return OrderSubmission{}, shared.NewDomainError("INVALID_CUSTOMER", "Cannot submit an order without a customer")
	}
	if s.IsEmpty() {
		return OrderSubmission{}, shared.NewDomainError("EMPTY_ORDER", "Cannot submit an order without line items")
	}

	sub := OrderSubmission{
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		Lines:        make([]SubmissionLine, 0, len(s.CartItems)),
		Totals:       Summarize(s),
	}

	for _, item := range s.CartItems {
		line := SubmissionLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			BatchID:     item.BatchID,
			LotNumber:   item.LotNumber,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			TotalPrice:  item.TotalPrice,
		}
		if len(item.FefoBatches) > 0 {
			line.Deductions = make([]StockDeduction, 0, len(item.FefoBatches))
			for _, c := range item.FefoBatches {
				line.Deductions = append(line.Deductions, StockDeduction{
					BatchID:   c.BatchID,
					LotNumber: c.LotNumber,
					Quantity:  c.Quantity,
				})
			}
		} else {
			line.Deductions = []StockDeduction{{
				BatchID:   item.BatchID,
				LotNumber: item.LotNumber,
				Quantity:  item.Quantity,
			}}
		}
		sub.Lines = append(sub.Lines, line)
	}

	for _, item := range s.ReturnItems {
		sub.Returns = append(sub.Returns, ReturnSubmissionLine{
			ProductID:  item.ProductID,
			BatchID:    item.BatchID,
			LotNumber:  item.LotNumber,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Reason:     item.Reason,
		})
	}

	return sub, nil
}
