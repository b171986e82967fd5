package handler

import "github.com/shopspring/decimal"

// SetCustomerRequest records the order's customer
type SetCustomerRequest struct {
	CustomerID   string `json:"customer_id" binding:"required"`
	CustomerName string `json:"customer_name"`
}

// SetStageRequest asks for a stage transition
type SetStageRequest struct {
	Stage string `json:"stage" binding:"required,orderstage"`
}

// SetFlagRequest toggles a session-level boolean flag
type SetFlagRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// PickBatchRequest records the operator's manual batch pick
type PickBatchRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	BatchID   string `json:"batch_id" binding:"required"`
}

// AddToCartRequest asks for a FEFO allocation of a product into the cart
type AddToCartRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	BatchID   string          `json:"batch_id"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"`
}

// AddReturnRequest adds a return line for an already-fulfilled batch
type AddReturnRequest struct {
	ProductID   string          `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name"`
	BatchID     string          `json:"batch_id" binding:"required"`
	LotNumber   string          `json:"lot_number"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Reason      string          `json:"reason"`
}
