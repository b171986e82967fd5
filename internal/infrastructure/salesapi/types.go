package salesapi

import "github.com/shopspring/decimal"

// productPayload is the product shape returned by the remote API
type productPayload struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Unit      string          `json:"unit"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// batchPayload is the batch shape returned by the remote API. The API
// returns batches sorted ascending by expiry date; expiry is an RFC 3339
// date or empty for batches without one.
type batchPayload struct {
	ID         string          `json:"id"`
	LotNumber  string          `json:"lot_number"`
	ProductID  string          `json:"product_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Available  decimal.Decimal `json:"available_quantity"`
	ExpiryDate string          `json:"expiry_date,omitempty"`
}

// batchListPayload wraps the batch collection response
type batchListPayload struct {
	Batches []batchPayload `json:"batches"`
}

// createOrderResponse is the order-creation response
type createOrderResponse struct {
	OrderNumber string `json:"order_number"`
}

// errorPayload is the remote API's error envelope
type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
