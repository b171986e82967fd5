package catalog

import "github.com/shopspring/decimal"

// Product is a read-only snapshot of a product supplied by the
// distribution company's API. The engine never mutates products;
// it only references them when composing order lines.
type Product struct {
	ID        string
	Name      string
	Code      string
	Unit      string
	SalePrice decimal.Decimal // List price; batch prices take precedence
}

// IsZero returns true if the snapshot carries no product
func (p Product) IsZero() bool {
	return p.ID == ""
}
