package order

import "github.com/shopspring/decimal"

// Summary holds the aggregate figures derived from the current cart and
// return lists, for display and for submission.
type Summary struct {
	TotalOrderAmount   decimal.Decimal `json:"total_order_amount"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	TotalReturnsAmount decimal.Decimal `json:"total_returns_amount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
}

// Summarize computes the order summary from the cart state. It is a pure
// aggregation: always computable, no hidden state, nil input yields zeros.
// Line totals are not clamped; the final amount is floored at zero.
func Summarize(s *OrderCartState) Summary {
	sum := Summary{
		TotalOrderAmount:   decimal.Zero,
		TotalDiscount:      decimal.Zero,
		TotalReturnsAmount: decimal.Zero,
		FinalAmount:        decimal.Zero,
	}
	if s == nil {
		return sum
	}
	for _, item := range s.CartItems {
		sum.TotalOrderAmount = sum.TotalOrderAmount.Add(item.TotalPrice)
		sum.TotalDiscount = sum.TotalDiscount.Add(item.Discount)
	}
	for _, item := range s.ReturnItems {
		sum.TotalReturnsAmount = sum.TotalReturnsAmount.Add(item.TotalPrice)
	}
	final := sum.TotalOrderAmount.Sub(sum.TotalReturnsAmount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	sum.FinalAmount = final
	return sum
}
