package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("sums cart and return totals", func(t *testing.T) {
		state := NewOrderCartState()
		item1 := lineItem("P1", "B1", 2, 200)
		item1.Discount = decimal.NewFromInt(10)
		item2 := lineItem("P2", "B2", 1, 50)
		state = state.addLine(item1).addLine(item2)
		state = state.AddReturnLine(ReturnLineItem{
			ProductID: "P3", BatchID: "B3",
			Quantity: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(30),
		})

		sum := Summarize(state)
		assert.True(t, sum.TotalOrderAmount.Equal(decimal.NewFromInt(250)))
		assert.True(t, sum.TotalDiscount.Equal(decimal.NewFromInt(10)))
		assert.True(t, sum.TotalReturnsAmount.Equal(decimal.NewFromInt(30)))
		assert.True(t, sum.FinalAmount.Equal(decimal.NewFromInt(220)))
	})

	t.Run("final amount floored at zero when returns exceed orders", func(t *testing.T) {
		state := NewOrderCartState().
			addLine(lineItem("P1", "B1", 1, 100)).
			AddReturnLine(ReturnLineItem{ProductID: "P2", BatchID: "B2", TotalPrice: decimal.NewFromInt(500)})

		sum := Summarize(state)
		assert.True(t, sum.FinalAmount.IsZero())
		// The components themselves are not clamped
		assert.True(t, sum.TotalReturnsAmount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("idempotent on unchanged state", func(t *testing.T) {
		state := NewOrderCartState().addLine(lineItem("P1", "B1", 3, 330))
		first := Summarize(state)
		second := Summarize(state)
		require.Equal(t, first, second)
	})

	t.Run("nil and empty states yield zeros", func(t *testing.T) {
		assert.True(t, Summarize(nil).FinalAmount.IsZero())
		sum := Summarize(NewOrderCartState())
		assert.True(t, sum.TotalOrderAmount.IsZero())
		assert.True(t, sum.TotalDiscount.IsZero())
		assert.True(t, sum.TotalReturnsAmount.IsZero())
		assert.True(t, sum.FinalAmount.IsZero())
	})
}
