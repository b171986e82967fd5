package order

import (
	"github.com/fieldsales/backend/internal/domain/inventory"
	"github.com/fieldsales/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Cart-level domain errors
var (
	ErrComplianceViolation = shared.NewDomainError("COMPLIANCE_VIOLATION", "Line item does not reference the FEFO-compliant batch")
	ErrIndexOutOfRange     = shared.NewDomainError("INDEX_OUT_OF_RANGE", "Line item index is out of range")
)

// CartLineItem is one entry in the in-progress order. A line item is
// produced by the FEFO allocator and merged by the cart on duplicate
// (product, primary batch) additions.
type CartLineItem struct {
	ProductID   string
	ProductName string
	// BatchID and LotNumber reference the first contributing batch
	// (earliest expiry), also when the allocation is split.
	BatchID     string
	LotNumber   string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	Discount    decimal.Decimal
	TotalPrice  decimal.Decimal
	MaxQuantity decimal.Decimal
	IsFefoSplit bool
	// FefoBatches lists the per-batch draws when the item is split.
	// Invariant: when IsFefoSplit is true, the contribution quantities
	// sum to Quantity.
	FefoBatches []inventory.BatchContribution
}

// NewCartLineItem builds a cart line item from an allocation
func NewCartLineItem(a inventory.Allocation) CartLineItem {
	return CartLineItem{
		ProductID:   a.ProductID,
		ProductName: a.ProductName,
		BatchID:     a.BatchID,
		LotNumber:   a.LotNumber,
		UnitPrice:   a.UnitPrice,
		Quantity:    a.Quantity,
		Discount:    a.Discount,
		TotalPrice:  a.TotalPrice,
		MaxQuantity: a.MaxQuantity,
		IsFefoSplit: a.IsFefoSplit,
		FefoBatches: a.Contributions,
	}
}

// ReturnLineItem is structurally parallel to CartLineItem but scoped to a
// prior order's already-fulfilled batches. The batch is fixed by the
// historical order, so no FEFO allocation or compliance check applies;
// only the merge-by-(product, batch) rule is shared with the cart.
type ReturnLineItem struct {
	ProductID   string
	ProductName string
	BatchID     string
	LotNumber   string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	TotalPrice  decimal.Decimal
	Reason      string
}

// Selection holds the in-progress allocation flow: the product, batch,
// quantity, and discount the operator is currently composing. It resets
// when a new line item is appended; one allocation flow at a time.
type Selection struct {
	ProductID string
	BatchID   string
	Quantity  decimal.Decimal
	Discount  decimal.Decimal
}

// OrderCartState is the aggregate for one in-progress order composition.
// All transitions are pure: each method returns a new snapshot and leaves
// the receiver untouched, so a failed transition never leaves partial
// writes behind.
type OrderCartState struct {
	CustomerID   string
	CustomerName string
	CartItems    []CartLineItem
	ReturnItems  []ReturnLineItem
	Selection    Selection
	Stage        Stage
	// FefoEnabled controls whether the compliance guard enforces or
	// merely advises. Session policy: preserved across resets.
	FefoEnabled bool
	// Online reflects network connectivity. Session-level, preserved
	// across resets; when false, submissions are queued locally.
	Online bool
}

// NewOrderCartState returns the default composition state
func NewOrderCartState() *OrderCartState {
	return &OrderCartState{
		CartItems:   make([]CartLineItem, 0),
		ReturnItems: make([]ReturnLineItem, 0),
		Stage:       StageSelectCustomer,
		FefoEnabled: true,
		Online:      true,
	}
}

// Clone returns a deep copy of the state
func (s *OrderCartState) Clone() *OrderCartState {
	cp := *s
	cp.CartItems = make([]CartLineItem, len(s.CartItems))
	for i, item := range s.CartItems {
		cp.CartItems[i] = item
		if item.FefoBatches != nil {
			cp.CartItems[i].FefoBatches = make([]inventory.BatchContribution, len(item.FefoBatches))
			copy(cp.CartItems[i].FefoBatches, item.FefoBatches)
		}
	}
	cp.ReturnItems = make([]ReturnLineItem, len(s.ReturnItems))
	copy(cp.ReturnItems, s.ReturnItems)
	return &cp
}

// SetCustomer records the customer for the order and advances to product
// selection when still on the customer stage
func (s *OrderCartState) SetCustomer(customerID, customerName string) (*OrderCartState, error) {
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	next := s.Clone()
	next.CustomerID = customerID
	next.CustomerName = customerName
	if next.Stage == StageSelectCustomer {
		next.Stage = StageSelectProducts
	}
	return next, nil
}

// SetStage performs a caller-driven stage transition
func (s *OrderCartState) SetStage(target Stage) (*OrderCartState, error) {
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Unknown order stage")
	}
	if !s.Stage.CanTransitionTo(target) {
		return nil, shared.ErrInvalidState
	}
	next := s.Clone()
	next.Stage = target
	return next, nil
}

// SetFefoEnabled toggles the FEFO enforcement policy for the session
func (s *OrderCartState) SetFefoEnabled(enabled bool) *OrderCartState {
	next := s.Clone()
	next.FefoEnabled = enabled
	return next
}

// SetOnline records the network connectivity of the session
func (s *OrderCartState) SetOnline(online bool) *OrderCartState {
	next := s.Clone()
	next.Online = online
	return next
}

// SetSelection records the in-progress allocation flow
func (s *OrderCartState) SetSelection(sel Selection) *OrderCartState {
	next := s.Clone()
	next.Selection = sel
	return next
}

// addLine inserts or merges a line item on the (product, primary batch)
// key. On merge, quantity, discount, and total price are summed, the split
// flag is OR-ed, and the contribution list is replaced by the incoming
// item's when present. On append, the in-progress selection resets.
// After addLine no two line items share a (product, primary batch) pair.
func (s *OrderCartState) addLine(item CartLineItem) *OrderCartState {
	next := s.Clone()
	for i := range next.CartItems {
		existing := &next.CartItems[i]
		if existing.ProductID == item.ProductID && existing.BatchID == item.BatchID {
			existing.Quantity = existing.Quantity.Add(item.Quantity)
			existing.Discount = existing.Discount.Add(item.Discount)
			existing.TotalPrice = existing.TotalPrice.Add(item.TotalPrice)
			existing.IsFefoSplit = existing.IsFefoSplit || item.IsFefoSplit
			if item.FefoBatches != nil {
				existing.FefoBatches = item.FefoBatches
			}
			existing.MaxQuantity = item.MaxQuantity
			return next
		}
	}
	next.CartItems = append(next.CartItems, item)
	next.Selection = Selection{}
	return next
}

// AdmitToCart validates the line item against FEFO policy and inserts it.
// A non-split item whose primary batch is not the compliant batch is
// rejected outright with ErrComplianceViolation: by this point the item
// should have been produced by the allocator, so a mismatch indicates a
// bypass, not routine operator exploration.
func (s *OrderCartState) AdmitToCart(item CartLineItem, ledger inventory.BatchLedger) (*OrderCartState, error) {
	if s.FefoEnabled && !item.IsFefoSplit {
		if compliant := ledger.CompliantBatch(); compliant != nil && item.BatchID != compliant.ID {
			return nil, ErrComplianceViolation
		}
	}
	return s.addLine(item), nil
}

// AddReturnLine inserts or merges a return line item on the
// (product, batch) key. Return batches come from a fulfilled order, so
// there is no compliance check.
func (s *OrderCartState) AddReturnLine(item ReturnLineItem) *OrderCartState {
	next := s.Clone()
	for i := range next.ReturnItems {
		existing := &next.ReturnItems[i]
		if existing.ProductID == item.ProductID && existing.BatchID == item.BatchID {
			existing.Quantity = existing.Quantity.Add(item.Quantity)
			existing.TotalPrice = existing.TotalPrice.Add(item.TotalPrice)
			return next
		}
	}
	next.ReturnItems = append(next.ReturnItems, item)
	return next
}

// RemoveLine removes exactly one cart entry, preserving the order of the
// rest. An out-of-bounds index is rejected and the state is unchanged.
func (s *OrderCartState) RemoveLine(index int) (*OrderCartState, error) {
	if index < 0 || index >= len(s.CartItems) {
		return nil, ErrIndexOutOfRange
	}
	next := s.Clone()
	next.CartItems = append(next.CartItems[:index], next.CartItems[index+1:]...)
	return next, nil
}

// RemoveReturnLine removes exactly one return entry
func (s *OrderCartState) RemoveReturnLine(index int) (*OrderCartState, error) {
	if index < 0 || index >= len(s.ReturnItems) {
		return nil, ErrIndexOutOfRange
	}
	next := s.Clone()
	next.ReturnItems = append(next.ReturnItems[:index], next.ReturnItems[index+1:]...)
	return next, nil
}

// Reset discards the in-progress composition and restores defaults.
// Reset is scoped to order-composition data only: the FEFO policy flag
// and the connectivity flag survive, they are session-level state.
func (s *OrderCartState) Reset() *OrderCartState {
	next := NewOrderCartState()
	next.FefoEnabled = s.FefoEnabled
	next.Online = s.Online
	return next
}

// IsEmpty returns true when the composition holds no cart or return lines
func (s *OrderCartState) IsEmpty() bool {
	return len(s.CartItems) == 0 && len(s.ReturnItems) == 0
}
