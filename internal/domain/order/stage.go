package order

// Stage represents the order composition stage
type Stage string

const (
	StageSelectCustomer Stage = "SELECT_CUSTOMER"
	StageSelectProducts Stage = "SELECT_PRODUCTS"
	StageReturnProducts Stage = "RETURN_PRODUCTS"
	StageReviewOrder    Stage = "REVIEW_ORDER"
)

// IsValid checks if the stage is a valid Stage
func (s Stage) IsValid() bool {
	switch s {
	case StageSelectCustomer, StageSelectProducts, StageReturnProducts, StageReviewOrder:
		return true
	}
	return false
}

// String returns the string representation of Stage
func (s Stage) String() string {
	return string(s)
}

// CanTransitionTo checks if the stage can transition to the target stage.
// Transitions are caller-driven; there are no automatic timeouts. Review
// is terminal for composition; only a reset leaves it.
func (s Stage) CanTransitionTo(target Stage) bool {
	switch s {
	case StageSelectCustomer:
		return target == StageSelectProducts
	case StageSelectProducts:
		return target == StageReturnProducts || target == StageReviewOrder
	case StageReturnProducts:
		return target == StageSelectProducts || target == StageReviewOrder
	case StageReviewOrder:
		return false
	}
	return false
}
