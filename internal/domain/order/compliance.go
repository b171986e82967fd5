package order

import (
	"github.com/fieldsales/backend/internal/domain/inventory"
)

// SelectBatch guards a manual batch selection against FEFO policy.
//
// When enforcement is off, or the ledger is empty, the candidate is
// accepted unchanged. Otherwise a candidate that is not the compliant
// batch is silently replaced by the compliant one: an auto-correction,
// not a rejection, so the operator cannot add non-compliant stock through
// manual batch choice. This is deliberately asymmetric with
// OrderCartState.AdmitToCart, which rejects instead: selection is routine
// operator exploration, cart admission is not.
func SelectBatch(fefoEnabled bool, candidate inventory.Batch, ledger inventory.BatchLedger) inventory.Batch {
	if !fefoEnabled || ledger.IsEmpty() {
		return candidate
	}
	compliant := ledger.CompliantBatch()
	if compliant == nil {
		return candidate
	}
	if candidate.ID != compliant.ID {
		return *compliant
	}
	return candidate
}
