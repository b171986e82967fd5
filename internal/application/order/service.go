package order

import (
	"context"
	"time"

	"github.com/fieldsales/backend/internal/domain/catalog"
	"github.com/fieldsales/backend/internal/domain/inventory"
	"github.com/fieldsales/backend/internal/domain/order"
	"github.com/fieldsales/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubmissionQueue holds composed orders for later delivery when the
// device is offline
type SubmissionQueue interface {
	// Enqueue stores the submission locally and returns the queue entry ID
	Enqueue(ctx context.Context, submission order.OrderSubmission) (uuid.UUID, error)
}

// ComposerService orchestrates one session's order composition flow:
// ledger lookup, FEFO allocation, compliance guarding, cart mutation,
// and submission. All cart transitions go through the pure domain
// operations; the service only loads, transitions, and saves.
type ComposerService struct {
	provider    inventory.BatchProvider
	store       order.CartStore
	submitter   order.OrderSubmitter
	queue       SubmissionQueue
	logger      *zap.Logger
	defaultFefo bool
}

// NewComposerService creates a new ComposerService
func NewComposerService(
	provider inventory.BatchProvider,
	store order.CartStore,
	submitter order.OrderSubmitter,
	queue SubmissionQueue,
	logger *zap.Logger,
	defaultFefo bool,
) *ComposerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComposerService{
		provider:    provider,
		store:       store,
		submitter:   submitter,
		queue:       queue,
		logger:      logger,
		defaultFefo: defaultFefo,
	}
}

// StartSession creates a new composition session with default state
func (s *ComposerService) StartSession(ctx context.Context) (CartResponse, error) {
	sessionID := uuid.NewString()
	state := order.NewOrderCartState()
	if !s.defaultFefo {
		state = state.SetFefoEnabled(false)
	}
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return CartResponse{}, err
	}
	return ToCartResponse(sessionID, state), nil
}

// GetCart returns the current composition state for a session
func (s *ComposerService) GetCart(ctx context.Context, sessionID string) (CartResponse, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return ToCartResponse(sessionID, state), nil
}

// SetCustomer records the order's customer
func (s *ComposerService) SetCustomer(ctx context.Context, sessionID, customerID, customerName string) (CartResponse, error) {
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.SetCustomer(customerID, customerName)
	})
}

// SetStage performs a caller-driven stage transition
func (s *ComposerService) SetStage(ctx context.Context, sessionID string, stage order.Stage) (CartResponse, error) {
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.SetStage(stage)
	})
}

// SetFefoEnabled toggles FEFO enforcement for the session
func (s *ComposerService) SetFefoEnabled(ctx context.Context, sessionID string, enabled bool) (CartResponse, error) {
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.SetFefoEnabled(enabled), nil
	})
}

// SetOnline records the session's network connectivity
func (s *ComposerService) SetOnline(ctx context.Context, sessionID string, online bool) (CartResponse, error) {
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.SetOnline(online), nil
	})
}

// ResetOrder discards the in-progress composition, preserving the FEFO
// policy and connectivity flags
func (s *ComposerService) ResetOrder(ctx context.Context, sessionID string) (CartResponse, error) {
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.Reset(), nil
	})
}

// GetProductBatches returns the expiry-ordered ledger view for a product
// and records it as the session's in-progress product selection
func (s *ComposerService) GetProductBatches(ctx context.Context, sessionID, productID string) (ProductBatchesResponse, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return ProductBatchesResponse{}, err
	}

	product, ledger, err := s.fetchLedger(ctx, productID)
	if err != nil {
		return ProductBatchesResponse{}, err
	}

	sel := state.Selection
	sel.ProductID = productID
	sel.BatchID = ""
	if err := s.store.Save(ctx, sessionID, state.SetSelection(sel)); err != nil {
		return ProductBatchesResponse{}, err
	}

	return ToProductBatchesResponse(product, ledger), nil
}

// PickBatch applies the compliance guard to a manual batch selection and
// records the (possibly corrected) pick in the session
func (s *ComposerService) PickBatch(ctx context.Context, sessionID, productID, batchID string) (BatchView, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return BatchView{}, err
	}

	_, ledger, err := s.fetchLedger(ctx, productID)
	if err != nil {
		return BatchView{}, err
	}

	candidate := ledger.FindBatch(batchID)
	if candidate == nil {
		return BatchView{}, shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found for product")
	}

	picked := order.SelectBatch(state.FefoEnabled, *candidate, ledger)
	if picked.ID != candidate.ID {
		s.logger.Info("batch selection auto-corrected to FEFO-compliant batch",
			zap.String("session_id", sessionID),
			zap.String("product_id", productID),
			zap.String("candidate_batch", candidate.ID),
			zap.String("compliant_batch", picked.ID),
		)
	}

	sel := state.Selection
	sel.ProductID = productID
	sel.BatchID = picked.ID
	if err := s.store.Save(ctx, sessionID, state.SetSelection(sel)); err != nil {
		return BatchView{}, err
	}

	return ToBatchView(picked, time.Now()), nil
}

// AddToCart allocates the requested quantity in FEFO order and admits the
// resulting line item into the cart. On any failure the stored state is
// left untouched.
func (s *ComposerService) AddToCart(ctx context.Context, sessionID string, req AddToCartRequest) (CartResponse, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}

	product, ledger, err := s.fetchLedger(ctx, req.ProductID)
	if err != nil {
		return CartResponse{}, err
	}

	batches := ledger.Batches()
	if req.BatchID != "" {
		candidate := ledger.FindBatch(req.BatchID)
		if candidate == nil {
			return CartResponse{}, shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found for product")
		}
		picked := order.SelectBatch(state.FefoEnabled, *candidate, ledger)
		if !state.FefoEnabled {
			// Manual pick honored: the chosen batch is consumed first,
			// the remainder still drains in expiry order.
			batches = ledger.Prioritized(picked.ID)
		}
	}

	alloc, err := inventory.Allocate(product, batches, decimal.NewFromInt(req.Quantity), req.Discount)
	if err != nil {
		return CartResponse{}, err
	}

	next, err := state.AdmitToCart(order.NewCartLineItem(alloc), ledger)
	if err != nil {
		// Admission failures indicate a bypass of the allocator, not
		// routine operator error; keep a diagnostic trail.
		s.logger.Warn("cart admission rejected",
			zap.String("session_id", sessionID),
			zap.String("product_id", req.ProductID),
			zap.String("batch_id", alloc.BatchID),
			zap.Error(err),
		)
		return CartResponse{}, err
	}

	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return CartResponse{}, err
	}
	return ToCartResponse(sessionID, next), nil
}

// AddReturn adds a return line for a previously fulfilled batch
func (s *ComposerService) AddReturn(ctx context.Context, sessionID string, req AddReturnRequest) (CartResponse, error) {
	if req.Quantity <= 0 {
		return CartResponse{}, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	qty := decimal.NewFromInt(req.Quantity)
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.AddReturnLine(order.ReturnLineItem{
			ProductID:   req.ProductID,
			ProductName: req.ProductName,
			BatchID:     req.BatchID,
			LotNumber:   req.LotNumber,
			UnitPrice:   req.UnitPrice,
			Quantity:    qty,
			TotalPrice:  req.UnitPrice.Mul(qty),
			Reason:      req.Reason,
		}), nil
	})
}

// RemoveLine removes one cart entry by index
func (s *ComposerService) RemoveLine(ctx context.Context, sessionID string, index int) (CartResponse, error) {
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.RemoveLine(index)
	})
}

// RemoveReturnLine removes one return entry by index
func (s *ComposerService) RemoveReturnLine(ctx context.Context, sessionID string, index int) (CartResponse, error) {
	return s.transition(ctx, sessionID, func(state *order.OrderCartState) (*order.OrderCartState, error) {
		return state.RemoveReturnLine(index)
	})
}

// Summary returns the aggregate order figures for the session
func (s *ComposerService) Summary(ctx context.Context, sessionID string) (order.Summary, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return order.Summary{}, err
	}
	return order.Summarize(state), nil
}

// Submit hands the composed order to the order-creation API, or queues it
// locally when the session is offline. On success the composition resets,
// preserving session policy flags.
func (s *ComposerService) Submit(ctx context.Context, sessionID string) (SubmitResponse, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return SubmitResponse{}, err
	}

	submission, err := order.BuildSubmission(state)
	if err != nil {
		return SubmitResponse{}, err
	}

	var resp SubmitResponse
	if state.Online {
		orderNumber, err := s.submitter.SubmitOrder(ctx, submission)
		if err != nil {
			return SubmitResponse{}, err
		}
		resp.OrderNumber = orderNumber
		s.logger.Info("order submitted",
			zap.String("session_id", sessionID),
			zap.String("order_number", orderNumber),
		)
	} else {
		queueID, err := s.queue.Enqueue(ctx, submission)
		if err != nil {
			return SubmitResponse{}, err
		}
		resp.Queued = true
		resp.QueueID = queueID.String()
		s.logger.Info("order queued for later submission",
			zap.String("session_id", sessionID),
			zap.String("queue_id", resp.QueueID),
		)
	}

	if err := s.store.Save(ctx, sessionID, state.Reset()); err != nil {
		return SubmitResponse{}, err
	}
	return resp, nil
}

// transition loads the session state, applies a pure state transition,
// and saves the result. Failed transitions never write.
func (s *ComposerService) transition(ctx context.Context, sessionID string, fn func(*order.OrderCartState) (*order.OrderCartState, error)) (CartResponse, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	next, err := fn(state)
	if err != nil {
		return CartResponse{}, err
	}
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return CartResponse{}, err
	}
	return ToCartResponse(sessionID, next), nil
}

// fetchLedger loads a product and its validated batch ledger
func (s *ComposerService) fetchLedger(ctx context.Context, productID string) (product catalog.Product, ledger inventory.BatchLedger, err error) {
	product, err = s.provider.FetchProduct(ctx, productID)
	if err != nil {
		return product, ledger, err
	}
	batches, err := s.provider.FetchBatchesForProduct(ctx, productID)
	if err != nil {
		return product, ledger, err
	}
	ledger = inventory.NewBatchLedger(batches)
	if err = ledger.Validate(); err != nil {
		return product, ledger, err
	}
	return product, ledger, nil
}
