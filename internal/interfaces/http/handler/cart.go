package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/fieldsales/backend/internal/application/order"
	"github.com/fieldsales/backend/internal/domain/order"
)

// CartHandler exposes the order composition flow over HTTP. Every
// endpoint is session-scoped; the session ID travels in the path.
type CartHandler struct {
	BaseHandler
	service *apporder.ComposerService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *apporder.ComposerService) *CartHandler {
	return &CartHandler{service: service}
}

// StartSession creates a new composition session
// POST /api/v1/sessions
func (h *CartHandler) StartSession(c *gin.Context) {
	resp, err := h.service.StartSession(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCart returns the session's current composition state
// GET /api/v1/sessions/:sessionID/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	resp, err := h.service.GetCart(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetCustomer records the order's customer
// PUT /api/v1/sessions/:sessionID/customer
func (h *CartHandler) SetCustomer(c *gin.Context) {
	var req SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.SetCustomer(c.Request.Context(), c.Param("sessionID"), req.CustomerID, req.CustomerName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetStage performs a caller-driven stage transition
// PUT /api/v1/sessions/:sessionID/stage
func (h *CartHandler) SetStage(c *gin.Context) {
	var req SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.SetStage(c.Request.Context(), c.Param("sessionID"), order.Stage(req.Stage))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetFefo toggles FEFO enforcement for the session
// PUT /api/v1/sessions/:sessionID/fefo
func (h *CartHandler) SetFefo(c *gin.Context) {
	var req SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.SetFefoEnabled(c.Request.Context(), c.Param("sessionID"), *req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetOnline records the session's network connectivity
// PUT /api/v1/sessions/:sessionID/online
func (h *CartHandler) SetOnline(c *gin.Context) {
	var req SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.SetOnline(c.Request.Context(), c.Param("sessionID"), *req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ResetOrder discards the in-progress composition
// POST /api/v1/sessions/:sessionID/reset
func (h *CartHandler) ResetOrder(c *gin.Context) {
	resp, err := h.service.ResetOrder(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetProductBatches returns the expiry-ordered batch view for a product
// GET /api/v1/sessions/:sessionID/products/:productID/batches
func (h *CartHandler) GetProductBatches(c *gin.Context) {
	resp, err := h.service.GetProductBatches(c.Request.Context(), c.Param("sessionID"), c.Param("productID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PickBatch records a manual batch pick, auto-correcting it to the
// FEFO-compliant batch when enforcement is on
// POST /api/v1/sessions/:sessionID/batch-pick
func (h *CartHandler) PickBatch(c *gin.Context) {
	var req PickBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.PickBatch(c.Request.Context(), c.Param("sessionID"), req.ProductID, req.BatchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddToCart allocates and admits a line item
// POST /api/v1/sessions/:sessionID/cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AddToCart(c.Request.Context(), c.Param("sessionID"), apporder.AddToCartRequest{
		ProductID: req.ProductID,
		BatchID:   req.BatchID,
		Quantity:  req.Quantity,
		Discount:  req.Discount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine removes one cart entry by index
// DELETE /api/v1/sessions/:sessionID/cart/items/:index
func (h *CartHandler) RemoveLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.BadRequest(c, "index must be an integer")
		return
	}
	resp, err := h.service.RemoveLine(c.Request.Context(), c.Param("sessionID"), index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddReturn adds a return line for a previously fulfilled batch
// POST /api/v1/sessions/:sessionID/returns
func (h *CartHandler) AddReturn(c *gin.Context) {
	var req AddReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AddReturn(c.Request.Context(), c.Param("sessionID"), apporder.AddReturnRequest{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		BatchID:     req.BatchID,
		LotNumber:   req.LotNumber,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveReturnLine removes one return entry by index
// DELETE /api/v1/sessions/:sessionID/returns/:index
func (h *CartHandler) RemoveReturnLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.BadRequest(c, "index must be an integer")
		return
	}
	resp, err := h.service.RemoveReturnLine(c.Request.Context(), c.Param("sessionID"), index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetSummary returns the aggregate order figures
// GET /api/v1/sessions/:sessionID/summary
func (h *CartHandler) GetSummary(c *gin.Context) {
	resp, err := h.service.Summary(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Submit hands the composed order to the order-creation API, or queues
// it locally when the session is offline
// POST /api/v1/sessions/:sessionID/submit
func (h *CartHandler) Submit(c *gin.Context) {
	resp, err := h.service.Submit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
