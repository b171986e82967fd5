package salesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsales/backend/internal/domain/catalog"
	"github.com/fieldsales/backend/internal/domain/inventory"
	"github.com/fieldsales/backend/internal/domain/order"
	"github.com/fieldsales/backend/internal/domain/shared"
)

const (
	expiryDateLayout = "2006-01-02"
	maxResponseBytes = 4 << 20 // 4MB
)

// Client talks to the distribution company's sales API. It implements
// inventory.BatchProvider and order.OrderSubmitter.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

var (
	_ inventory.BatchProvider = (*Client)(nil)
	_ order.OrderSubmitter    = (*Client)(nil)
)

// NewClient creates a sales API client with the given configuration
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}, nil
}

// FetchProduct returns the product snapshot for the given ID
func (c *Client) FetchProduct(ctx context.Context, productID string) (catalog.Product, error) {
	var payload productPayload
	if err := c.get(ctx, fmt.Sprintf("/api/v1/products/%s", productID), &payload); err != nil {
		return catalog.Product{}, err
	}
	return catalog.Product{
		ID:        payload.ID,
		Name:      payload.Name,
		Code:      payload.Code,
		Unit:      payload.Unit,
		SalePrice: payload.SalePrice,
	}, nil
}

// FetchBatchesForProduct returns the product's batches. The remote API
// sorts them ascending by expiry date; that contract is verified here so
// an unsorted response fails loudly instead of corrupting allocations.
func (c *Client) FetchBatchesForProduct(ctx context.Context, productID string) ([]inventory.Batch, error) {
	var payload batchListPayload
	if err := c.get(ctx, fmt.Sprintf("/api/v1/products/%s/batches", productID), &payload); err != nil {
		return nil, err
	}

	batches := make([]inventory.Batch, 0, len(payload.Batches))
	for _, b := range payload.Batches {
		batch := inventory.Batch{
			ID:        b.ID,
			LotNumber: b.LotNumber,
			ProductID: b.ProductID,
			UnitPrice: b.UnitPrice,
			Available: b.Available,
		}
		if b.ExpiryDate != "" {
			expiry, err := time.Parse(expiryDateLayout, b.ExpiryDate)
			if err != nil {
				return nil, fmt.Errorf("batch %s has malformed expiry date %q: %w", b.ID, b.ExpiryDate, err)
			}
			batch.ExpiryDate = expiry
		}
		batches = append(batches, batch)
	}

	if err := inventory.NewBatchLedger(batches).Validate(); err != nil {
		c.logger.Error("remote api returned unsorted batches",
			zap.String("product_id", productID),
			zap.Int("batch_count", len(batches)))
		return nil, err
	}
	return batches, nil
}

// SubmitOrder creates the order remotely and returns its order number
func (c *Client) SubmitOrder(ctx context.Context, submission order.OrderSubmission) (string, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("marshal order submission: %w", err)
	}

	var payload createOrderResponse
	if err := c.post(ctx, "/api/v1/orders", body, &payload); err != nil {
		return "", err
	}
	if payload.OrderNumber == "" {
		return "", fmt.Errorf("order creation response missing order number")
	}
	return payload.OrderNumber, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sales api request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read sales api response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorPayload
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != "" {
			return shared.NewDomainError(apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("sales api returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode sales api response: %w", err)
	}
	return nil
}
