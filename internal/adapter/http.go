package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/avelarde/comandero/internal/config"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/utils"
	"github.com/avelarde/comandero/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	terminalID string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout. The timeout bounds every dispatch
// call so a hung request cannot stall a drain cycle.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, terminalID: appCfg.TerminalID, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// CreateOrder implements [ServerAdapter]. It POSTs the order payload to
// POST /api/orders and returns the authoritative order record decoded from
// the response envelope.
func (h *httpServerAdapter) CreateOrder(ctx context.Context, req models.OperationRequest) (models.Record, error) {
	return h.mutate(ctx, resty.MethodPost, "/api/orders", req)
}

// CloseOrder implements [ServerAdapter]. It POSTs the settlement payload to
// POST /api/orders/close. Returns [ErrConflict] (wrapped) on HTTP 409.
func (h *httpServerAdapter) CloseOrder(ctx context.Context, req models.OperationRequest) (models.Record, error) {
	return h.mutate(ctx, resty.MethodPost, "/api/orders/close", req)
}

// CloseOrderSplit implements [ServerAdapter]. It POSTs the split settlement
// payload to POST /api/orders/close-split. Returns [ErrConflict] (wrapped) on
// HTTP 409.
func (h *httpServerAdapter) CloseOrderSplit(ctx context.Context, req models.OperationRequest) (models.Record, error) {
	return h.mutate(ctx, resty.MethodPost, "/api/orders/close-split", req)
}

// UpdateOrderStatus implements [ServerAdapter]. It PUTs the status change to
// PUT /api/orders/status.
func (h *httpServerAdapter) UpdateOrderStatus(ctx context.Context, req models.OperationRequest) (models.Record, error) {
	return h.mutate(ctx, resty.MethodPut, "/api/orders/status", req)
}

func (h *httpServerAdapter) mutate(ctx context.Context, method, path string, req models.OperationRequest) (models.Record, error) {
	r := h.terminalRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req)

	var (
		resp *resty.Response
		err  error
	)
	switch method {
	case resty.MethodPut:
		resp, err = r.Put(path)
	default:
		resp, err = r.Post(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var envelope models.APIResponse
	if err = json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, envelope.Error)
	}

	return envelope.Data, nil
}

// ListOrders implements [ServerAdapter]. It GETs /api/orders filtered by
// scope and decodes the collection from the response body.
func (h *httpServerAdapter) ListOrders(ctx context.Context, scope string) (models.Collection, error) {
	return h.list(ctx, "/api/orders", scope)
}

// ListTables implements [ServerAdapter]. It GETs /api/tables filtered by
// scope and decodes the collection from the response body.
func (h *httpServerAdapter) ListTables(ctx context.Context, scope string) (models.Collection, error) {
	return h.list(ctx, "/api/tables", scope)
}

func (h *httpServerAdapter) list(ctx context.Context, path, scope string) (models.Collection, error) {
	resp, err := h.terminalRequest(ctx).
		SetQueryParam("scope", scope).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items models.Collection
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}

	return items, nil
}

func (h *httpServerAdapter) terminalRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if h.terminalID != "" {
		req.SetHeader("X-Terminal-ID", h.terminalID)
	}
	return req
}
