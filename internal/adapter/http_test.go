package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarde/comandero/internal/config"
	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/models"
)

// newTestAdapter builds an httpServerAdapter pointed at the test server.
func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	log := logger.Nop()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second}
	appCfg := config.ClientApp{LocationID: "loc-centro", TerminalID: "term-03"}

	a, err := NewHTTPServerAdapter(adapterCfg, appCfg, log)
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func orderRequest() models.OperationRequest {
	return models.OperationRequest{
		CorrelationID: "corr-1",
		Payload: models.CreateOrderPayload{
			LocationID: "loc-centro",
			TableID:    "T1",
			WaiterID:   "w-9",
			Total:      24.0,
			Items:      []models.OrderItem{{ItemID: "I1", Quantity: 2, UnitPrice: 12.0}},
		},
	}
}

// ── CreateOrder ──────────────────────────────────────────────────────────────

func TestCreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "term-03", r.Header.Get("X-Terminal-ID"))

		var req models.OperationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "corr-1", req.CorrelationID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.APIResponse{
			Data: models.Record{"id": "srv-1", "tableId": "T1", "status": "open"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.CreateOrder(context.Background(), orderRequest())

	require.NoError(t, err)
	assert.Equal(t, "srv-1", got.ID())
	assert.Equal(t, "open", got["status"])
}

func TestCreateOrder_Validation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("items must not be empty"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.CreateOrder(context.Background(), orderRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_EnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.APIResponse{Error: "shift is closed"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.CreateOrder(context.Background(), orderRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "shift is closed")
}

// ── CloseOrder ───────────────────────────────────────────────────────────────

func TestCloseOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/close", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.APIResponse{
			Data: models.Record{"id": "srv-1", "status": "closed"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.CloseOrder(context.Background(), models.OperationRequest{
		Payload: models.CloseOrderPayload{OrderIDs: []string{"srv-1"}, PaymentMethod: "cash", TotalPaid: 24.0, ShiftID: "shift-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "closed", got["status"])
}

func TestCloseOrder_AlreadyClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("order already closed"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.CloseOrder(context.Background(), models.OperationRequest{
		Payload: models.CloseOrderPayload{OrderIDs: []string{"srv-1"}, PaymentMethod: "cash"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

// ── UpdateOrderStatus ───────────────────────────────────────────────────────

func TestUpdateOrderStatus_UsesPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/orders/status", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.APIResponse{
			Data: models.Record{"id": "srv-1", "status": "served"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.UpdateOrderStatus(context.Background(), models.OperationRequest{
		Payload: models.UpdateOrderStatusPayload{OrderID: "srv-1", Status: "served"},
	})

	require.NoError(t, err)
	assert.Equal(t, "served", got["status"])
}

// ── ListOrders / ListTables ─────────────────────────────────────────────────

func TestListOrders_Success(t *testing.T) {
	want := models.Collection{
		{"id": "srv-1", "tableId": "T1", "status": "open"},
		{"id": "srv-2", "tableId": "T2", "status": "open"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "loc-centro", r.URL.Query().Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.ListOrders(context.Background(), "loc-centro")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "srv-1", got[0].ID())
}

func TestListTables_BadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.ListTables(context.Background(), models.ScopeAll)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadGateway)
}

// ── NewHTTPServerAdapter ────────────────────────────────────────────────────

func TestNewHTTPServerAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: "   "}, config.ClientApp{}, logger.Nop())
	require.Error(t, err)
}

func TestNewHTTPServerAdapter_SchemeAdded(t *testing.T) {
	got, err := normalizeBaseURL("pos.example.com:8080")
	require.NoError(t, err)
	assert.Equal(t, "http://pos.example.com:8080", got)
}
