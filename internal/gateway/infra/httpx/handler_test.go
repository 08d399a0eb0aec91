package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shopd/order-saga/internal/gateway/core/domain/entity"
)

type stubOrderService struct {
	order     *entity.Order
	createErr error
	getErr    error

	gotUserID string
	gotCreate entity.CreateOrder
	gotID     string
}

func (s *stubOrderService) CreateOrder(ctx context.Context, userID string, req entity.CreateOrder) (*entity.Order, error) {
	s.gotUserID = userID
	s.gotCreate = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.order, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	s.gotID = orderID
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:       "ord-1",
		Customer: entity.Customer{UserID: "user-1", Email: "amelie@example.com", Name: "Amelie"},
		Products: []entity.Product{{ProductID: "p1", Name: "Grinder", Price: 1000}},
		Address:  entity.Address{Street: "1 Main St", City: "Utrecht", PostalCode: "3511", Country: "NL"},
		Payment:  entity.Payment{Method: "card", Amount: 1000},
		Status:   "paymentProcessed",
		Version:  1,
	}
}

func newTestRouter(svc *stubOrderService) http.Handler {
	return NewRouter(NewHandler(svc), prometheus.NewRegistry())
}

func createBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(CreateOrderRequest{
		ProductIDs: []string{"p1"},
		Address:    AddressDTO{Street: "1 Main St", City: "Utrecht", PostalCode: "3511", Country: "NL"},
		Payment:    PaymentDTO{Method: "card", Amount: 1000},
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestCreateOrder_Created(t *testing.T) {
	svc := &stubOrderService{order: sampleOrder()}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders", createBody(t))
	req.Header.Set(HeaderXUserID, "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", svc.gotUserID)
	assert.Equal(t, []string{"p1"}, svc.gotCreate.ProductIDs)

	var resp OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ord-1", resp.ID)
	assert.Equal(t, "paymentProcessed", resp.Status)
	assert.Equal(t, int64(1000), resp.Payment.Amount)
}

func TestCreateOrder_MissingUserHeader(t *testing.T) {
	router := newTestRouter(&stubOrderService{order: sampleOrder()})

	req := httptest.NewRequest(http.MethodPost, "/orders", createBody(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_BadJSON(t *testing.T) {
	router := newTestRouter(&stubOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json"))
	req.Header.Set(HeaderXUserID, "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_EmptyProducts(t *testing.T) {
	router := newTestRouter(&stubOrderService{})

	body, err := json.Marshal(CreateOrderRequest{
		Payment: PaymentDTO{Method: "card", Amount: 1000},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set(HeaderXUserID, "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "invalid_request", resp.Error)
}

func TestCreateOrder_BackendStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantHTTP  int
		wantError string
	}{
		{"invalid argument", status.Error(codes.InvalidArgument, "declared amount 3000 does not match 2500"), http.StatusBadRequest, "validation_failed"},
		{"user not found", status.Error(codes.NotFound, "user not found"), http.StatusNotFound, "not_found"},
		{"payment declined", status.Error(codes.FailedPrecondition, "payment declined"), http.StatusPaymentRequired, "payment_declined"},
		{"version conflict", status.Error(codes.Aborted, "version conflict"), http.StatusConflict, "conflict"},
		{"backend down", status.Error(codes.Unavailable, "identity unreachable"), http.StatusBadGateway, "dependency_unavailable"},
		{"deadline", status.Error(codes.DeadlineExceeded, "timed out"), http.StatusBadGateway, "dependency_unavailable"},
		{"unknown", status.Error(codes.Internal, "boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubOrderService{createErr: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/orders", createBody(t))
			req.Header.Set(HeaderXUserID, "user-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantHTTP, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestGetOrderByID_OK(t *testing.T) {
	svc := &stubOrderService{order: sampleOrder()}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/ord-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ord-1", svc.gotID)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	router := newTestRouter(&stubOrderService{getErr: status.Error(codes.NotFound, "order not found")})

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
