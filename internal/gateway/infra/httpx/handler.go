package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shopd/order-saga/internal/gateway/core/domain/entity"
	"github.com/shopd/order-saga/internal/gateway/core/ports"
)

// HeaderXUserID carries the authenticated user id. Token validation happens
// upstream of this gateway; by the time a request lands here the identity
// has already been established.
const HeaderXUserID = "X-User-ID"

type Handler struct {
	orders ports.OrderService
}

func NewHandler(orders ports.OrderService) *Handler {
	return &Handler{orders: orders}
}

// CreateOrder runs the checkout: the whole saga executes synchronously and
// the response carries the final persisted state, so a declined payment
// surfaces on this very call rather than on a later poll.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(HeaderXUserID)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(req.ProductIDs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "product_ids must not be empty")
		return
	}
	if req.Payment.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "payment.amount must be positive")
		return
	}

	slog.InfoContext(r.Context(), "creating order", "user_id", userID, "products", len(req.ProductIDs))

	order, err := h.orders.CreateOrder(r.Context(), userID, entity.CreateOrder{
		ProductIDs: req.ProductIDs,
		Address: entity.Address{
			Street:     req.Address.Street,
			City:       req.Address.City,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		},
		Payment: entity.Payment{
			Method: req.Payment.Method,
			Amount: req.Payment.Amount,
		},
	})
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// writeRPCError translates the backend's gRPC status codes into the HTTP
// vocabulary clients act on: retry (502), fix the request (400), show a
// declined-payment message (402), or give up (404).
func writeRPCError(w http.ResponseWriter, err error) {
	st, ok := status.FromError(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	switch st.Code() {
	case codes.InvalidArgument:
		writeError(w, http.StatusBadRequest, "validation_failed", st.Message())
	case codes.NotFound:
		writeError(w, http.StatusNotFound, "not_found", st.Message())
	case codes.FailedPrecondition:
		writeError(w, http.StatusPaymentRequired, "payment_declined", st.Message())
	case codes.Aborted:
		writeError(w, http.StatusConflict, "conflict", st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		writeError(w, http.StatusBadGateway, "dependency_unavailable", st.Message())
	default:
		writeError(w, http.StatusInternalServerError, "internal", st.Message())
	}
}

func toOrderResponse(order *entity.Order) OrderResponse {
	products := make([]ProductResponse, len(order.Products))
	for i, p := range order.Products {
		products[i] = ProductResponse{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
		}
	}
	return OrderResponse{
		ID: order.ID,
		Customer: CustomerResponse{
			UserID: order.Customer.UserID,
			Email:  order.Customer.Email,
			Name:   order.Customer.Name,
		},
		Products: products,
		Address: AddressDTO{
			Street:     order.Address.Street,
			City:       order.Address.City,
			PostalCode: order.Address.PostalCode,
			Country:    order.Address.Country,
		},
		Payment: PaymentDTO{
			Method: order.Payment.Method,
			Amount: order.Payment.Amount,
		},
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		Version:   order.Version,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
