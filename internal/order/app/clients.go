package app

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shopd/order-saga/internal/order/domain"
	"github.com/shopd/order-saga/internal/order/payment"
	"github.com/shopd/order-saga/internal/order/resolver"
	"github.com/shopd/order-saga/internal/rpc/catalogv1"
	"github.com/shopd/order-saga/internal/rpc/identityv1"
	"github.com/shopd/order-saga/internal/rpc/paymentv1"
)

// identityLookup adapts the identity gRPC client to the resolver port.
type identityLookup struct {
	client identityv1.IdentityClient
}

var _ resolver.IdentityLookup = (*identityLookup)(nil)

func NewIdentityLookup(client identityv1.IdentityClient) resolver.IdentityLookup {
	return &identityLookup{client: client}
}

func (l *identityLookup) Lookup(ctx context.Context, userID string) (domain.Customer, error) {
	resp, err := l.client.GetUserInfo(ctx, &identityv1.GetUserInfoRequest{UserID: userID})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.Customer{}, fmt.Errorf("user %s: %w", userID, domain.ErrUserNotFound)
		}
		return domain.Customer{}, err
	}
	return domain.Customer{
		UserID: resp.ID,
		Email:  resp.Email,
		Name:   resp.Name,
	}, nil
}

// catalogLookup adapts the catalog gRPC client to the resolver port. Unknown
// ids are reported by the catalog as absent records, not as an RPC error, so
// any error here is a transport failure.
type catalogLookup struct {
	client catalogv1.CatalogClient
}

var _ resolver.CatalogLookup = (*catalogLookup)(nil)

func NewCatalogLookup(client catalogv1.CatalogClient) resolver.CatalogLookup {
	return &catalogLookup{client: client}
}

func (l *catalogLookup) Lookup(ctx context.Context, productIDs []string) ([]domain.ProductSnapshot, error) {
	resp, err := l.client.GetProductsInfo(ctx, &catalogv1.GetProductsInfoRequest{ProductIDs: productIDs})
	if err != nil {
		return nil, err
	}
	snapshots := make([]domain.ProductSnapshot, len(resp.Products))
	for i, p := range resp.Products {
		snapshots[i] = domain.ProductSnapshot{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
		}
	}
	return snapshots, nil
}

// charger adapts the payment gRPC client to the coordinator port. A decline
// is a successful RPC with a Declined status, not an error.
type charger struct {
	client paymentv1.PaymentClient
}

var _ payment.Charger = (*charger)(nil)

func NewCharger(client paymentv1.PaymentClient) payment.Charger {
	return &charger{client: client}
}

func (c *charger) Charge(ctx context.Context, orderID string, amount int64, method, payerEmail string) (payment.Outcome, error) {
	resp, err := c.client.MakePayment(ctx, &paymentv1.MakePaymentRequest{
		OrderID:   orderID,
		Amount:    amount,
		Method:    method,
		UserEmail: payerEmail,
	})
	if err != nil {
		return payment.Outcome{}, err
	}
	return payment.Outcome{
		Approved: resp.PaymentStatus == paymentv1.StatusApproved,
		Raw:      resp.PaymentStatus,
	}, nil
}
