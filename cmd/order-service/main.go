package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/shopd/order-saga/internal/order/app"
	"github.com/shopd/order-saga/internal/order/payment"
	"github.com/shopd/order-saga/internal/order/reconciler"
	"github.com/shopd/order-saga/internal/order/resolver"
	"github.com/shopd/order-saga/internal/order/saga"
	sagalogsqlite "github.com/shopd/order-saga/internal/order/sagalog/sqlite"
	storesqlite "github.com/shopd/order-saga/internal/order/store/sqlite"
	"github.com/shopd/order-saga/internal/pkg/interceptors"
	"github.com/shopd/order-saga/internal/pkg/telemetry"
	"github.com/shopd/order-saga/internal/rpc/catalogv1"
	"github.com/shopd/order-saga/internal/rpc/identityv1"
	"github.com/shopd/order-saga/internal/rpc/orderv1"
	"github.com/shopd/order-saga/internal/rpc/paymentv1"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "order-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	orders, err := storesqlite.Open(getEnv("ORDER_DB_PATH", "./data/orders.db"))
	if err != nil {
		slog.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	defer orders.Close()

	sagaLog, err := sagalogsqlite.Open(getEnv("SAGA_LOG_PATH", "./data/sagalog.db"))
	if err != nil {
		slog.Error("failed to open saga log", "error", err)
		os.Exit(1)
	}
	defer sagaLog.Close()

	identityConn := dial(getEnv("IDENTITY_SERVICE_ADDR", "localhost:9091"))
	defer identityConn.Close()
	catalogConn := dial(getEnv("CATALOG_SERVICE_ADDR", "localhost:9092"))
	defer catalogConn.Close()
	paymentConn := dial(getEnv("PAYMENT_SERVICE_ADDR", "localhost:9093"))
	defer paymentConn.Close()

	res := resolver.New(
		app.NewIdentityLookup(identityv1.NewIdentityClient(identityConn)),
		app.NewCatalogLookup(catalogv1.NewCatalogClient(catalogConn)),
	)
	payments := payment.NewCoordinator(app.NewCharger(paymentv1.NewPaymentClient(paymentConn)))
	orderSaga := saga.New(res, orders, payments, sagaLog)

	// Background job for orders left pending by a payment transport failure.
	rec := reconciler.New(orders, payments, sagaLog, 30*time.Second, 2*time.Minute)
	go rec.Run(ctx)

	addr := ":" + getEnv("PORT", "9090")
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.UnaryServerInterceptor()),
	)
	orderv1.RegisterOrderServer(grpcServer, app.NewServer(orderSaga))

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	slog.Info("order service gRPC running", "addr", addr)

	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func dial(addr string) *grpc.ClientConn {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.UnaryClientInterceptor()),
	)
	if err != nil {
		slog.Error("could not create client", "addr", addr, "error", err)
		os.Exit(1)
	}
	return conn
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
