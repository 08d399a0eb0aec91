// Package app implements the catalog service: a product table with per-id
// Redis caching on the batch lookup path.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/shopd/order-saga/internal/pkg/cache"
	"github.com/shopd/order-saga/internal/rpc/catalogv1"
)

const cacheTTL = 5 * time.Minute

type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"` // minor currency units
}

type Server struct {
	catalogv1.UnimplementedCatalogServer
	mu       sync.RWMutex
	products map[string]Product
	cache    cache.Cache // nil-safe
}

func NewServer(c cache.Cache, products ...Product) *Server {
	s := &Server{
		products: make(map[string]Product, len(products)),
		cache:    c,
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

// SeedProducts is the default catalog for local runs.
func SeedProducts() []Product {
	return []Product{
		{ID: "prod-1", Name: "Espresso Grinder", Price: 12900},
		{ID: "prod-2", Name: "Pour-Over Kettle", Price: 5400},
		{ID: "prod-3", Name: "Ceramic Dripper", Price: 2300},
		{ID: "prod-4", Name: "Barista Scale", Price: 7800},
	}
}

// SetPrice updates a product's list price. Snapshots already taken by
// existing orders are unaffected.
func (s *Server) SetPrice(id string, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Price = price
		s.products[id] = p
	}
}

// GetProductsInfo resolves the requested ids in one batch. Unknown ids are
// simply absent from the response; deciding whether that fails the order is
// the caller's policy.
func (s *Server) GetProductsInfo(ctx context.Context, req *catalogv1.GetProductsInfoRequest) (*catalogv1.GetProductsInfoResponse, error) {
	resp := &catalogv1.GetProductsInfoResponse{}
	seen := make(map[string]bool, len(req.ProductIDs))

	for _, id := range req.ProductIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		if p, ok := s.fromCache(ctx, id); ok {
			resp.Products = append(resp.Products, toProductInfo(p))
			continue
		}

		s.mu.RLock()
		p, ok := s.products[id]
		s.mu.RUnlock()
		if !ok {
			continue
		}
		s.toCache(ctx, p)
		resp.Products = append(resp.Products, toProductInfo(p))
	}
	return resp, nil
}

func (s *Server) fromCache(ctx context.Context, id string) (Product, bool) {
	if s.cache == nil {
		return Product{}, false
	}
	raw, hit, err := s.cache.Get(ctx, s.cache.Key("product", id))
	if err != nil || !hit {
		return Product{}, false
	}
	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Product{}, false
	}
	return p, true
}

func (s *Server) toCache(ctx context.Context, p Product) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.Key("product", p.ID), string(raw), cacheTTL); err != nil {
		slog.WarnContext(ctx, "catalog cache write failed", "product_id", p.ID, "error", err)
	}
}

func toProductInfo(p Product) catalogv1.ProductInfo {
	return catalogv1.ProductInfo{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}
}
