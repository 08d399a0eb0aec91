// Package app implements the identity service: a user directory with a
// Redis read-through cache in front of it.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shopd/order-saga/internal/pkg/cache"
	"github.com/shopd/order-saga/internal/rpc/identityv1"
)

const cacheTTL = 10 * time.Minute

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Server struct {
	identityv1.UnimplementedIdentityServer
	mu    sync.RWMutex
	users map[string]User
	cache cache.Cache // nil-safe: lookups go straight to the directory
}

func NewServer(c cache.Cache, users ...User) *Server {
	s := &Server{
		users: make(map[string]User, len(users)),
		cache: c,
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

// SeedUsers is the default directory for local runs.
func SeedUsers() []User {
	return []User{
		{ID: "user-1", Email: "amelie@example.com", Name: "Amelie Rivera"},
		{ID: "user-2", Email: "jonas@example.com", Name: "Jonas Veldt"},
		{ID: "user-3", Email: "mina@example.com", Name: "Mina Okafor"},
	}
}

func (s *Server) GetUserInfo(ctx context.Context, req *identityv1.GetUserInfoRequest) (*identityv1.GetUserInfoResponse, error) {
	if req.UserID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}

	if user, ok := s.fromCache(ctx, req.UserID); ok {
		return toResponse(user), nil
	}

	s.mu.RLock()
	user, ok := s.users[req.UserID]
	s.mu.RUnlock()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "user %s not found", req.UserID)
	}

	s.toCache(ctx, user)
	return toResponse(user), nil
}

func (s *Server) fromCache(ctx context.Context, userID string) (User, bool) {
	if s.cache == nil {
		return User{}, false
	}
	raw, hit, err := s.cache.Get(ctx, s.cache.Key("user", userID))
	if err != nil {
		slog.WarnContext(ctx, "identity cache read failed", "user_id", userID, "error", err)
		return User{}, false
	}
	if !hit {
		return User{}, false
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, false
	}
	return user, true
}

func (s *Server) toCache(ctx context.Context, user User) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.Key("user", user.ID), string(raw), cacheTTL); err != nil {
		slog.WarnContext(ctx, "identity cache write failed", "user_id", user.ID, "error", err)
	}
}

func toResponse(user User) *identityv1.GetUserInfoResponse {
	return &identityv1.GetUserInfoResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}
