package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shopd/order-saga/internal/rpc/identityv1"
)

type mapCache struct {
	values map[string]string
	gets   int
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]string)}
}

func (c *mapCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.gets++
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.sets++
	c.values[key] = value
	return nil
}

func (c *mapCache) Key(operation, id string) string {
	return operation + ":" + id
}

func TestGetUserInfo_Found(t *testing.T) {
	s := NewServer(nil, SeedUsers()...)

	resp, err := s.GetUserInfo(context.Background(), &identityv1.GetUserInfoRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "amelie@example.com", resp.Email)
	assert.Equal(t, "Amelie Rivera", resp.Name)
}

func TestGetUserInfo_NotFound(t *testing.T) {
	s := NewServer(nil, SeedUsers()...)

	_, err := s.GetUserInfo(context.Background(), &identityv1.GetUserInfoRequest{UserID: "nobody"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetUserInfo_EmptyID(t *testing.T) {
	s := NewServer(nil)

	_, err := s.GetUserInfo(context.Background(), &identityv1.GetUserInfoRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetUserInfo_ReadThroughCache(t *testing.T) {
	c := newMapCache()
	s := NewServer(c, SeedUsers()...)

	_, err := s.GetUserInfo(context.Background(), &identityv1.GetUserInfoRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets, "first lookup populates the cache")

	resp, err := s.GetUserInfo(context.Background(), &identityv1.GetUserInfoRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "amelie@example.com", resp.Email)
	assert.Equal(t, 1, c.sets, "cache hit must not rewrite the entry")
	assert.Equal(t, 2, c.gets)
}

func TestGetUserInfo_MissesAreNotCached(t *testing.T) {
	c := newMapCache()
	s := NewServer(c, SeedUsers()...)

	_, err := s.GetUserInfo(context.Background(), &identityv1.GetUserInfoRequest{UserID: "nobody"})
	require.Error(t, err)
	assert.Zero(t, c.sets)
}
