//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisStoreSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	store     *Store
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container
	url, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	s.store, err = Open(ctx, url, WithPrefix("it:"))
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
	s.NoError(testcontainers.TerminateContainer(s.container))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.store.client.FlushAll(context.Background()).Err())
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	_, ok, err := s.store.Get(ctx, "clergy")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Set(ctx, "clergy", []byte(`[{"id":"c1"}]`)))
	payload, ok, err := s.store.Get(ctx, "clergy")
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`[{"id":"c1"}]`, string(payload))

	raw, err := s.store.client.Get(ctx, "it:clergy").Result()
	s.Require().NoError(err)
	s.NotEmpty(raw)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "settings", []byte(`{}`)))
	existed, err := s.store.Delete(ctx, "settings")
	s.Require().NoError(err)
	s.True(existed)
	existed, err = s.store.Delete(ctx, "settings")
	s.Require().NoError(err)
	s.False(existed)
	s.NoError(s.store.Health(ctx))
}
