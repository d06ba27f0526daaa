package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/config"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), config.RedisConfig{Addr: addr}, zap.NewNop())
	require.Error(t, err)
}
