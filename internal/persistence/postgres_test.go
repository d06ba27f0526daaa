package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/config"
)

func TestPoolConfig(t *testing.T) {
	t.Run("applies limits", func(t *testing.T) {
		poolCfg, err := poolConfig(config.PostgresConfig{
			DSN:             "postgres://jwt:secret@db:5432/identities",
			MaxConns:        8,
			MinConns:        2,
			ConnMaxIdleSec:  30,
			ConnMaxLifeSec:  300,
			ApplicationName: "jwt-demo",
		})
		require.NoError(t, err)
		require.Equal(t, "db", poolCfg.ConnConfig.Host)
		require.Equal(t, "identities", poolCfg.ConnConfig.Database)
		require.Equal(t, int32(8), poolCfg.MaxConns)
		require.Equal(t, int32(2), poolCfg.MinConns)
		require.Equal(t, 30*time.Second, poolCfg.MaxConnIdleTime)
		require.Equal(t, 5*time.Minute, poolCfg.MaxConnLifetime)
		require.Equal(t, "jwt-demo", poolCfg.ConnConfig.RuntimeParams["application_name"])
	})

	t.Run("dsn application name wins", func(t *testing.T) {
		poolCfg, err := poolConfig(config.PostgresConfig{
			DSN:             "postgres://jwt@db/identities?application_name=migrator",
			ApplicationName: "jwt-demo",
		})
		require.NoError(t, err)
		require.Equal(t, "migrator", poolCfg.ConnConfig.RuntimeParams["application_name"])
	})

	tests := []struct {
		name string
		cfg  config.PostgresConfig
		want string
	}{
		{"missing dsn", config.PostgresConfig{DSN: "  "}, "POSTGRES_DSN not provided"},
		{"bad dsn", config.PostgresConfig{DSN: "postgres://jwt@db:notaport/identities"}, "parse POSTGRES_DSN"},
		{"min above max", config.PostgresConfig{DSN: "postgres://jwt@db/identities", MaxConns: 2, MinConns: 4}, "exceeds POSTGRES_MAX_CONNS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := poolConfig(tt.cfg)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewPostgresRejectsMissingDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.Nil(t, pg)
	require.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestPostgresNilSafe(t *testing.T) {
	var pg *Postgres
	require.Nil(t, pg.PoolHandle())
	require.NotPanics(t, pg.Close)
}
