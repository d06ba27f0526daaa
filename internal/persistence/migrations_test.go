package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationNames(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	require.Equal(t, "001_create_identities.sql", names[0])
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}
