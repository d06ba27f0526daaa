package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jwt-demo/internal/domain"
)

func newRedisRepository(t *testing.T) (IdentityRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisIdentityRepository(client), mr
}

func TestIdentityRepositories(t *testing.T) {
	backends := map[string]func(t *testing.T) IdentityRepository{
		"memory": func(t *testing.T) IdentityRepository { return NewMemoryIdentityRepository() },
		"redis": func(t *testing.T) IdentityRepository {
			repo, _ := newRedisRepository(t)
			return repo
		},
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t)

			require.NoError(t, repo.Ping(ctx))

			_, err := repo.FindByUsername(ctx, "foobar")
			require.ErrorIs(t, err, ErrIdentityNotFound)

			identity := &domain.Identity{SubjectID: "1", Username: "foobar", PasswordHash: "hash-1"}
			require.NoError(t, repo.Upsert(ctx, identity))
			require.False(t, identity.CreatedAt.IsZero())

			found, err := repo.FindByUsername(ctx, "foobar")
			require.NoError(t, err)
			require.Equal(t, "1", found.SubjectID)
			require.Equal(t, "hash-1", found.PasswordHash)

			created := found.CreatedAt
			require.NoError(t, repo.Upsert(ctx, &domain.Identity{SubjectID: "2", Username: "foobar", PasswordHash: "hash-2"}))

			found, err = repo.FindByUsername(ctx, "foobar")
			require.NoError(t, err)
			require.Equal(t, "2", found.SubjectID)
			require.Equal(t, "hash-2", found.PasswordHash)
			require.True(t, created.Equal(found.CreatedAt))
		})
	}
}

func TestIdentityRepositoriesConcurrentUpsert(t *testing.T) {
	backends := map[string]func(t *testing.T) IdentityRepository{
		"memory": func(t *testing.T) IdentityRepository { return NewMemoryIdentityRepository() },
		"redis": func(t *testing.T) IdentityRepository {
			repo, _ := newRedisRepository(t)
			return repo
		},
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t)

			const writers = 8
			written := make([]*domain.Identity, writers)
			errs := make([]error, writers)

			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					written[i] = &domain.Identity{SubjectID: "1", Username: "foobar", PasswordHash: "hash"}
					errs[i] = repo.Upsert(ctx, written[i])
				}(i)
			}
			wg.Wait()

			found, err := repo.FindByUsername(ctx, "foobar")
			require.NoError(t, err)
			for i := 0; i < writers; i++ {
				require.NoError(t, errs[i])
				require.True(t, found.CreatedAt.Equal(written[i].CreatedAt), "writer %d", i)
			}
		})
	}
}

func TestMemoryIdentityRepositorySeed(t *testing.T) {
	repo := NewMemoryIdentityRepository(domain.Identity{SubjectID: "1", Username: "foobar", PasswordHash: "h"})

	found, err := repo.FindByUsername(context.Background(), "foobar")
	require.NoError(t, err)
	require.Equal(t, "1", found.SubjectID)
}

func TestRedisIdentityRepositoryIncompleteRecord(t *testing.T) {
	repo, mr := newRedisRepository(t)
	mr.HSet(identityKey("broken"), "subject_id", "9")

	_, err := repo.FindByUsername(context.Background(), "broken")
	require.ErrorContains(t, err, "incomplete record")
}
