package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/jwt-demo/internal/domain"
)

const identityKeyPrefix = "identity:"

type redisIdentityRepository struct {
	client *redis.Client
}

// NewRedisIdentityRepository stores each identity as a hash under identity:<username>.
func NewRedisIdentityRepository(client *redis.Client) IdentityRepository {
	return &redisIdentityRepository{client: client}
}

func identityKey(username string) string {
	return identityKeyPrefix + username
}

func (r *redisIdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	fields, err := r.client.HGetAll(ctx, identityKey(username)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrIdentityNotFound
	}

	identity := &domain.Identity{
		SubjectID:    fields["subject_id"],
		Username:     username,
		PasswordHash: fields["password_hash"],
	}
	if identity.SubjectID == "" || identity.PasswordHash == "" {
		return nil, fmt.Errorf("identity %q: incomplete record", username)
	}
	identity.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	identity.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields["updated_at"])
	return identity, nil
}

// Upsert writes the identity in one MULTI/EXEC block. created_at is only
// set when absent, so concurrent writers agree on it.
func (r *redisIdentityRepository) Upsert(ctx context.Context, identity *domain.Identity) error {
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339Nano)
	key := identityKey(identity.Username)

	var created *redis.StringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "created_at", stamp)
		pipe.HSet(ctx, key,
			"subject_id", identity.SubjectID,
			"password_hash", identity.PasswordHash,
			"updated_at", stamp,
		)
		created = pipe.HGet(ctx, key, "created_at")
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert identity %q: %w", identity.Username, err)
	}

	identity.CreatedAt, err = time.Parse(time.RFC3339Nano, created.Val())
	if err != nil {
		return fmt.Errorf("identity %q: bad created_at: %w", identity.Username, err)
	}
	identity.UpdatedAt = now
	return nil
}

func (r *redisIdentityRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}
