package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jwt-demo/internal/domain"
)

// ErrIdentityNotFound is returned when no identity matches the lookup.
var ErrIdentityNotFound = errors.New("identity not found")

// IdentityRepository defines read access to known identities plus the
// upsert used to seed them at startup.
type IdentityRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	Upsert(ctx context.Context, identity *domain.Identity) error
	Ping(ctx context.Context) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	const query = `
        SELECT subject_id, username, password_hash, created_at, updated_at
        FROM identities WHERE username=$1`

	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&identity.SubjectID,
		&identity.Username,
		&identity.PasswordHash,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) Upsert(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (subject_id, username, password_hash)
        VALUES ($1, $2, $3)
        ON CONFLICT (username) DO UPDATE
        SET subject_id=EXCLUDED.subject_id, password_hash=EXCLUDED.password_hash, updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		identity.SubjectID,
		identity.Username,
		identity.PasswordHash,
	).Scan(&identity.CreatedAt, &identity.UpdatedAt)
}

func (r *identityRepository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return r.pool.Ping(ctx)
}
