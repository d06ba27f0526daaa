package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/jwt-demo/internal/domain"
)

type memoryIdentityRepository struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity
}

// NewMemoryIdentityRepository returns an in-process identity set, used for
// the seeded demo identity and in tests.
func NewMemoryIdentityRepository(identities ...domain.Identity) IdentityRepository {
	r := &memoryIdentityRepository{identities: make(map[string]domain.Identity, len(identities))}
	for _, identity := range identities {
		r.identities[identity.Username] = identity
	}
	return r
}

func (r *memoryIdentityRepository) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.identities[username]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	return &identity, nil
}

func (r *memoryIdentityRepository) Upsert(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.identities[identity.Username]; ok {
		identity.CreatedAt = existing.CreatedAt
	} else {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now
	r.identities[identity.Username] = *identity
	return nil
}

func (r *memoryIdentityRepository) Ping(context.Context) error {
	return nil
}
