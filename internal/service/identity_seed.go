package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/auth"
	"github.com/spec-kit/jwt-demo/internal/config"
	"github.com/spec-kit/jwt-demo/internal/domain"
	"github.com/spec-kit/jwt-demo/internal/repository"
)

// SeedIdentity hashes the configured seed password and upserts the identity.
// An empty seed username disables seeding.
func SeedIdentity(ctx context.Context, repo repository.IdentityRepository, cfg config.IdentityConfig, bcryptCost int, logger *zap.Logger) error {
	if strings.TrimSpace(cfg.SeedUsername) == "" {
		return nil
	}
	if cfg.SeedPassword == "" || cfg.SeedSubject == "" {
		return fmt.Errorf("seed identity %q: password and subject are required", cfg.SeedUsername)
	}

	hash, err := auth.HashPassword(cfg.SeedPassword, bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	identity := &domain.Identity{
		SubjectID:    cfg.SeedSubject,
		Username:     cfg.SeedUsername,
		PasswordHash: hash,
	}
	if err := repo.Upsert(ctx, identity); err != nil {
		return fmt.Errorf("seed identity %q: %w", cfg.SeedUsername, err)
	}

	logger.Info("identity seeded", zap.String("username", identity.Username), zap.String("subject_id", identity.SubjectID))
	return nil
}
