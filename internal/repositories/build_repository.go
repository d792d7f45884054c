package repositories

import (
	"context"

	"poketeam/internal/models"
)

// BuildRepository defines the interface for build data access. Every lookup
// by id is scoped to an owner, so a build owned by someone else is
// indistinguishable from a missing one.
type BuildRepository interface {
	Create(ctx context.Context, build *models.PokemonBuild) error
	ListByUser(ctx context.Context, userID string) ([]models.PokemonBuild, error)
	ListExcluding(ctx context.Context, userID string, excludeIDs []string) ([]models.PokemonBuild, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*models.PokemonBuild, error)
	GetByIDsForUser(ctx context.Context, userID string, ids []string) ([]models.PokemonBuild, error)
	Update(ctx context.Context, build *models.PokemonBuild) error
	Delete(ctx context.Context, id, userID string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
