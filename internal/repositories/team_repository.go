package repositories

import (
	"context"

	"poketeam/internal/models"
)

// TeamRepository defines the interface for team data access.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	ListByUser(ctx context.Context, userID string) ([]models.Team, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id, userID string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
