package repositories

import (
	"context"
	"errors"
	"fmt"

	"poketeam/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GORMTeamRepository is a GORM implementation of TeamRepository.
type GORMTeamRepository struct {
	db *gorm.DB
}

// NewGORMTeamRepository creates a new instance of GORMTeamRepository.
func NewGORMTeamRepository(db *gorm.DB) *GORMTeamRepository {
	return &GORMTeamRepository{
		db: db,
	}
}

// Create creates a new team in the database.
func (r *GORMTeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = uuid.New().String()
	}
	if team.PokemonBuilds == nil {
		team.PokemonBuilds = datatypes.JSONSlice[string]{}
	}
	if err := conn(ctx, r.db).Create(team).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateTeamName
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// ListByUser retrieves all teams owned by userID, oldest first.
func (r *GORMTeamRepository) ListByUser(ctx context.Context, userID string) ([]models.Team, error) {
	teams := make([]models.Team, 0)
	if err := conn(ctx, r.db).Scopes(OwnedBy(userID)).Order("created_at, id").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams for user %s: %w", userID, err)
	}
	return teams, nil
}

// GetByIDForUser retrieves a team by ID if it is owned by userID.
func (r *GORMTeamRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Team, error) {
	var team models.Team
	if err := conn(ctx, r.db).Scopes(OwnedBy(userID)).First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team by ID %s: %w", id, err)
	}
	return &team, nil
}

// Update overwrites a team in one conditional write filtered on both id and owner.
func (r *GORMTeamRepository) Update(ctx context.Context, team *models.Team) error {
	if team.PokemonBuilds == nil {
		team.PokemonBuilds = datatypes.JSONSlice[string]{}
	}
	res := conn(ctx, r.db).Model(team).
		Scopes(OwnedBy(team.UserID)).
		Select("*").Omit("id", "user_id", "created_at").
		Updates(team)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateTeamName
		}
		return fmt.Errorf("failed to update team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrTeamNotFound
	}
	return nil
}

// Delete deletes a team by its ID if it is owned by userID.
func (r *GORMTeamRepository) Delete(ctx context.Context, id, userID string) error {
	res := conn(ctx, r.db).Scopes(OwnedBy(userID)).Delete(&models.Team{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrTeamNotFound
	}
	return nil
}

// DeleteByUser deletes every team owned by userID and reports how many went.
func (r *GORMTeamRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := conn(ctx, r.db).Scopes(OwnedBy(userID)).Delete(&models.Team{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete teams for user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
