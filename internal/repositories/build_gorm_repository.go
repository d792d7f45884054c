package repositories

import (
	"context"
	"errors"
	"fmt"

	"poketeam/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBuildRepository is a GORM implementation of BuildRepository.
type GORMBuildRepository struct {
	db *gorm.DB
}

// NewGORMBuildRepository creates a new instance of GORMBuildRepository.
func NewGORMBuildRepository(db *gorm.DB) *GORMBuildRepository {
	return &GORMBuildRepository{
		db: db,
	}
}

// Create creates a new build in the database.
func (r *GORMBuildRepository) Create(ctx context.Context, build *models.PokemonBuild) error {
	if build.ID == "" {
		build.ID = uuid.New().String()
	}
	if err := conn(ctx, r.db).Create(build).Error; err != nil {
		return fmt.Errorf("failed to create build: %w", err)
	}
	return nil
}

// ListByUser retrieves all builds owned by userID, oldest first.
func (r *GORMBuildRepository) ListByUser(ctx context.Context, userID string) ([]models.PokemonBuild, error) {
	builds := make([]models.PokemonBuild, 0)
	if err := conn(ctx, r.db).Scopes(OwnedBy(userID)).Order("created_at, id").Find(&builds).Error; err != nil {
		return nil, fmt.Errorf("failed to list builds for user %s: %w", userID, err)
	}
	return builds, nil
}

// ListExcluding retrieves the builds owned by userID whose id is not in excludeIDs.
func (r *GORMBuildRepository) ListExcluding(ctx context.Context, userID string, excludeIDs []string) ([]models.PokemonBuild, error) {
	q := conn(ctx, r.db).Scopes(OwnedBy(userID))
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	builds := make([]models.PokemonBuild, 0)
	if err := q.Order("created_at, id").Find(&builds).Error; err != nil {
		return nil, fmt.Errorf("failed to list available builds for user %s: %w", userID, err)
	}
	return builds, nil
}

// GetByIDForUser retrieves a build by ID if it is owned by userID.
func (r *GORMBuildRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.PokemonBuild, error) {
	var build models.PokemonBuild
	if err := conn(ctx, r.db).Scopes(OwnedBy(userID)).First(&build, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrBuildNotFound
		}
		return nil, fmt.Errorf("failed to get build by ID %s: %w", id, err)
	}
	return &build, nil
}

// GetByIDsForUser retrieves the builds among ids that are owned by userID.
// Unknown or foreign ids are silently absent from the result.
func (r *GORMBuildRepository) GetByIDsForUser(ctx context.Context, userID string, ids []string) ([]models.PokemonBuild, error) {
	builds := make([]models.PokemonBuild, 0, len(ids))
	if len(ids) == 0 {
		return builds, nil
	}
	if err := conn(ctx, r.db).Scopes(OwnedBy(userID)).Where("id IN ?", ids).Find(&builds).Error; err != nil {
		return nil, fmt.Errorf("failed to get builds for user %s: %w", userID, err)
	}
	return builds, nil
}

// Update overwrites a build in one conditional write filtered on both id and owner.
func (r *GORMBuildRepository) Update(ctx context.Context, build *models.PokemonBuild) error {
	res := conn(ctx, r.db).Model(build).
		Scopes(OwnedBy(build.UserID)).
		Select("*").Omit("id", "user_id", "created_at").
		Updates(build)
	if res.Error != nil {
		return fmt.Errorf("failed to update build: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrBuildNotFound
	}
	return nil
}

// Delete deletes a build by its ID if it is owned by userID.
func (r *GORMBuildRepository) Delete(ctx context.Context, id, userID string) error {
	res := conn(ctx, r.db).Scopes(OwnedBy(userID)).Delete(&models.PokemonBuild{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete build: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrBuildNotFound
	}
	return nil
}

// DeleteByUser deletes every build owned by userID and reports how many went.
func (r *GORMBuildRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := conn(ctx, r.db).Scopes(OwnedBy(userID)).Delete(&models.PokemonBuild{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete builds for user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
