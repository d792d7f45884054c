package services

import (
	"context"

	"poketeam/internal/cache"
	"poketeam/internal/models"
	"poketeam/internal/repositories"

	"go.uber.org/zap"
)

// UserService handles account removal.
type UserService struct {
	userRepo  repositories.UserRepository
	buildRepo repositories.BuildRepository
	teamRepo  repositories.TeamRepository
	tx        repositories.Transactor
	cache     cache.Cache
	events    EventPublisher
	log       *zap.SugaredLogger
}

// NewUserService creates a new UserService. buildCache and events may be nil.
func NewUserService(
	userRepo repositories.UserRepository,
	buildRepo repositories.BuildRepository,
	teamRepo repositories.TeamRepository,
	tx repositories.Transactor,
	buildCache cache.Cache,
	events EventPublisher,
	log *zap.SugaredLogger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		buildRepo: buildRepo,
		teamRepo:  teamRepo,
		tx:        tx,
		cache:     buildCache,
		events:    events,
		log:       log.Named("users"),
	}
}

// DeleteUser removes the builds, the teams and finally the user record in one
// transaction. A user may only delete their own account; any other id is
// reported as not found. Re-running after a failure is safe because the
// sub-resource deletes tolerate zero matches.
func (s *UserService) DeleteUser(ctx context.Context, id, requesterID string) (*models.DeleteResult, error) {
	if id != requesterID {
		return nil, models.ErrUserNotFound
	}

	var res models.DeleteResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return err
		}

		var err error
		if res.BuildsDeleted, err = s.buildRepo.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if res.TeamsDeleted, err = s.teamRepo.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, id)
	})
	if err != nil {
		s.log.Warnw("user deletion failed", "user_id", id, "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.BuildsKey(id)); err != nil {
			s.log.Warnw("build cache invalidation failed", "user_id", id, "error", err)
		}
	}
	s.log.Infow("user deleted", "user_id", id, "builds_deleted", res.BuildsDeleted, "teams_deleted", res.TeamsDeleted)
	publishEvent(s.log, s.events, "user.deleted", map[string]interface{}{
		"userID":        id,
		"buildsDeleted": res.BuildsDeleted,
		"teamsDeleted":  res.TeamsDeleted,
	})
	return &res, nil
}
