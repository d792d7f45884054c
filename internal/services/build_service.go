package services

import (
	"context"
	"time"

	"poketeam/internal/cache"
	"poketeam/internal/models"
	"poketeam/internal/repositories"

	"go.uber.org/zap"
)

// BuildService handles business logic related to builds. Every operation is
// scoped to the requesting user.
type BuildService struct {
	repo     repositories.BuildRepository
	teams    *TeamService
	tx       repositories.Transactor
	cache    cache.Cache
	cacheTTL time.Duration
	events   EventPublisher
	log      *zap.SugaredLogger
}

// NewBuildService creates a new BuildService. buildCache and events may be nil.
func NewBuildService(
	repo repositories.BuildRepository,
	teams *TeamService,
	tx repositories.Transactor,
	buildCache cache.Cache,
	cacheTTL time.Duration,
	events EventPublisher,
	log *zap.SugaredLogger,
) *BuildService {
	return &BuildService{
		repo:     repo,
		teams:    teams,
		tx:       tx,
		cache:    buildCache,
		cacheTTL: cacheTTL,
		events:   events,
		log:      log.Named("builds"),
	}
}

// CreateBuild validates and stores a new build owned by userID.
func (s *BuildService) CreateBuild(ctx context.Context, userID string, in models.BuildInput) (*models.PokemonBuild, error) {
	build := in.ToBuild(userID)
	if err := build.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, build); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.log.Infow("build created", "build_id", build.ID, "user_id", userID, "species", build.Species)
	publishEvent(s.log, s.events, "build.created", map[string]interface{}{"buildID": build.ID, "userID": userID})
	return build, nil
}

// GetAllBuilds retrieves all builds of userID, from the cache when possible.
func (s *BuildService) GetAllBuilds(ctx context.Context, userID string) ([]models.PokemonBuild, error) {
	key := cache.BuildsKey(userID)
	if s.cache != nil {
		var cached []models.PokemonBuild
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warnw("build cache read failed", "user_id", userID, "error", err)
		} else if found {
			return cached, nil
		}
	}

	builds, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, builds, s.cacheTTL); err != nil {
			s.log.Warnw("build cache write failed", "user_id", userID, "error", err)
		}
	}
	return builds, nil
}

// GetBuildByID retrieves a single build of userID.
func (s *BuildService) GetBuildByID(ctx context.Context, id, userID string) (*models.PokemonBuild, error) {
	return s.repo.GetByIDForUser(ctx, id, userID)
}

// UpdateBuild applies patch to a build of userID. The lookup and the write
// share one transaction and the write itself is conditional on the owner.
func (s *BuildService) UpdateBuild(ctx context.Context, id, userID string, patch models.BuildPatch) (*models.PokemonBuild, error) {
	var build *models.PokemonBuild
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		build, err = s.repo.GetByIDForUser(ctx, id, userID)
		if err != nil {
			return err
		}
		patch.Apply(build)
		if err := build.Validate(); err != nil {
			return err
		}
		return s.repo.Update(ctx, build)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.log.Infow("build updated", "build_id", id, "user_id", userID)
	publishEvent(s.log, s.events, "build.updated", map[string]interface{}{"buildID": id, "userID": userID})
	return build, nil
}

// DeleteBuild deletes a build of userID and pulls it out of every team that
// references it.
func (s *BuildService) DeleteBuild(ctx context.Context, id, userID string) error {
	deleteBuild := func(ctx context.Context) error {
		return s.repo.Delete(ctx, id, userID)
	}

	var err error
	if s.teams != nil {
		err = s.teams.PurgeBuild(ctx, userID, id, deleteBuild)
	} else {
		err = deleteBuild(ctx)
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	s.log.Infow("build deleted", "build_id", id, "user_id", userID)
	publishEvent(s.log, s.events, "build.deleted", map[string]interface{}{"buildID": id, "userID": userID})
	return nil
}

func (s *BuildService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.BuildsKey(userID)); err != nil {
		s.log.Warnw("build cache invalidation failed", "user_id", userID, "error", err)
	}
}
