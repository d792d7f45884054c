package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poketeam/internal/models"
	"poketeam/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// TeamService enforces the team membership rules: at most MaxTeamSize
// members, every member a build owned by the team's owner, no duplicate adds.
// Writes to one team are serialized by a per-team lock and run in a single
// transaction.
type TeamService struct {
	teamRepo  repositories.TeamRepository
	buildRepo repositories.BuildRepository
	tx        repositories.Transactor
	locks     *KeyedMutex
	events    EventPublisher
	log       *zap.SugaredLogger
}

// NewTeamService creates a new TeamService. events may be nil.
func NewTeamService(
	teamRepo repositories.TeamRepository,
	buildRepo repositories.BuildRepository,
	tx repositories.Transactor,
	events EventPublisher,
	log *zap.SugaredLogger,
) *TeamService {
	return &TeamService{
		teamRepo:  teamRepo,
		buildRepo: buildRepo,
		tx:        tx,
		locks:     NewKeyedMutex(),
		events:    events,
		log:       log.Named("teams"),
	}
}

// ValidateTeamSize fails with ErrSizeExceeded when members holds more than
// MaxTeamSize entries. Duplicates count.
func ValidateTeamSize(members []string) error {
	if len(members) > models.MaxTeamSize {
		return fmt.Errorf("%w: %d builds, at most %d allowed", models.ErrSizeExceeded, len(members), models.MaxTeamSize)
	}
	return nil
}

// ValidateBuildsOwnership resolves every member against the builds of userID,
// one lookup per member, and fails with ErrOwnershipViolation on the first
// that does not resolve. An empty list always succeeds.
func ValidateBuildsOwnership(ctx context.Context, builds repositories.BuildRepository, members []string, userID string) error {
	for _, id := range members {
		if _, err := builds.GetByIDForUser(ctx, id, userID); err != nil {
			if errors.Is(err, models.ErrBuildNotFound) {
				return fmt.Errorf("%w: build %s", models.ErrOwnershipViolation, id)
			}
			return err
		}
	}
	return nil
}

// CreateTeam validates the initial members and persists a new team.
func (s *TeamService) CreateTeam(ctx context.Context, userID string, in models.TeamInput) (*models.TeamView, error) {
	in.Normalize()
	if in.Name == "" {
		return nil, fmt.Errorf("%w: team name is required", models.ErrValidation)
	}
	if err := ValidateTeamSize(in.PokemonBuilds); err != nil {
		return nil, err
	}
	if err := ValidateBuildsOwnership(ctx, s.buildRepo, in.PokemonBuilds, userID); err != nil {
		return nil, err
	}

	team := &models.Team{
		UserID:        userID,
		Name:          in.Name,
		PokemonBuilds: datatypes.JSONSlice[string](in.PokemonBuilds),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.log.Infow("team created", "team_id", team.ID, "user_id", userID, "members", len(team.PokemonBuilds))
	publishEvent(s.log, s.events, "team.created", map[string]interface{}{"teamID": team.ID, "userID": userID})
	return s.view(ctx, team)
}

// GetAllTeams returns every team of userID with members resolved.
func (s *TeamService) GetAllTeams(ctx context.Context, userID string) ([]models.TeamView, error) {
	teams, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	builds, err := s.buildRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := indexBuilds(builds)

	views := make([]models.TeamView, 0, len(teams))
	for i := range teams {
		views = append(views, models.NewTeamView(&teams[i], byID))
	}
	return views, nil
}

// GetTeam returns one team of userID with members resolved.
func (s *TeamService) GetTeam(ctx context.Context, id, userID string) (*models.TeamView, error) {
	team, err := s.teamRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, team)
}

// UpdateTeam applies patch to a team of userID. A replacement member list
// goes through the same size and ownership checks as creation.
func (s *TeamService) UpdateTeam(ctx context.Context, id, userID string, patch models.TeamPatch) (*models.TeamView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		team, err = s.teamRepo.GetByIDForUser(ctx, id, userID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return fmt.Errorf("%w: team name is required", models.ErrValidation)
			}
			team.Name = name
		}
		if patch.PokemonBuilds != nil {
			members := *patch.PokemonBuilds
			if err := ValidateTeamSize(members); err != nil {
				return err
			}
			if err := ValidateBuildsOwnership(ctx, s.buildRepo, members, userID); err != nil {
				return err
			}
			team.PokemonBuilds = datatypes.JSONSlice[string](members)
		}
		return s.teamRepo.Update(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("team updated", "team_id", id, "user_id", userID)
	publishEvent(s.log, s.events, "team.updated", map[string]interface{}{"teamID": id, "userID": userID})
	return s.view(ctx, team)
}

// DeleteTeam deletes a team of userID. Member builds are left alone.
func (s *TeamService) DeleteTeam(ctx context.Context, id, userID string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.teamRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.log.Infow("team deleted", "team_id", id, "user_id", userID)
	publishEvent(s.log, s.events, "team.deleted", map[string]interface{}{"teamID": id, "userID": userID})
	return nil
}

// AddMember appends buildID to a team of userID. It fails with
// ErrSizeExceeded on a full team, ErrAlreadyMember on a repeat add and
// ErrOwnershipViolation when the build is not owned by userID.
func (s *TeamService) AddMember(ctx context.Context, id, userID, buildID string) (*models.TeamView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		team, err = s.teamRepo.GetByIDForUser(ctx, id, userID)
		if err != nil {
			return err
		}
		if len(team.PokemonBuilds) >= models.MaxTeamSize {
			return fmt.Errorf("%w: team %s is full", models.ErrSizeExceeded, id)
		}
		if team.HasMember(buildID) {
			return fmt.Errorf("%w: build %s", models.ErrAlreadyMember, buildID)
		}
		if err := ValidateBuildsOwnership(ctx, s.buildRepo, []string{buildID}, userID); err != nil {
			return err
		}
		team.PokemonBuilds = append(team.PokemonBuilds, buildID)
		return s.teamRepo.Update(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("build added to team", "team_id", id, "build_id", buildID, "members", len(team.PokemonBuilds))
	publishEvent(s.log, s.events, "team.updated", map[string]interface{}{"teamID": id, "userID": userID, "added": buildID})
	return s.view(ctx, team)
}

// RemoveMember drops buildID from a team of userID. Removing a build that is
// not a member is a no-op.
func (s *TeamService) RemoveMember(ctx context.Context, id, userID, buildID string) (*models.TeamView, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		team, err = s.teamRepo.GetByIDForUser(ctx, id, userID)
		if err != nil {
			return err
		}
		if !team.RemoveMember(buildID) {
			return nil
		}
		return s.teamRepo.Update(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("build removed from team", "team_id", id, "build_id", buildID, "members", len(team.PokemonBuilds))
	publishEvent(s.log, s.events, "team.updated", map[string]interface{}{"teamID": id, "userID": userID, "removed": buildID})
	return s.view(ctx, team)
}

// AvailableBuilds returns the builds of userID that are not members of the team.
func (s *TeamService) AvailableBuilds(ctx context.Context, id, userID string) ([]models.PokemonBuild, error) {
	team, err := s.teamRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.buildRepo.ListExcluding(ctx, userID, team.PokemonBuilds)
}

// PurgeBuild runs deleteBuild and removes buildID from every team of userID,
// all in one transaction. The affected teams are locked before the
// transaction opens.
func (s *TeamService) PurgeBuild(ctx context.Context, userID, buildID string, deleteBuild func(ctx context.Context) error) error {
	teams, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	ids := make([]string, 0)
	for i := range teams {
		if teams[i].HasMember(buildID) {
			ids = append(ids, teams[i].ID)
		}
	}

	unlock := s.locks.LockAll(ids)
	defer unlock()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := deleteBuild(ctx); err != nil {
			return err
		}
		for _, id := range ids {
			team, err := s.teamRepo.GetByIDForUser(ctx, id, userID)
			if errors.Is(err, models.ErrTeamNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if !team.RemoveMember(buildID) {
				continue
			}
			if err := s.teamRepo.Update(ctx, team); err != nil {
				return err
			}
			s.log.Infow("build purged from team", "team_id", id, "build_id", buildID)
		}
		return nil
	})
}

func (s *TeamService) view(ctx context.Context, team *models.Team) (*models.TeamView, error) {
	builds, err := s.buildRepo.GetByIDsForUser(ctx, team.UserID, team.PokemonBuilds)
	if err != nil {
		return nil, err
	}
	v := models.NewTeamView(team, indexBuilds(builds))
	return &v, nil
}

func indexBuilds(builds []models.PokemonBuild) map[string]models.PokemonBuild {
	byID := make(map[string]models.PokemonBuild, len(builds))
	for _, b := range builds {
		byID[b.ID] = b
	}
	return byID
}
