package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed or missing input fields.
	ErrValidation = errors.New("validation error")
	// ErrTooManyMoves signals a build with more than MaxMoves moves.
	ErrTooManyMoves = fmt.Errorf("too many moves: %w", ErrValidation)
	// ErrDuplicateKey signals a unique constraint violation.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrDuplicateUsername signals a username that is already registered.
	ErrDuplicateUsername = fmt.Errorf("username already exists: %w", ErrDuplicateKey)
	// ErrDuplicateTeamName signals a team name that is already taken.
	ErrDuplicateTeamName = fmt.Errorf("team name already exists: %w", ErrDuplicateKey)
	// ErrUnauthorized signals bad credentials or a bad bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound signals a record that is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrBuildNotFound is returned when a build does not exist or belongs to someone else.
	ErrBuildNotFound = fmt.Errorf("build %w", ErrNotFound)
	// ErrTeamNotFound is returned when a team does not exist or belongs to someone else.
	ErrTeamNotFound = fmt.Errorf("team %w", ErrNotFound)
	// ErrSizeExceeded signals a team that would hold more than MaxTeamSize builds.
	ErrSizeExceeded = errors.New("team size exceeded")
	// ErrOwnershipViolation signals a referenced build the caller does not own.
	ErrOwnershipViolation = errors.New("build ownership violation")
	// ErrAlreadyMember signals a build that is already part of the team.
	ErrAlreadyMember = errors.New("build already in team")
)
