package models

import (
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// MaxTeamSize is the number of builds a team may hold.
const MaxTeamSize = 6

// Team is a named, ordered collection of build references owned by a user.
type Team struct {
	ID            string                      `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string                      `json:"user" gorm:"type:varchar(36);index;not null"`
	Name          string                      `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	PokemonBuilds datatypes.JSONSlice[string] `json:"pokemonBuilds"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// HasMember reports whether buildID is in the member sequence.
func (t *Team) HasMember(buildID string) bool {
	return slices.Contains(t.PokemonBuilds, buildID)
}

// RemoveMember drops buildID from the member sequence, keeping the order of the
// rest. It reports whether anything was removed.
func (t *Team) RemoveMember(buildID string) bool {
	before := len(t.PokemonBuilds)
	t.PokemonBuilds = slices.DeleteFunc(t.PokemonBuilds, func(id string) bool { return id == buildID })
	return len(t.PokemonBuilds) != before
}

// TeamInput is the payload accepted when creating a team.
type TeamInput struct {
	Name          string   `json:"name" validate:"required,max=100"`
	PokemonBuilds []string `json:"pokemonBuilds"`
}

// Normalize trims the team name.
func (in *TeamInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

// TeamPatch carries a partial team update. Nil fields are left untouched.
type TeamPatch struct {
	Name          *string   `json:"name"`
	PokemonBuilds *[]string `json:"pokemonBuilds"`
}

// TeamView is a team with its member builds resolved to summaries.
type TeamView struct {
	ID            string         `json:"_id"`
	UserID        string         `json:"user"`
	Name          string         `json:"name"`
	PokemonBuilds []BuildSummary `json:"pokemonBuilds"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewTeamView resolves the team's members against builds, keyed by id.
// References that no longer resolve are skipped.
func NewTeamView(t *Team, builds map[string]PokemonBuild) TeamView {
	view := TeamView{
		ID:            t.ID,
		UserID:        t.UserID,
		Name:          t.Name,
		PokemonBuilds: make([]BuildSummary, 0, len(t.PokemonBuilds)),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	for _, id := range t.PokemonBuilds {
		if b, ok := builds[id]; ok {
			view.PokemonBuilds = append(view.PokemonBuilds, b.Summary())
		}
	}
	return view
}
