package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// MaxMoves is the number of moves a build may know.
const MaxMoves = 4

var validate = validator.New()

// Stats holds the six base stats of a build.
type Stats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"specialAttack"`
	SpecialDefense int `json:"specialDefense"`
	Speed          int `json:"speed"`
}

// PokemonBuild is a configured Pokemon owned by a single user.
type PokemonBuild struct {
	ID        string                      `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string                      `json:"user" gorm:"type:varchar(36);index;not null"`
	Species   string                      `json:"species" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Nickname  string                      `json:"nickname,omitempty" validate:"max=100"`
	Nature    string                      `json:"nature,omitempty" validate:"max=50"`
	Ability   string                      `json:"ability,omitempty" validate:"max=100"`
	Item      string                      `json:"item" validate:"max=100"`
	Moves     datatypes.JSONSlice[string] `json:"moves" validate:"max=4"`
	Stats     Stats                       `json:"stats" gorm:"embedded;embeddedPrefix:stat_"`
	CreatedAt time.Time                   `json:"createdAt"`
}

// Normalize trims text fields and replaces a nil move list with an empty one.
func (b *PokemonBuild) Normalize() {
	b.Species = strings.TrimSpace(b.Species)
	b.Nickname = strings.TrimSpace(b.Nickname)
	b.Nature = strings.TrimSpace(b.Nature)
	b.Ability = strings.TrimSpace(b.Ability)
	b.Item = strings.TrimSpace(b.Item)
	if b.Moves == nil {
		b.Moves = datatypes.JSONSlice[string]{}
	}
}

// Validate normalizes the build and checks its field constraints.
func (b *PokemonBuild) Validate() error {
	b.Normalize()
	if len(b.Moves) > MaxMoves {
		return ErrTooManyMoves
	}
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// BuildInput is the payload accepted when creating a build.
type BuildInput struct {
	Species  string   `json:"species"`
	Nickname string   `json:"nickname"`
	Nature   string   `json:"nature"`
	Ability  string   `json:"ability"`
	Item     string   `json:"item"`
	Moves    []string `json:"moves"`
	Stats    Stats    `json:"stats"`
}

// ToBuild converts the input into a build owned by userID.
func (in BuildInput) ToBuild(userID string) *PokemonBuild {
	return &PokemonBuild{
		UserID:   userID,
		Species:  in.Species,
		Nickname: in.Nickname,
		Nature:   in.Nature,
		Ability:  in.Ability,
		Item:     in.Item,
		Moves:    datatypes.JSONSlice[string](in.Moves),
		Stats:    in.Stats,
	}
}

// BuildPatch carries a partial build update. Nil fields are left untouched.
type BuildPatch struct {
	Species  *string   `json:"species"`
	Nickname *string   `json:"nickname"`
	Nature   *string   `json:"nature"`
	Ability  *string   `json:"ability"`
	Item     *string   `json:"item"`
	Moves    *[]string `json:"moves"`
	Stats    *Stats    `json:"stats"`
}

// Apply copies the set fields of the patch onto b. The owner is never touched.
func (p BuildPatch) Apply(b *PokemonBuild) {
	if p.Species != nil {
		b.Species = *p.Species
	}
	if p.Nickname != nil {
		b.Nickname = *p.Nickname
	}
	if p.Nature != nil {
		b.Nature = *p.Nature
	}
	if p.Ability != nil {
		b.Ability = *p.Ability
	}
	if p.Item != nil {
		b.Item = *p.Item
	}
	if p.Moves != nil {
		b.Moves = datatypes.JSONSlice[string](*p.Moves)
	}
	if p.Stats != nil {
		b.Stats = *p.Stats
	}
}

// BuildSummary is the slice of a build embedded in team responses.
type BuildSummary struct {
	ID       string `json:"_id"`
	Species  string `json:"species"`
	Nickname string `json:"nickname,omitempty"`
	Stats    Stats  `json:"stats"`
}

// Summary returns the team-facing view of the build.
func (b PokemonBuild) Summary() BuildSummary {
	return BuildSummary{ID: b.ID, Species: b.Species, Nickname: b.Nickname, Stats: b.Stats}
}
