package models

import "time"

// User represents an account that owns builds and teams.
type User struct {
	ID           string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // Never serialized
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DeleteResult reports how many records a user deletion removed.
type DeleteResult struct {
	BuildsDeleted int64 `json:"buildsDeleted"`
	TeamsDeleted  int64 `json:"teamsDeleted"`
}
