package models

import "github.com/google/uuid"

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Username     string `gorm:"not null" json:"username"`

	// Nil while the user is onboarding (no team yet).
	TeamID *uuid.UUID `gorm:"type:uuid;index" json:"team_id"`

	// Relationships
	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// HasTeam reports whether the user has left the onboarding state.
func (u *User) HasTeam() bool {
	return u.TeamID != nil && *u.TeamID != uuid.Nil
}
