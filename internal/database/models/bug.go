package models

import "github.com/google/uuid"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

type Bug struct {
	Base
	// TeamID never changes after creation.
	TeamID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"team_id"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`

	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Priority    Priority `gorm:"not null;index" json:"priority"`
	Status      Status   `gorm:"not null;index;default:'Open'" json:"status"`

	// Relationships
	Team     *Team `gorm:"foreignKey:TeamID" json:"-"`
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"-"`
}

func (Bug) TableName() string {
	return "bugs"
}
