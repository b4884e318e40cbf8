package models

// JoinCodeLength is the number of characters in a team join code.
const JoinCodeLength = 6

type Team struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	JoinCode string `gorm:"size:6;uniqueIndex;not null" json:"join_code"`

	// Relationships
	Members []User `gorm:"foreignKey:TeamID" json:"-"`
	Bugs    []Bug  `gorm:"foreignKey:TeamID" json:"-"`
}

func (Team) TableName() string {
	return "teams"
}
