package bugs

import (
	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/apperr"
	"gorm.io/gorm"
)

// Scope restricts which bugs a query sees. AssigneeID, when set, takes
// precedence and TeamID is ignored. Limit caps the ordered result; zero
// means no cap.
type Scope struct {
	TeamID     uuid.UUID
	AssigneeID uuid.UUID
	Limit      int
}

func TeamScope(teamID uuid.UUID) Scope {
	return Scope{TeamID: teamID}
}

func AssigneeScope(userID uuid.UUID) Scope {
	return Scope{AssigneeID: userID}
}

// ByAssignee reports whether the assignee filter is the active one.
func (sc Scope) ByAssignee() bool {
	return sc.AssigneeID != uuid.Nil
}

func (sc Scope) Validate() error {
	if sc.TeamID == uuid.Nil && sc.AssigneeID == uuid.Nil {
		return apperr.Validation("team_id or assignee_id is required")
	}
	if sc.Limit < 0 {
		return apperr.Validation("limit must not be negative")
	}
	return nil
}

// filter adds the scope condition on table's columns.
func (sc Scope) filter(db *gorm.DB, table string) *gorm.DB {
	if sc.ByAssignee() {
		return db.Where(table+".assignee_id = ?", sc.AssigneeID)
	}
	return db.Where(table+".team_id = ?", sc.TeamID)
}
