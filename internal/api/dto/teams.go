package dto

import (
	"strings"

	"github.com/hugh/bugtracker/internal/api/validation"
	"github.com/hugh/bugtracker/internal/database/models"
)

// CreateTeamRequest names the new team. CreatedBy may be omitted; when
// present it must be the caller's own id.
type CreateTeamRequest struct {
	TeamName  string `json:"team_name"`
	CreatedBy string `json:"created_by"`
}

func (r CreateTeamRequest) Validate() map[string]string {
	errors := make(map[string]string)

	name := strings.TrimSpace(r.TeamName)
	if name == "" {
		errors["team_name"] = "Team name is required"
	} else if validation.TooLong(name, validation.MaxTeamNameLength) {
		errors["team_name"] = "Team name must be at most 100 characters"
	} else if validation.HasActiveContent(name) {
		errors["team_name"] = activeContentMessage("Team name")
	}
	if r.CreatedBy != "" && !validation.IsValidUUID(r.CreatedBy) {
		errors["created_by"] = "Invalid user ID"
	}

	return errors
}

type CreateTeamResponse struct {
	TeamID   string `json:"team_id"`
	JoinCode string `json:"join_code"`
}

// JoinTeamRequest carries a join code. UserID follows the same rule as
// CreateTeamRequest.CreatedBy.
type JoinTeamRequest struct {
	JoinCode string `json:"join_code"`
	UserID   string `json:"user_id"`
}

func (r JoinTeamRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.JoinCode) == "" {
		errors["join_code"] = "Join code is required"
	}
	if r.UserID != "" && !validation.IsValidUUID(r.UserID) {
		errors["user_id"] = "Invalid user ID"
	}

	return errors
}

type JoinTeamResponse struct {
	TeamID string `json:"team_id"`
}

type MemberDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewMemberDTOs(users []models.User) []MemberDTO {
	out := make([]MemberDTO, 0, len(users))
	for _, u := range users {
		out = append(out, MemberDTO{
			ID:       u.ID.String(),
			Username: u.Username,
			Email:    u.Email,
		})
	}
	return out
}
