package dto

import (
	"strings"

	"github.com/hugh/bugtracker/internal/api/validation"
	"github.com/hugh/bugtracker/internal/database/models"
)

type CreateBugRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	TeamID      string     `json:"team_id"`
	AssigneeID  OptionalID `json:"assignee_id"`
}

func (r CreateBugRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" || r.Priority == "" || r.Status == "" {
		errors["fields"] = "Title, Priority, and Status are required"
	}
	if validation.TooLong(r.Title, validation.MaxTitleLength) {
		errors["title"] = "Title must be at most 200 characters"
	} else if validation.HasActiveContent(r.Title) {
		errors["title"] = activeContentMessage("Title")
	}
	if validation.TooLong(r.Description, validation.MaxDescriptionLength) {
		errors["description"] = "Description is too long"
	} else if validation.HasActiveContent(r.Description) {
		errors["description"] = activeContentMessage("Description")
	}
	if r.Priority != "" && !models.Priority(r.Priority).Valid() {
		errors["priority"] = "Priority must be one of: Low, Medium, High"
	}
	if r.Status != "" && !models.Status(r.Status).Valid() {
		errors["status"] = "Status must be one of: Open, In Progress, Resolved"
	}
	if r.TeamID == "" {
		errors["team_id"] = "Team ID is required"
	} else if !validation.IsValidUUID(r.TeamID) {
		errors["team_id"] = "Invalid team ID"
	}
	if r.AssigneeID.Value != "" && !validation.IsValidUUID(r.AssigneeID.Value) {
		errors["assignee_id"] = "Invalid assignee ID"
	}

	return errors
}

type CreateBugResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// UpdateBugRequest holds the fields of a partial update. Nil fields are
// left untouched.
type UpdateBugRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	AssigneeID  OptionalID `json:"assignee_id"`
}

func (r UpdateBugRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Priority == nil && r.Status == nil && !r.AssigneeID.Set
}

func (r UpdateBugRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Empty() {
		errors["fields"] = "No fields to update"
		return errors
	}
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			errors["title"] = "Title must not be empty"
		} else if validation.TooLong(*r.Title, validation.MaxTitleLength) {
			errors["title"] = "Title must be at most 200 characters"
		} else if validation.HasActiveContent(*r.Title) {
			errors["title"] = activeContentMessage("Title")
		}
	}
	if r.Description != nil {
		if validation.TooLong(*r.Description, validation.MaxDescriptionLength) {
			errors["description"] = "Description is too long"
		} else if validation.HasActiveContent(*r.Description) {
			errors["description"] = activeContentMessage("Description")
		}
	}
	if r.Priority != nil && !models.Priority(*r.Priority).Valid() {
		errors["priority"] = "Priority must be one of: Low, Medium, High"
	}
	if r.Status != nil && !models.Status(*r.Status).Valid() {
		errors["status"] = "Status must be one of: Open, In Progress, Resolved"
	}
	if r.AssigneeID.Value != "" && !validation.IsValidUUID(r.AssigneeID.Value) {
		errors["assignee_id"] = "Invalid assignee ID"
	}

	return errors
}

func activeContentMessage(field string) string {
	return field + " must not contain scripts or event handlers"
}
