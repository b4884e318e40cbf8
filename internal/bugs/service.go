package bugs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/database/models"
	"gorm.io/gorm"
)

var ErrBugNotFound = apperr.NotFound("Bug not found")

// Service owns every write to the bugs table. All mutations are single
// statements so concurrent edits of different fields never overwrite each other.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// WithTx returns a Service bound to an open transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, logger: s.logger}
}

// BugView is a bug enriched with its assignee's username.
type BugView struct {
	models.Bug
	AssigneeName *string `json:"assignee_name"`
}

type CreateInput struct {
	TeamID      uuid.UUID
	Title       string
	Description string
	Priority    models.Priority
	Status      models.Status
	// Nil or uuid.Nil means unassigned.
	AssigneeID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Bug, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Title, Priority, and Status are required")
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}
	if in.TeamID == uuid.Nil {
		return nil, apperr.Validation("team_id is required")
	}

	db := s.db.WithContext(ctx)

	var teams int64
	if err := db.Model(&models.Team{}).Where("id = ?", in.TeamID).Count(&teams).Error; err != nil {
		return nil, apperr.Storage("checking team", err)
	}
	if teams == 0 {
		return nil, apperr.NotFound("Team not found")
	}

	assignee := normalizeAssignee(in.AssigneeID)
	if assignee != nil {
		if err := s.requireMember(ctx, *assignee, in.TeamID); err != nil {
			return nil, err
		}
	}

	bug := models.Bug{
		TeamID:      in.TeamID,
		AssigneeID:  assignee,
		Title:       title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
	}
	if err := db.Create(&bug).Error; err != nil {
		return nil, apperr.Storage("creating bug", err)
	}

	s.logger.Info("bug created", "bug_id", bug.ID, "team_id", bug.TeamID)
	return &bug, nil
}

// List returns the bugs in scope, most recent first, with the limit applied
// after ordering.
func (s *Service) List(ctx context.Context, scope Scope) ([]BugView, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	q := scope.filter(s.viewQuery(ctx), "bugs").
		Order("bugs.created_at DESC")
	if scope.Limit > 0 {
		q = q.Limit(scope.Limit)
	}

	views := make([]BugView, 0)
	if err := q.Scan(&views).Error; err != nil {
		return nil, apperr.Storage("listing bugs", err)
	}
	return views, nil
}

// Get returns one bug of teamID.
func (s *Service) Get(ctx context.Context, teamID, bugID uuid.UUID) (*BugView, error) {
	var views []BugView
	if err := s.viewQuery(ctx).
		Where("bugs.id = ? AND bugs.team_id = ?", bugID, teamID).
		Limit(1).
		Scan(&views).Error; err != nil {
		return nil, apperr.Storage("loading bug", err)
	}
	if len(views) == 0 {
		return nil, ErrBugNotFound
	}
	return &views[0], nil
}

// Patch lists the fields an update writes. Nil pointers are left untouched.
// AssigneeSet with a nil AssigneeID clears the assignee.
type Patch struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	Status      *models.Status
	AssigneeSet bool
	AssigneeID  *uuid.UUID
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil && !p.AssigneeSet
}

// Update writes only the supplied columns of a bug owned by teamID, in one
// UPDATE statement.
func (s *Service) Update(ctx context.Context, teamID, bugID uuid.UUID, patch Patch) error {
	if patch.Empty() {
		return apperr.Validation("No fields to update")
	}

	updates := make(map[string]interface{})
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return apperr.Validation("Title must not be empty")
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Priority != nil {
		if err := validatePriority(*patch.Priority); err != nil {
			return err
		}
		updates["priority"] = string(*patch.Priority)
	}
	if patch.Status != nil {
		if err := validateStatus(*patch.Status); err != nil {
			return err
		}
		updates["status"] = string(*patch.Status)
	}
	if patch.AssigneeSet {
		assignee := normalizeAssignee(patch.AssigneeID)
		if assignee != nil {
			if err := s.requireMember(ctx, *assignee, teamID); err != nil {
				return err
			}
			updates["assignee_id"] = *assignee
		} else {
			updates["assignee_id"] = nil
		}
	}

	result := s.db.WithContext(ctx).
		Model(&models.Bug{}).
		Where("id = ? AND team_id = ?", bugID, teamID).
		Updates(updates)
	if result.Error != nil {
		return apperr.Storage("updating bug", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBugNotFound
	}

	s.logger.Debug("bug updated", "bug_id", bugID, "fields", len(updates))
	return nil
}

func (s *Service) Delete(ctx context.Context, teamID, bugID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", bugID, teamID).
		Delete(&models.Bug{})
	if result.Error != nil {
		return apperr.Storage("deleting bug", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBugNotFound
	}

	s.logger.Info("bug deleted", "bug_id", bugID, "team_id", teamID)
	return nil
}

// UnassignAll clears userID from every bug it is assigned to and returns the
// number of bugs touched. Zero matches is not an error.
func (s *Service) UnassignAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Bug{}).
		Where("assignee_id = ?", userID).
		Update("assignee_id", nil)
	if result.Error != nil {
		return 0, apperr.Storage("unassigning bugs", result.Error)
	}
	return result.RowsAffected, nil
}

// UnassignOutsideTeam clears userID from bugs owned by any team other than teamID.
func (s *Service) UnassignOutsideTeam(ctx context.Context, userID, teamID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Bug{}).
		Where("assignee_id = ? AND team_id <> ?", userID, teamID).
		Update("assignee_id", nil)
	if result.Error != nil {
		return 0, apperr.Storage("releasing assignments", result.Error)
	}
	return result.RowsAffected, nil
}

// SweepDanglingAssignments clears every assignment whose assignee is not a
// member of the bug's team.
func (s *Service) SweepDanglingAssignments(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Bug{}).
		Where("assignee_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM users WHERE users.id = bugs.assignee_id AND users.team_id = bugs.team_id)").
		Update("assignee_id", nil)
	if result.Error != nil {
		return 0, apperr.Storage("sweeping assignments", result.Error)
	}
	return result.RowsAffected, nil
}

// IsTeamMember reports whether userID currently belongs to teamID.
func (s *Service) IsTeamMember(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND team_id = ?", userID, teamID).
		Count(&count).Error; err != nil {
		return false, apperr.Storage("checking membership", err)
	}
	return count > 0, nil
}

func (s *Service) requireMember(ctx context.Context, userID, teamID uuid.UUID) error {
	ok, err := s.IsTeamMember(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("Assignee must be a member of the team")
	}
	return nil
}

func (s *Service) viewQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("bugs").
		Select("bugs.*, users.username AS assignee_name").
		Joins("LEFT JOIN users ON users.id = bugs.assignee_id")
}

func normalizeAssignee(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}

func validatePriority(p models.Priority) error {
	if p == "" {
		return apperr.Validation("Title, Priority, and Status are required")
	}
	if !p.Valid() {
		return apperr.Validation("Priority must be one of: Low, Medium, High")
	}
	return nil
}

func validateStatus(st models.Status) error {
	if st == "" {
		return apperr.Validation("Title, Priority, and Status are required")
	}
	if !st.Valid() {
		return apperr.Validation("Status must be one of: Open, In Progress, Resolved")
	}
	return nil
}
