package bugs

import (
	"context"

	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/database/models"
)

// Summary counts bugs in a scope. Critical means High priority and not yet
// Resolved.
type Summary struct {
	Total      int64 `json:"total"`
	Critical   int64 `json:"critical"`
	Resolved   int64 `json:"resolved"`
	InProgress int64 `json:"in_progress"`
}

const summarySelect = `COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN priority = ? AND status <> ? THEN 1 ELSE 0 END), 0) AS critical,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS resolved,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress`

// Summarize computes all four counters in a single aggregate statement so
// they describe the same snapshot. Scope.Limit is ignored.
func (s *Service) Summarize(ctx context.Context, scope Scope) (*Summary, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Model(&models.Bug{}).
		Select(summarySelect,
			models.PriorityHigh, models.StatusResolved,
			models.StatusResolved,
			models.StatusInProgress,
		)

	var summary Summary
	if err := scope.filter(q, "bugs").Scan(&summary).Error; err != nil {
		return nil, apperr.Storage("summarizing bugs", err)
	}
	return &summary, nil
}
