package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/api/middleware"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/bugs"
)

var (
	errNoTeam        = apperr.Forbidden("Create or join a team first")
	errForeignTeam   = apperr.Forbidden("You are not a member of this team")
	errForeignUser   = apperr.Forbidden("You can only act on your own account")
	errForeignMember = apperr.Forbidden("Assignee is not a member of your team")
)

// TeamResolver reads a user's current team from the Datastore.
type TeamResolver interface {
	CurrentTeam(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// MembershipChecker reports whether a user belongs to a team.
type MembershipChecker interface {
	IsTeamMember(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
}

// callerTeam returns the authenticated caller's current team. Onboarding
// callers get a forbidden error.
func callerTeam(ctx context.Context, teams TeamResolver) (uuid.UUID, error) {
	teamID, err := teams.CurrentTeam(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return uuid.Nil, err
	}
	if teamID == uuid.Nil {
		return uuid.Nil, errNoTeam
	}
	return teamID, nil
}

// requireOwnTeam checks that a client-supplied team id, when present, names
// the caller's team.
func requireOwnTeam(raw string, teamID uuid.UUID) error {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return apperr.Validation("Invalid team ID")
	}
	if id != teamID {
		return errForeignTeam
	}
	return nil
}

// requireSelf checks that a client-supplied user id, when present, is the
// authenticated caller.
func requireSelf(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return apperr.Validation("Invalid user ID")
	}
	if id != middleware.GetUserID(ctx) {
		return errForeignUser
	}
	return nil
}

// limitFromQuery parses the optional limit parameter. Zero means no limit.
func limitFromQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("limit must be a positive integer")
	}
	return n, nil
}

// scopeFromQuery builds a bug scope from team_id and assignee_id.
// assignee_id wins over team_id; an assignee must be the caller or a member
// of the caller's team.
func scopeFromQuery(r *http.Request, teamID uuid.UUID, members MembershipChecker) (bugs.Scope, error) {
	q := r.URL.Query()
	var scope bugs.Scope

	if raw := q.Get("assignee_id"); raw != "" {
		assignee, err := uuid.Parse(raw)
		if err != nil {
			return scope, apperr.Validation("Invalid assignee ID")
		}
		if assignee != middleware.GetUserID(r.Context()) {
			ok, err := members.IsTeamMember(r.Context(), assignee, teamID)
			if err != nil {
				return scope, err
			}
			if !ok {
				return scope, errForeignMember
			}
		}
		scope.AssigneeID = assignee
		return scope, nil
	}

	raw := q.Get("team_id")
	if raw == "" {
		return scope, apperr.Validation("team_id or assignee_id is required")
	}
	if err := requireOwnTeam(raw, teamID); err != nil {
		return scope, err
	}
	scope.TeamID = teamID
	return scope, nil
}
