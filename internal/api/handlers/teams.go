package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/bugtracker/internal/api/dto"
	"github.com/hugh/bugtracker/internal/api/middleware"
	"github.com/hugh/bugtracker/internal/api/validation"
	"github.com/hugh/bugtracker/internal/teams"
)

type TeamHandler struct {
	teams  *teams.Service
	logger *slog.Logger
}

func NewTeamHandler(teamService *teams.Service, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{teams: teamService, logger: logger}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}
	if err := requireSelf(r.Context(), req.CreatedBy); err != nil {
		writeError(w, h.logger, err, "Failed to create team")
		return
	}

	team, err := h.teams.CreateTeam(r.Context(), validation.SanitizeText(req.TeamName), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err, "Failed to create team")
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateTeamResponse{
		TeamID:   team.ID.String(),
		JoinCode: team.JoinCode,
	})
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req dto.JoinTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}
	if err := requireSelf(r.Context(), req.UserID); err != nil {
		writeError(w, h.logger, err, "Failed to join team")
		return
	}

	team, err := h.teams.JoinTeam(r.Context(), req.JoinCode, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err, "Failed to join team")
		return
	}

	writeJSON(w, http.StatusOK, dto.JoinTeamResponse{TeamID: team.ID.String()})
}

// Members lists the caller's team. team_id is optional and, when given,
// must name the caller's team.
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	teamID, err := callerTeam(r.Context(), h.teams)
	if err != nil {
		writeError(w, h.logger, err, "Failed to load team members")
		return
	}
	if err := requireOwnTeam(r.URL.Query().Get("team_id"), teamID); err != nil {
		writeError(w, h.logger, err, "Failed to load team members")
		return
	}

	members, err := h.teams.Members(r.Context(), teamID)
	if err != nil {
		writeError(w, h.logger, err, "Failed to load team members")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewMemberDTOs(members))
}
