package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/api/dto"
	"github.com/hugh/bugtracker/internal/api/validation"
	"github.com/hugh/bugtracker/internal/apperr"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database/models"
)

type BugHandler struct {
	bugs   *bugs.Service
	teams  TeamResolver
	logger *slog.Logger
}

func NewBugHandler(bugService *bugs.Service, teams TeamResolver, logger *slog.Logger) *BugHandler {
	return &BugHandler{bugs: bugService, teams: teams, logger: logger}
}

func (h *BugHandler) List(w http.ResponseWriter, r *http.Request) {
	teamID, err := callerTeam(r.Context(), h.teams)
	if err != nil {
		writeError(w, h.logger, err, "Failed to list bugs")
		return
	}

	scope, err := scopeFromQuery(r, teamID, h.bugs)
	if err != nil {
		writeError(w, h.logger, err, "Failed to list bugs")
		return
	}
	if scope.Limit, err = limitFromQuery(r); err != nil {
		writeError(w, h.logger, err, "Failed to list bugs")
		return
	}

	views, err := h.bugs.List(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err, "Failed to list bugs")
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *BugHandler) Stats(w http.ResponseWriter, r *http.Request) {
	teamID, err := callerTeam(r.Context(), h.teams)
	if err != nil {
		writeError(w, h.logger, err, "Failed to load stats")
		return
	}

	scope, err := scopeFromQuery(r, teamID, h.bugs)
	if err != nil {
		writeError(w, h.logger, err, "Failed to load stats")
		return
	}

	summary, err := h.bugs.Summarize(r.Context(), scope)
	if err != nil {
		writeError(w, h.logger, err, "Failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *BugHandler) Create(w http.ResponseWriter, r *http.Request) {
	teamID, err := callerTeam(r.Context(), h.teams)
	if err != nil {
		writeError(w, h.logger, err, "Failed to create bug")
		return
	}

	var req dto.CreateBugRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}
	if err := requireOwnTeam(req.TeamID, teamID); err != nil {
		writeError(w, h.logger, err, "Failed to create bug")
		return
	}

	assignee, err := req.AssigneeID.UUID()
	if err != nil {
		writeError(w, h.logger, apperr.Validation("Invalid assignee ID"), "Failed to create bug")
		return
	}

	bug, err := h.bugs.Create(r.Context(), bugs.CreateInput{
		TeamID:      teamID,
		Title:       validation.SanitizeText(req.Title),
		Description: validation.SanitizeText(req.Description),
		Priority:    models.Priority(req.Priority),
		Status:      models.Status(req.Status),
		AssigneeID:  assignee,
	})
	if err != nil {
		writeError(w, h.logger, err, "Failed to create bug")
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateBugResponse{
		ID:      bug.ID.String(),
		Message: "Bug created successfully!",
	})
}

func (h *BugHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, bugID, ok := h.bugTarget(w, r, "Failed to load bug")
	if !ok {
		return
	}

	view, err := h.bugs.Get(r.Context(), teamID, bugID)
	if err != nil {
		writeError(w, h.logger, err, "Failed to load bug")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *BugHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID, bugID, ok := h.bugTarget(w, r, "Failed to update bug")
	if !ok {
		return
	}

	var req dto.UpdateBugRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	patch, err := patchFromRequest(req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to update bug")
		return
	}

	if err := h.bugs.Update(r.Context(), teamID, bugID, patch); err != nil {
		writeError(w, h.logger, err, "Failed to update bug")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Bug updated successfully"})
}

func (h *BugHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, bugID, ok := h.bugTarget(w, r, "Failed to delete bug")
	if !ok {
		return
	}

	if err := h.bugs.Delete(r.Context(), teamID, bugID); err != nil {
		writeError(w, h.logger, err, "Failed to delete bug")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Bug deleted successfully"})
}

// bugTarget resolves the caller's team and the {id} path parameter.
func (h *BugHandler) bugTarget(w http.ResponseWriter, r *http.Request, fallback string) (uuid.UUID, uuid.UUID, bool) {
	teamID, err := callerTeam(r.Context(), h.teams)
	if err != nil {
		writeError(w, h.logger, err, fallback)
		return uuid.Nil, uuid.Nil, false
	}

	bugID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid bug ID"})
		return uuid.Nil, uuid.Nil, false
	}

	return teamID, bugID, true
}

func patchFromRequest(req dto.UpdateBugRequest) (bugs.Patch, error) {
	var patch bugs.Patch

	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		patch.Title = &title
	}
	if req.Description != nil {
		desc := validation.SanitizeText(*req.Description)
		patch.Description = &desc
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := models.Status(*req.Status)
		patch.Status = &s
	}
	if req.AssigneeID.Set {
		assignee, err := req.AssigneeID.UUID()
		if err != nil {
			return patch, apperr.Validation("Invalid assignee ID")
		}
		patch.AssigneeSet = true
		patch.AssigneeID = assignee
	}

	return patch, nil
}
