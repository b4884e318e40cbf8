package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/bugtracker/internal/accounts"
	"github.com/hugh/bugtracker/internal/api/dto"
	"github.com/hugh/bugtracker/internal/api/middleware"
)

type AccountHandler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

func NewAccountHandler(accountService *accounts.Service, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accountService, logger: logger}
}

// Delete removes the caller's own account after releasing its assignments.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if err := requireSelf(r.Context(), raw); err != nil {
		writeError(w, h.logger, err, "Failed to delete user")
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, h.logger, err, "Failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "User deleted successfully"})
}
