package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/hugh/bugtracker/internal/bugs"
)

// Sweeper clears assignments whose assignee left the bug's team.
type Sweeper interface {
	SweepDanglingAssignments(ctx context.Context) (int64, error)
}

type Handler struct {
	sweeper Sweeper
	logger  *slog.Logger
}

func NewHandler(bugService *bugs.Service, logger *slog.Logger) *Handler {
	return &Handler{
		sweeper: bugService,
		logger:  logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeAssignmentSweep, h.HandleAssignmentSweep)
}

func (h *Handler) HandleAssignmentSweep(ctx context.Context, t *asynq.Task) error {
	var payload AssignmentSweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	h.logger.Info("starting assignment sweep", "trigger", payload.Trigger)

	cleared, err := h.sweeper.SweepDanglingAssignments(ctx)
	if err != nil {
		h.logger.Error("assignment sweep failed", "error", err)
		return err
	}

	h.logger.Info("completed assignment sweep", "trigger", payload.Trigger, "cleared", cleared)
	return nil
}
