package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeAssignmentSweep = "assignments:sweep"
)

// AssignmentSweepPayload names what started a sweep. It is only logged.
type AssignmentSweepPayload struct {
	Trigger string `json:"trigger,omitempty"`
}

const (
	TriggerSchedule = "schedule"
	TriggerStartup  = "startup"
)

func NewAssignmentSweepTask(payload AssignmentSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAssignmentSweep, data, asynq.MaxRetry(3)), nil
}
