// Package jobs runs background work over Asynq: periodic warmup of the
// shared dashboard cache so the first request after an invalidation does
// not pay the upstream round trip.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup repopulates the dashboard snapshot cache.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskDashboardInvalidate bumps the cache version, forcing the next
	// warmup or request to reload from the backend.
	TaskDashboardInvalidate = "dashboard:invalidate"
)

// DashboardWarmupPayload parameterises a warmup run.
type DashboardWarmupPayload struct {
	// Reason is recorded in logs; "cron" or "mutation".
	Reason string `json:"reason"`
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// NewDashboardInvalidateTask constructs an Asynq task.
func NewDashboardInvalidateTask() *asynq.Task {
	return asynq.NewTask(TaskDashboardInvalidate, nil)
}
