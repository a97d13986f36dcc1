package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/hugh/workops/internal/activity"
)

// Task type names
const (
	TypeActivityRecord = "activity:record"
	TypeActivityPurge  = "activity:purge"
)

// ActivityRecordPayload is one audit entry to persist.
type ActivityRecordPayload struct {
	Entry activity.Entry `json:"entry"`
}

func NewActivityRecordTask(payload ActivityRecordPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeActivityRecord, data, asynq.Queue("low"), asynq.MaxRetry(5)), nil
}

// ActivityPurgePayload is empty; retention comes from worker config.
type ActivityPurgePayload struct{}

func NewActivityPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeActivityPurge, nil, asynq.Queue("low"))
}
