package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/metrics"
)

// Enqueuer is the part of *asynq.Client the recorder needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueRecorder hands entries to the worker. When enqueueing fails the entry
// goes to fallback instead.
type QueueRecorder struct {
	client   Enqueuer
	fallback activity.Recorder
	logger   *slog.Logger
}

func NewQueueRecorder(client Enqueuer, fallback activity.Recorder, logger *slog.Logger) *QueueRecorder {
	return &QueueRecorder{client: client, fallback: fallback, logger: logger}
}

func (r *QueueRecorder) Record(ctx context.Context, e activity.Entry) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	task, err := NewActivityRecordTask(ActivityRecordPayload{Entry: e})
	if err == nil {
		_, err = r.client.EnqueueContext(context.WithoutCancel(ctx), task)
	}
	if err != nil {
		r.logger.Warn("failed to enqueue activity, recording inline", "error", err, "org_id", e.OrganizationID)
		r.fallback.Record(ctx, e)
		return
	}
	metrics.ActivityRecordedTotal.WithLabelValues("queue").Inc()
}

var _ activity.Recorder = (*QueueRecorder)(nil)
