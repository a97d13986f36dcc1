package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/workops/internal/activity"
	"gorm.io/gorm"
)

type Handler struct {
	db        *gorm.DB
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time
}

func NewHandler(db *gorm.DB, logger *slog.Logger, retention time.Duration) *Handler {
	return &Handler{
		db:        db,
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeActivityRecord, h.HandleActivityRecord)
	mux.HandleFunc(TypeActivityPurge, h.HandleActivityPurge)
}

func (h *Handler) HandleActivityRecord(ctx context.Context, t *asynq.Task) error {
	var payload ActivityRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	if err := activity.Store(ctx, h.db, payload.Entry); err != nil {
		return err
	}

	h.logger.Debug("activity recorded",
		"org_id", payload.Entry.OrganizationID,
		"action", payload.Entry.Action,
		"entity_type", payload.Entry.EntityType,
		"entity_id", payload.Entry.EntityID,
	)
	return nil
}

func (h *Handler) HandleActivityPurge(ctx context.Context, t *asynq.Task) error {
	if h.retention <= 0 {
		h.logger.Debug("activity retention disabled, skipping purge")
		return nil
	}

	cutoff := h.now().UTC().Add(-h.retention)
	n, err := activity.Purge(ctx, h.db, cutoff)
	if err != nil {
		return err
	}

	h.logger.Info("activity purged", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	return nil
}
