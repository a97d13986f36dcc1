// Package activity keeps the per-organization audit trail of mutations.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/database"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/metrics"
	"gorm.io/gorm"
)

// Actions
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionMemberAdded   = "member_added"
	ActionMemberRemoved = "member_removed"
	ActionRoleChanged   = "role_changed"
)

// Entity types
const (
	EntityOrganization = "organization"
	EntityMembership   = "membership"
	EntityClient       = "client"
	EntityProject      = "project"
	EntityTask         = "task"
)

type Entry struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	ActorUserID    uuid.UUID `json:"actor_user_id"`
	Action         string    `json:"action"`
	EntityType     string    `json:"entity_type"`
	EntityID       uuid.UUID `json:"entity_id"`
	At             time.Time `json:"at"`
}

// Recorder accepts entries after the mutation they describe has committed.
// Recording is best effort and never fails the caller.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Store persists a single entry.
func Store(ctx context.Context, db *gorm.DB, e Entry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	row := models.Activity{
		OrganizationID: e.OrganizationID,
		ActorUserID:    e.ActorUserID,
		Action:         e.Action,
		EntityType:     e.EntityType,
		EntityID:       e.EntityID,
		CreatedAt:      at,
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("storing activity: %w", err)
	}
	return nil
}

// List returns an organization's entries, newest first.
func List(ctx context.Context, db *gorm.DB, orgID uuid.UUID, page, perPage int) ([]models.Activity, int64, error) {
	query := db.WithContext(ctx).Model(&models.Activity{}).Scopes(database.InOrg(orgID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Activity
	if err := query.Order("created_at DESC").Scopes(database.Paginate(page, perPage)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Purge deletes entries created before cutoff across all organizations.
func Purge(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.Activity{})
	if res.Error != nil {
		return 0, fmt.Errorf("purging activity: %w", res.Error)
	}
	metrics.ActivityPurgedTotal.Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}

// DBRecorder writes entries synchronously.
type DBRecorder struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDBRecorder(db *gorm.DB, logger *slog.Logger) *DBRecorder {
	return &DBRecorder{db: db, logger: logger}
}

func (r *DBRecorder) Record(ctx context.Context, e Entry) {
	if err := Store(ctx, r.db, e); err != nil {
		r.logger.Error("failed to record activity",
			"error", err,
			"org_id", e.OrganizationID,
			"action", e.Action,
			"entity_type", e.EntityType,
		)
		return
	}
	metrics.ActivityRecordedTotal.WithLabelValues("db").Inc()
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) {}
