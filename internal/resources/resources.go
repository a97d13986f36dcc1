// Package resources implements the organization-owned entities: clients,
// projects and tasks. Every query is scoped with database.InOrg; callers are
// expected to have passed the organization gate already.
package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// memberOf reports whether userID belongs to orgID. The membership row is
// share-locked until tx ends, so a concurrent removal waits for the caller.
func memberOf(tx *gorm.DB, orgID, userID uuid.UUID) (bool, error) {
	var m models.Membership
	err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type base struct {
	db       *gorm.DB
	recorder activity.Recorder
	logger   *slog.Logger
}

func (b *base) record(ctx context.Context, orgID, actor uuid.UUID, action, entityType string, entityID uuid.UUID) {
	b.recorder.Record(ctx, activity.Entry{
		OrganizationID: orgID,
		ActorUserID:    actor,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
		At:             time.Now().UTC(),
	})
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

func wrap(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
