package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is an audit entry for a mutation inside an organization.
type Activity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_activities_org_created,priority:1" json:"organization_id"`
	ActorUserID    uuid.UUID `gorm:"type:uuid;not null" json:"actor_user_id"`
	Action         string    `gorm:"not null" json:"action"`
	EntityType     string    `gorm:"not null" json:"entity_type"`
	EntityID       uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	CreatedAt      time.Time `gorm:"not null;index:idx_activities_org_created,priority:2" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
