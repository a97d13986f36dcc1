package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	Base
	Name string `gorm:"not null" json:"name"`

	Memberships []Membership `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}

// Membership links a user to an organization. The (organization, user) pair
// is the primary key, so a user holds exactly one role per organization.
type Membership struct {
	OrganizationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"organization_id"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Role           Role      `gorm:"not null" json:"role"`
	CreatedAt      time.Time `json:"joined_at"`

	User         *User         `gorm:"foreignKey:UserID" json:"-"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (Membership) TableName() string {
	return "org_memberships"
}
