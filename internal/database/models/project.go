package models

import "github.com/google/uuid"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type Project struct {
	Base
	OrganizationID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_projects_org_name,priority:1" json:"organization_id"`
	Name            string        `gorm:"not null;uniqueIndex:idx_projects_org_name,priority:2" json:"name"`
	Status          ProjectStatus `gorm:"not null;index;default:'active'" json:"status"`
	ClientID        *uuid.UUID    `gorm:"type:uuid;index" json:"client_id,omitempty"`
	CreatedByUserID uuid.UUID     `gorm:"type:uuid;not null" json:"created_by_user_id"`

	// RowVersion is replaced on every write; updates must present the
	// value they read.
	RowVersion []byte `gorm:"not null" json:"-"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Client       *Client       `gorm:"foreignKey:ClientID" json:"-"`
	Tasks        []Task        `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

// NewRowVersion returns a fresh version token.
func NewRowVersion() []byte {
	id := uuid.New()
	return id[:]
}
