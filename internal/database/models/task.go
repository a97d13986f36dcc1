package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	Base
	OrganizationID uuid.UUID    `gorm:"type:uuid;index;not null" json:"organization_id"`
	ProjectID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"project_id"`
	Title          string       `gorm:"not null" json:"title"`
	Description    *string      `json:"description,omitempty"`
	Status         TaskStatus   `gorm:"not null;index;default:'todo'" json:"status"`
	Priority       TaskPriority `gorm:"not null;default:'medium'" json:"priority"`
	AssigneeUserID *uuid.UUID   `gorm:"type:uuid;index" json:"assignee_user_id,omitempty"`
	DueDate        *time.Time   `json:"due_date,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
