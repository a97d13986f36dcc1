package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/resources"
	"github.com/hugh/workops/internal/validation"
)

// Client

type ClientRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (r ClientRequest) Input() resources.ClientInput {
	return resources.ClientInput{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

type ClientResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func ClientToResponse(c *resources.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// Project

type CreateProjectRequest struct {
	Name     string  `json:"name"`
	ClientID *string `json:"client_id,omitempty" validate:"omitempty,uuid"`
}

func (r CreateProjectRequest) Validate() map[string]string {
	return validation.Struct(r)
}

func (r CreateProjectRequest) Input() resources.ProjectInput {
	return resources.ProjectInput{Name: r.Name, ClientID: parseOptionalID(r.ClientID)}
}

type UpdateProjectRequest struct {
	Name       string  `json:"name"`
	ClientID   *string `json:"client_id,omitempty" validate:"omitempty,uuid"`
	Status     string  `json:"status,omitempty"`
	RowVersion string  `json:"row_version"`
}

func (r UpdateProjectRequest) Validate() map[string]string {
	return validation.Struct(r)
}

func (r UpdateProjectRequest) Update() resources.ProjectUpdate {
	return resources.ProjectUpdate{
		Name:       r.Name,
		ClientID:   parseOptionalID(r.ClientID),
		Status:     models.ProjectStatus(r.Status),
		RowVersion: r.RowVersion,
	}
}

type ProjectResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	ClientID        *string `json:"client_id,omitempty"`
	CreatedByUserID string  `json:"created_by_user_id"`
	RowVersion      string  `json:"row_version"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func ProjectToResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Status:          string(p.Status),
		ClientID:        idString(p.ClientID),
		CreatedByUserID: p.CreatedByUserID.String(),
		RowVersion:      resources.EncodeRowVersion(p.RowVersion),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

// Task

type TaskRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Status         string     `json:"status,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	AssigneeUserID *string    `json:"assignee_user_id,omitempty" validate:"omitempty,uuid"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

func (r TaskRequest) Validate() map[string]string {
	return validation.Struct(r)
}

func (r TaskRequest) Input() resources.TaskInput {
	return resources.TaskInput{
		Title:          r.Title,
		Description:    r.Description,
		Status:         models.TaskStatus(r.Status),
		Priority:       models.TaskPriority(r.Priority),
		AssigneeUserID: parseOptionalID(r.AssigneeUserID),
		DueDate:        r.DueDate,
	}
}

type TaskResponse struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"project_id"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	AssigneeUserID *string `json:"assignee_user_id,omitempty"`
	DueDate        *string `json:"due_date,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func TaskToResponse(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID.String(),
		ProjectID:      t.ProjectID.String(),
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		AssigneeUserID: idString(t.AssigneeUserID),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	return resp
}

// Activity

type ActivityResponse struct {
	ID          string `json:"id"`
	ActorUserID string `json:"actor_user_id"`
	Action      string `json:"action"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	CreatedAt   string `json:"created_at"`
}

func ActivityToResponse(a *models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID.String(),
		ActorUserID: a.ActorUserID.String(),
		Action:      a.Action,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID.String(),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

// parseOptionalID expects s to have passed the uuid validator already.
func parseOptionalID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
