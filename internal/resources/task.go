package resources

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/database"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/validation"
	"gorm.io/gorm"
)

const (
	msgTaskNotFound      = "Task not found."
	msgAssigneeNotMember = "Assignee must be a member of this organization."
	msgDueDateInPast     = "Due date must be in the future."
	msgTaskStatusValues  = "Status must be one of: todo, in_progress, done."
	msgTaskPriorityValue = "Priority must be one of: low, medium, high."
)

type TaskInput struct {
	Title          string
	Description    *string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	AssigneeUserID *uuid.UUID
	DueDate        *time.Time
}

type TaskFilter struct {
	Status     models.TaskStatus
	AssigneeID *uuid.UUID
	Page       int
	PerPage    int
}

type TaskService struct {
	base
	now func() time.Time
}

func NewTaskService(db *gorm.DB, recorder activity.Recorder, logger *slog.Logger) *TaskService {
	return &TaskService{
		base: base{db: db, recorder: recorder, logger: logger},
		now:  time.Now,
	}
}

// List returns the tasks of a project, most recently updated first. A
// project outside orgID is reported as not found.
func (s *TaskService) List(ctx context.Context, orgID, projectID uuid.UUID, f TaskFilter) ([]models.Task, int64, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadProject(db, orgID, projectID); err != nil {
		return nil, 0, err
	}

	query := db.Model(&models.Task{}).Scopes(database.InOrg(orgID)).Where("project_id = ?", projectID)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.AssigneeID != nil {
		query = query.Where("assignee_user_id = ?", *f.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap("counting tasks", err)
	}

	var rows []models.Task
	if err := query.Order("updated_at DESC").Scopes(database.Paginate(f.Page, f.PerPage)).Find(&rows).Error; err != nil {
		return nil, 0, wrap("listing tasks", err)
	}
	return rows, total, nil
}

func (s *TaskService) Get(ctx context.Context, orgID, projectID, id uuid.UUID) (*models.Task, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadProject(db, orgID, projectID); err != nil {
		return nil, err
	}
	return loadTask(db, orgID, projectID, id)
}

func (s *TaskService) Create(ctx context.Context, actor, orgID, projectID uuid.UUID, in TaskInput) (*models.Task, error) {
	if in.Status == "" {
		in.Status = models.TaskStatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	}

	task := models.Task{OrganizationID: orgID, ProjectID: projectID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadProject(tx, orgID, projectID); err != nil {
			return err
		}
		if err := applyTask(tx, &task, in); err != nil {
			return err
		}
		if task.DueDate != nil && !task.DueDate.After(s.now()) {
			return apperr.Validation("due_date", msgDueDateInPast)
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, wrap("creating task", err)
	}

	s.logger.Info("task created", "org_id", orgID, "project_id", projectID, "task_id", task.ID)
	s.record(ctx, orgID, actor, activity.ActionCreated, activity.EntityTask, task.ID)
	return &task, nil
}

// Update replaces the task's mutable fields. Status and priority are required.
func (s *TaskService) Update(ctx context.Context, actor, orgID, projectID, id uuid.UUID, in TaskInput) (*models.Task, error) {
	var task *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadProject(tx, orgID, projectID); err != nil {
			return err
		}
		var err error
		task, err = loadTask(tx, orgID, projectID, id)
		if err != nil {
			return err
		}
		if err := applyTask(tx, task, in); err != nil {
			return err
		}

		res := tx.Model(&models.Task{}).
			Scopes(database.InOrgAndID(orgID, id)).
			Where("project_id = ?", projectID).
			Updates(map[string]interface{}{
				"title":            task.Title,
				"description":      task.Description,
				"status":           task.Status,
				"priority":         task.Priority,
				"assignee_user_id": task.AssigneeUserID,
				"due_date":         task.DueDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(msgTaskNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, wrap("updating task", err)
	}

	s.record(ctx, orgID, actor, activity.ActionUpdated, activity.EntityTask, id)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actor, orgID, projectID, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	if _, err := loadProject(db, orgID, projectID); err != nil {
		return err
	}

	res := db.Scopes(database.InOrgAndID(orgID, id)).Where("project_id = ?", projectID).Delete(&models.Task{})
	if res.Error != nil {
		return wrap("deleting task", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(msgTaskNotFound)
	}

	s.record(ctx, orgID, actor, activity.ActionDeleted, activity.EntityTask, id)
	return nil
}

func applyTask(tx *gorm.DB, task *models.Task, in TaskInput) error {
	title, err := validation.Text("title", "Title", in.Title, validation.MaxNameLength)
	if err != nil {
		return err
	}
	description, err := validation.OptionalText("description", "Description", in.Description, validation.MaxDescriptionLength)
	if err != nil {
		return err
	}
	if !in.Status.Valid() {
		return apperr.Validation("status", msgTaskStatusValues)
	}
	if !in.Priority.Valid() {
		return apperr.Validation("priority", msgTaskPriorityValue)
	}
	if in.AssigneeUserID != nil {
		ok, err := memberOf(tx, task.OrganizationID, *in.AssigneeUserID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Validation("assignee_user_id", msgAssigneeNotMember)
		}
	}

	task.Title = title
	task.Description = description
	task.Status = in.Status
	task.Priority = in.Priority
	task.AssigneeUserID = in.AssigneeUserID
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		task.DueDate = &due
	} else {
		task.DueDate = nil
	}
	return nil
}

func loadTask(db *gorm.DB, orgID, projectID, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	if err := db.Scopes(database.InOrgAndID(orgID, id)).Where("project_id = ?", projectID).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgTaskNotFound)
		}
		return nil, err
	}
	return &t, nil
}
