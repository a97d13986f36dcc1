package resources

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/database"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/validation"
	"gorm.io/gorm"
)

const (
	msgProjectNotFound     = "Project not found."
	msgProjectNameTaken    = "A project with this name already exists in this organization."
	msgClientNotInOrg      = "Client not found or does not belong to this organization."
	msgRowVersionRequired  = "RowVersion is required."
	msgRowVersionInvalid   = "Invalid RowVersion format."
	msgProjectStale        = "The project was updated by someone else. Please refresh and try again."
	msgProjectStatusValues = "Status must be one of: active, on_hold, completed, archived."
)

type ProjectInput struct {
	Name     string
	ClientID *uuid.UUID
}

// ProjectUpdate replaces the mutable fields of a project. RowVersion is the
// base64 token from the last read.
type ProjectUpdate struct {
	Name       string
	ClientID   *uuid.UUID
	Status     models.ProjectStatus
	RowVersion string
}

type ProjectFilter struct {
	Status   models.ProjectStatus
	ClientID *uuid.UUID
	Query    string
	Page     int
	PerPage  int
}

type ProjectService struct {
	base
}

func NewProjectService(db *gorm.DB, recorder activity.Recorder, logger *slog.Logger) *ProjectService {
	return &ProjectService{base: base{db: db, recorder: recorder, logger: logger}}
}

// EncodeRowVersion is the wire form of a project's version token.
func EncodeRowVersion(v []byte) string {
	return base64.StdEncoding.EncodeToString(v)
}

func (s *ProjectService) List(ctx context.Context, orgID uuid.UUID, f ProjectFilter) ([]models.Project, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Project{}).Scopes(database.InOrg(orgID))
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.ClientID != nil {
		query = query.Where("client_id = ?", *f.ClientID)
	}
	if f.Query != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(f.Query))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap("counting projects", err)
	}

	var rows []models.Project
	if err := query.Order("updated_at DESC").Scopes(database.Paginate(f.Page, f.PerPage)).Find(&rows).Error; err != nil {
		return nil, 0, wrap("listing projects", err)
	}
	return rows, total, nil
}

func (s *ProjectService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Project, error) {
	return loadProject(s.db.WithContext(ctx), orgID, id)
}

func (s *ProjectService) Create(ctx context.Context, actor, orgID uuid.UUID, in ProjectInput) (*models.Project, error) {
	name, err := validation.Text("name", "Name", in.Name, validation.MaxNameLength)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureClientInOrg(db, orgID, in.ClientID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(db, orgID, name, uuid.Nil); err != nil {
		return nil, err
	}

	project := models.Project{
		OrganizationID:  orgID,
		Name:            name,
		Status:          models.ProjectStatusActive,
		ClientID:        in.ClientID,
		CreatedByUserID: actor,
		RowVersion:      models.NewRowVersion(),
	}
	if err := db.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(msgProjectNameTaken)
		}
		return nil, wrap("creating project", err)
	}

	s.logger.Info("project created", "org_id", orgID, "project_id", project.ID)
	s.record(ctx, orgID, actor, activity.ActionCreated, activity.EntityProject, project.ID)
	return &project, nil
}

// Update applies upd only if the stored version still equals upd.RowVersion.
// On success the project carries a fresh version; on any failure nothing is
// written.
func (s *ProjectService) Update(ctx context.Context, actor, orgID, id uuid.UUID, upd ProjectUpdate) (*models.Project, error) {
	if upd.RowVersion == "" {
		return nil, apperr.Validation("row_version", msgRowVersionRequired)
	}

	var project *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadProject(tx, orgID, id)
		if err != nil {
			return err
		}

		expected, err := base64.StdEncoding.DecodeString(upd.RowVersion)
		if err != nil {
			return apperr.Validation("row_version", msgRowVersionInvalid)
		}
		if !bytes.Equal(expected, current.RowVersion) {
			return apperr.VersionConflict(msgProjectStale)
		}

		name, err := validation.Text("name", "Name", upd.Name, validation.MaxNameLength)
		if err != nil {
			return err
		}
		status := upd.Status
		if status == "" {
			status = current.Status
		}
		if !status.Valid() {
			return apperr.Validation("status", msgProjectStatusValues)
		}
		if err := ensureClientInOrg(tx, orgID, upd.ClientID); err != nil {
			return err
		}
		if name != current.Name {
			if err := s.ensureNameFree(tx, orgID, name, id); err != nil {
				return err
			}
		}

		next := models.NewRowVersion()
		res := tx.Model(&models.Project{}).
			Scopes(database.InOrgAndID(orgID, id)).
			Where("row_version = ?", expected).
			Updates(map[string]interface{}{
				"name":        name,
				"status":      status,
				"client_id":   upd.ClientID,
				"row_version": next,
			})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return apperr.Conflict(msgProjectNameTaken)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.VersionConflict(msgProjectStale)
		}

		project, err = loadProject(tx, orgID, id)
		return err
	})
	if err != nil {
		return nil, wrap("updating project", err)
	}

	s.record(ctx, orgID, actor, activity.ActionUpdated, activity.EntityProject, id)
	return project, nil
}

// Delete removes the project together with its tasks.
func (s *ProjectService) Delete(ctx context.Context, actor, orgID, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadProject(tx, orgID, id); err != nil {
			return err
		}
		if err := tx.Scopes(database.InOrg(orgID)).Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Scopes(database.InOrgAndID(orgID, id)).Delete(&models.Project{}).Error
	})
	if err != nil {
		return wrap("deleting project", err)
	}

	s.logger.Info("project deleted", "org_id", orgID, "project_id", id)
	s.record(ctx, orgID, actor, activity.ActionDeleted, activity.EntityProject, id)
	return nil
}

func (s *ProjectService) ensureNameFree(db *gorm.DB, orgID uuid.UUID, name string, except uuid.UUID) error {
	var count int64
	query := db.Model(&models.Project{}).Scopes(database.InOrg(orgID)).Where("name = ?", name)
	if except != uuid.Nil {
		query = query.Where("id <> ?", except)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict(msgProjectNameTaken)
	}
	return nil
}

func loadProject(db *gorm.DB, orgID, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := db.Scopes(database.InOrgAndID(orgID, id)).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgProjectNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// ensureClientInOrg treats a client owned by another organization as missing.
func ensureClientInOrg(db *gorm.DB, orgID uuid.UUID, clientID *uuid.UUID) error {
	if clientID == nil {
		return nil
	}
	var count int64
	if err := db.Model(&models.Client{}).Scopes(database.InOrgAndID(orgID, *clientID)).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.Validation("client_id", msgClientNotInOrg)
	}
	return nil
}
