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
	"github.com/hugh/workops/pkg/crypto"
	"gorm.io/gorm"
)

const (
	msgClientNotFound  = "Client not found."
	msgClientNameTaken = "A client with this name already exists in this organization."
)

// Client is the decrypted view of models.Client.
type Client struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Email          *string
	Phone          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ClientInput struct {
	Name  string
	Email *string
	Phone *string
}

type ClientFilter struct {
	Query   string
	Page    int
	PerPage int
}

type ClientService struct {
	base
	enc *crypto.Encryptor
}

func NewClientService(db *gorm.DB, enc *crypto.Encryptor, recorder activity.Recorder, logger *slog.Logger) *ClientService {
	return &ClientService{base: base{db: db, recorder: recorder, logger: logger}, enc: enc}
}

func (s *ClientService) List(ctx context.Context, orgID uuid.UUID, f ClientFilter) ([]Client, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Client{}).Scopes(database.InOrg(orgID))
	if f.Query != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(f.Query))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap("counting clients", err)
	}

	var rows []models.Client
	if err := query.Order("name ASC").Scopes(database.Paginate(f.Page, f.PerPage)).Find(&rows).Error; err != nil {
		return nil, 0, wrap("listing clients", err)
	}

	out := make([]Client, len(rows))
	for i := range rows {
		c, err := s.open(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		out[i] = *c
	}
	return out, total, nil
}

func (s *ClientService) Get(ctx context.Context, orgID, id uuid.UUID) (*Client, error) {
	row, err := s.load(s.db.WithContext(ctx), orgID, id)
	if err != nil {
		return nil, err
	}
	return s.open(row)
}

func (s *ClientService) Create(ctx context.Context, actor, orgID uuid.UUID, in ClientInput) (*Client, error) {
	row := models.Client{OrganizationID: orgID}
	if err := s.apply(&row, in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureNameFree(db, orgID, row.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(msgClientNameTaken)
		}
		return nil, wrap("creating client", err)
	}

	s.logger.Info("client created", "org_id", orgID, "client_id", row.ID)
	s.record(ctx, orgID, actor, activity.ActionCreated, activity.EntityClient, row.ID)
	return s.open(&row)
}

func (s *ClientService) Update(ctx context.Context, actor, orgID, id uuid.UUID, in ClientInput) (*Client, error) {
	var row *models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = s.load(tx, orgID, id)
		if err != nil {
			return err
		}
		previousName := row.Name
		if err := s.apply(row, in); err != nil {
			return err
		}
		if row.Name != previousName {
			if err := s.ensureNameFree(tx, orgID, row.Name, id); err != nil {
				return err
			}
		}
		res := tx.Model(&models.Client{}).
			Scopes(database.InOrgAndID(orgID, id)).
			Updates(map[string]interface{}{
				"name":         row.Name,
				"email_cipher": row.EmailCipher,
				"phone_cipher": row.PhoneCipher,
			})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return apperr.Conflict(msgClientNameTaken)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(msgClientNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, wrap("updating client", err)
	}

	s.record(ctx, orgID, actor, activity.ActionUpdated, activity.EntityClient, id)
	return s.open(row)
}

// Delete removes the client and detaches it from the organization's projects.
func (s *ClientService) Delete(ctx context.Context, actor, orgID, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).
			Scopes(database.InOrg(orgID)).
			Where("client_id = ?", id).
			Update("client_id", nil).Error; err != nil {
			return err
		}

		res := tx.Scopes(database.InOrgAndID(orgID, id)).Delete(&models.Client{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(msgClientNotFound)
		}
		return nil
	})
	if err != nil {
		return wrap("deleting client", err)
	}

	s.logger.Info("client deleted", "org_id", orgID, "client_id", id)
	s.record(ctx, orgID, actor, activity.ActionDeleted, activity.EntityClient, id)
	return nil
}

func (s *ClientService) load(db *gorm.DB, orgID, id uuid.UUID) (*models.Client, error) {
	var row models.Client
	if err := db.Scopes(database.InOrgAndID(orgID, id)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgClientNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (s *ClientService) apply(row *models.Client, in ClientInput) error {
	name, err := validation.Text("name", "Name", in.Name, validation.MaxNameLength)
	if err != nil {
		return err
	}
	email, err := validation.OptionalEmail("email", in.Email)
	if err != nil {
		return err
	}
	phone, err := validation.OptionalText("phone", "Phone", in.Phone, validation.MaxPhoneLength)
	if err != nil {
		return err
	}

	row.Name = name
	if row.EmailCipher, err = s.enc.SealOptional(email); err != nil {
		return err
	}
	if row.PhoneCipher, err = s.enc.SealOptional(phone); err != nil {
		return err
	}
	return nil
}

func (s *ClientService) ensureNameFree(db *gorm.DB, orgID uuid.UUID, name string, except uuid.UUID) error {
	var count int64
	query := db.Model(&models.Client{}).Scopes(database.InOrg(orgID)).Where("name = ?", name)
	if except != uuid.Nil {
		query = query.Where("id <> ?", except)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict(msgClientNameTaken)
	}
	return nil
}

func (s *ClientService) open(row *models.Client) (*Client, error) {
	email, err := s.enc.OpenOptional(row.EmailCipher)
	if err != nil {
		return nil, wrap("decrypting client email", err)
	}
	phone, err := s.enc.OpenOptional(row.PhoneCipher)
	if err != nil {
		return nil, wrap("decrypting client phone", err)
	}
	return &Client{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Name:           row.Name,
		Email:          email,
		Phone:          phone,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
