// Package orgs manages organizations and their memberships.
package orgs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/auth"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgUserNotFound     = "User not found."
	msgAlreadyMember    = "User is already a member of this organization."
	msgMemberNotFound   = "Member not found."
	msgLastAdminRemove  = "Cannot remove the last admin."
	msgLastAdminDemote  = "Cannot demote the last admin."
	msgOrgNotFound      = "Organization not found."
	msgInvalidRoleValue = "Role must be one of: admin, manager, member."
)

type Service struct {
	db       *gorm.DB
	recorder activity.Recorder
	logger   *slog.Logger
}

func NewService(db *gorm.DB, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{db: db, recorder: recorder, logger: logger}
}

// Membership is an organization as seen by one of its members.
type Membership struct {
	Organization models.Organization
	Role         models.Role
	JoinedAt     time.Time
}

// Member is a user as seen from inside an organization.
type Member struct {
	UserID   uuid.UUID   `json:"user_id"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// Create makes a new organization with actor as its first Admin.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, name string) (*models.Organization, error) {
	name, err := validation.Text("name", "Name", name, validation.MaxNameLength)
	if err != nil {
		return nil, err
	}

	org := models.Organization{Name: name}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		return tx.Create(&models.Membership{
			OrganizationID: org.ID,
			UserID:         actor,
			Role:           models.RoleAdmin,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	s.logger.Info("organization created", "org_id", org.ID, "user_id", actor)
	s.record(ctx, org.ID, actor, activity.ActionCreated, activity.EntityOrganization, org.ID)

	return &org, nil
}

// ListForUser returns the organizations userID belongs to, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	var rows []models.Membership
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	out := make([]Membership, 0, len(rows))
	for _, m := range rows {
		if m.Organization == nil {
			continue
		}
		out = append(out, Membership{Organization: *m.Organization, Role: m.Role, JoinedAt: m.CreatedAt})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Organization.CreatedAt.After(out[j].Organization.CreatedAt)
	})
	return out, nil
}

func (s *Service) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.WithContext(ctx).First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgOrgNotFound)
		}
		return nil, err
	}
	return &org, nil
}

func (s *Service) Rename(ctx context.Context, actor, orgID uuid.UUID, name string) (*models.Organization, error) {
	name, err := validation.Text("name", "Name", name, validation.MaxNameLength)
	if err != nil {
		return nil, err
	}

	org, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.Name == name {
		return org, nil
	}

	if err := s.db.WithContext(ctx).Model(org).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("renaming organization: %w", err)
	}
	org.Name = name

	s.record(ctx, orgID, actor, activity.ActionUpdated, activity.EntityOrganization, orgID)
	return org, nil
}

// ListMembers returns members in join order.
func (s *Service) ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	var members []Member
	err := s.db.WithContext(ctx).
		Table("org_memberships AS m").
		Select("m.user_id, u.email, u.name, m.role, m.created_at AS joined_at").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.organization_id = ?", orgID).
		Order("m.created_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

// AddMember adds the user registered under email with role.
func (s *Service) AddMember(ctx context.Context, actor, orgID uuid.UUID, email string, role models.Role) (*Member, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role", msgInvalidRoleValue)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", auth.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("email", msgUserNotFound)
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("organization_id = ? AND user_id = ?", orgID, user.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict(msgAlreadyMember)
	}

	m := models.Membership{OrganizationID: orgID, UserID: user.ID, Role: role}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(msgAlreadyMember)
		}
		return nil, fmt.Errorf("adding member: %w", err)
	}

	s.logger.Info("member added", "org_id", orgID, "user_id", user.ID, "role", role.String())
	s.record(ctx, orgID, actor, activity.ActionMemberAdded, activity.EntityMembership, user.ID)

	return &Member{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     m.Role,
		JoinedAt: m.CreatedAt,
	}, nil
}

// UpdateMemberRole changes a member's role. Demoting the only Admin is refused.
func (s *Service) UpdateMemberRole(ctx context.Context, actor, orgID, userID uuid.UUID, role models.Role) (*Member, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role", msgInvalidRoleValue)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrganization(tx, orgID); err != nil {
			return err
		}
		m, err := lockMembership(tx, orgID, userID)
		if err != nil {
			return err
		}
		if m.Role == role {
			return nil
		}
		if m.Role == models.RoleAdmin {
			if err := ensureAnotherAdmin(tx, orgID, msgLastAdminDemote); err != nil {
				return err
			}
		}
		return tx.Model(&models.Membership{}).
			Where("organization_id = ? AND user_id = ?", orgID, userID).
			Update("role", role).Error
	})
	if err != nil {
		return nil, s.wrap("updating member role", err)
	}

	s.logger.Info("member role changed", "org_id", orgID, "user_id", userID, "role", role.String())
	s.record(ctx, orgID, actor, activity.ActionRoleChanged, activity.EntityMembership, userID)

	return s.member(ctx, orgID, userID)
}

// RemoveMember deletes a membership and unassigns the user's tasks in the
// organization. Removing the only Admin is refused.
func (s *Service) RemoveMember(ctx context.Context, actor, orgID, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrganization(tx, orgID); err != nil {
			return err
		}
		m, err := lockMembership(tx, orgID, userID)
		if err != nil {
			return err
		}
		if m.Role == models.RoleAdmin {
			if err := ensureAnotherAdmin(tx, orgID, msgLastAdminRemove); err != nil {
				return err
			}
		}

		if err := tx.Where("organization_id = ? AND user_id = ?", orgID, userID).
			Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("organization_id = ? AND assignee_user_id = ?", orgID, userID).
			Update("assignee_user_id", nil).Error
	})
	if err != nil {
		return s.wrap("removing member", err)
	}

	s.logger.Info("member removed", "org_id", orgID, "user_id", userID)
	s.record(ctx, orgID, actor, activity.ActionMemberRemoved, activity.EntityMembership, userID)
	return nil
}

func (s *Service) member(ctx context.Context, orgID, userID uuid.UUID) (*Member, error) {
	var m Member
	res := s.db.WithContext(ctx).
		Table("org_memberships AS m").
		Select("m.user_id, u.email, u.name, m.role, m.created_at AS joined_at").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.organization_id = ? AND m.user_id = ?", orgID, userID).
		Scan(&m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound(msgMemberNotFound)
	}
	return &m, nil
}

// lockOrganization takes the organization row FOR UPDATE. Role changes and
// removals take it before any membership row.
func lockOrganization(tx *gorm.DB, orgID uuid.UUID) error {
	var org models.Organization
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Take(&org, "id = ?", orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msgOrgNotFound)
	}
	return err
}

func lockMembership(tx *gorm.DB, orgID, userID uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgMemberNotFound)
		}
		return nil, err
	}
	return &m, nil
}

// ensureAnotherAdmin counts the organization's admins, locking their rows.
func ensureAnotherAdmin(tx *gorm.DB, orgID uuid.UUID, detail string) error {
	var admins []models.Membership
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("organization_id", "user_id").
		Where("organization_id = ? AND role = ?", orgID, models.RoleAdmin).
		Find(&admins).Error; err != nil {
		return err
	}
	if len(admins) <= 1 {
		return apperr.Conflict(detail)
	}
	return nil
}

func (s *Service) wrap(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) record(ctx context.Context, orgID, actor uuid.UUID, action, entityType string, entityID uuid.UUID) {
	s.recorder.Record(ctx, activity.Entry{
		OrganizationID: orgID,
		ActorUserID:    actor,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
		At:             time.Now().UTC(),
	})
}
