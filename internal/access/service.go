// Package access answers organization access questions from the membership
// table. Every call reads committed state; nothing is cached.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/metrics"
	"gorm.io/gorm"
)

type Decision int

const (
	Allow Decision = iota
	DenyNotMember
	DenyInsufficientRole
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyNotMember:
		return "not_member"
	case DenyInsufficientRole:
		return "insufficient_role"
	}
	return "unknown"
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RoleOf returns the user's role in the organization. ok is false when there
// is no membership, including when the organization does not exist or the
// user id is nil.
func (s *Service) RoleOf(ctx context.Context, orgID, userID uuid.UUID) (role models.Role, ok bool, err error) {
	if userID == uuid.Nil || orgID == uuid.Nil {
		return 0, false, nil
	}

	var m models.Membership
	err = s.db.WithContext(ctx).
		Select("role").
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("loading membership: %w", err)
	}
	return m.Role, true, nil
}

func (s *Service) IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	_, ok, err := s.RoleOf(ctx, orgID, userID)
	return ok, err
}

func (s *Service) HasRole(ctx context.Context, orgID, userID uuid.UUID, req Requirement) (bool, error) {
	role, ok, err := s.RoleOf(ctx, orgID, userID)
	if err != nil || !ok {
		return false, err
	}
	return req.SatisfiedBy(role), nil
}

// Decide resolves membership first and the role requirement second.
func (s *Service) Decide(ctx context.Context, orgID, userID uuid.UUID, req Requirement) (Decision, models.Role, error) {
	role, ok, err := s.RoleOf(ctx, orgID, userID)
	if err != nil {
		return DenyNotMember, 0, err
	}

	decision := Allow
	switch {
	case !ok:
		decision = DenyNotMember
	case !req.SatisfiedBy(role):
		decision = DenyInsufficientRole
	}
	metrics.AccessDecisionsTotal.WithLabelValues(decision.String()).Inc()

	return decision, role, nil
}

// Authorize is Decide expressed as an error: apperr.ErrNotMember for
// non-members and apperr.ErrInsufficientRole for members below req.
func (s *Service) Authorize(ctx context.Context, orgID, userID uuid.UUID, req Requirement) (models.Role, error) {
	decision, role, err := s.Decide(ctx, orgID, userID, req)
	if err != nil {
		return 0, err
	}

	switch decision {
	case DenyNotMember:
		return 0, apperr.ErrNotMember
	case DenyInsufficientRole:
		return role, apperr.ErrInsufficientRole
	}
	return role, nil
}
