package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/workops/internal/access"
	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/apperr"
	"github.com/hugh/workops/internal/database/models"
)

// Authorizer decides whether a user may act inside an organization.
type Authorizer interface {
	Authorize(ctx context.Context, orgID, userID uuid.UUID, req access.Requirement) (models.Role, error)
}

var _ Authorizer = (*access.Service)(nil)

// OrgMember admits any member of the organization named by {orgId}.
func OrgMember(authz Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireOrgRole(authz, access.AnyMember, logger)
}

// RequireOrgRole admits callers whose role in {orgId} satisfies req.
// Non-members and malformed ids get the same 404 as a missing organization;
// members below req get 403.
func RequireOrgRole(authz Authorizer, req access.Requirement, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, err := uuid.Parse(chi.URLParam(r, "orgId"))
			if err != nil {
				writeAccessProblem(w, apperr.ErrNotMember)
				return
			}

			userID := GetUserID(r.Context())
			role, err := authz.Authorize(r.Context(), orgID, userID, req)
			if err != nil {
				if errors.Is(err, apperr.ErrNotMember) || errors.Is(err, apperr.ErrInsufficientRole) {
					writeAccessProblem(w, err)
					return
				}
				logger.Error("authorizing request", "error", err, "org_id", orgID, "user_id", userID)
				dto.NewProblem(http.StatusInternalServerError, "An unexpected error occurred.").Write(w)
				return
			}

			ctx := context.WithValue(r.Context(), OrganizationIDKey, orgID)
			ctx = context.WithValue(ctx, OrgRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAccessProblem(w http.ResponseWriter, err error) {
	p, _ := dto.ProblemFor(err)
	p.Write(w)
}

// GetOrgID returns the organization admitted by the org-scope gate.
func GetOrgID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(OrganizationIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetOrgRole returns the caller's role in the admitted organization.
func GetOrgRole(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(OrgRoleKey).(models.Role)
	return role, ok
}
