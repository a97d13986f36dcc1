package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/auth"
)

type contextKey string

const (
	UserIDKey         contextKey = "user_id"
	UserEmailKey      contextKey = "user_email"
	OrganizationIDKey contextKey = "organization_id"
	OrgRoleKey        contextKey = "org_role"
	RequestIDKey      contextKey = "request_id"
)

// Auth resolves the caller from a bearer token. Requests without a valid
// token get a 401 problem.
func Auth(tokens auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}

			// X-Auth-Token for clients that cannot set Authorization
			if token == "" {
				token = r.Header.Get("X-Auth-Token")
			}

			if token == "" {
				handleUnauthorized(w)
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				handleUnauthorized(w)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func handleUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	dto.NewProblem(http.StatusUnauthorized, "Authentication is required.").Write(w)
}

// GetUserID returns uuid.Nil for anonymous requests.
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}
