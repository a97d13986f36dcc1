package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/api/middleware"
	"github.com/hugh/workops/internal/auth"
)

type AuthHandler struct {
	authService auth.Authenticator
	logger      *slog.Logger
}

func NewAuthHandler(authService auth.Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	resp, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			dto.NewProblem(http.StatusConflict, "A user with this email already exists.").Write(w)
			return
		}
		writeError(h.logger, w, r, err)
		return
	}

	h.logger.Info("user registered", "user_id", resp.User.ID)
	writeJSON(w, http.StatusCreated, authResponse(resp))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			dto.NewProblem(http.StatusUnauthorized, "Invalid email or password.").Write(w)
		case errors.Is(err, auth.ErrInactiveUser):
			dto.NewProblem(http.StatusForbidden, "Account is inactive.").Write(w)
		default:
			writeError(h.logger, w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse(resp))
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			dto.NewProblem(http.StatusUnauthorized, "Authentication is required.").Write(w)
			return
		}
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}

func authResponse(resp *auth.AuthResponse) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		User:      dto.UserToDTO(resp.User),
	}
}
