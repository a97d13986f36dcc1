package dto

import (
	"time"

	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/validation"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=200"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := validation.Struct(r)

	if _, ok := errors["password"]; !ok {
		if valid, msg := validation.IsValidPassword(r.Password); !valid {
			errors["password"] = msg
		}
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func UserToDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
