package dto

import (
	"time"

	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/orgs"
	"github.com/hugh/workops/internal/validation"
)

type OrgRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (r OrgRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type OrgResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at"`
}

func OrgToResponse(o *models.Organization) OrgResponse {
	return OrgResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

func MembershipToResponse(m orgs.Membership) OrgResponse {
	resp := OrgToResponse(&m.Organization)
	resp.Role = m.Role.String()
	return resp
}

type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email,max=320"`
	Role  string `json:"role" validate:"required,oneof=admin manager member"`
}

func (r AddMemberRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager member"`
}

func (r UpdateMemberRoleRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

func MemberToResponse(m orgs.Member) MemberResponse {
	return MemberResponse{
		UserID:   m.UserID.String(),
		Email:    m.Email,
		Name:     m.Name,
		Role:     m.Role.String(),
		JoinedAt: m.JoinedAt.Format(time.RFC3339),
	}
}
