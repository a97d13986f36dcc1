package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/api/middleware"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/orgs"
)

const msgMemberNotFound = "Member not found."

type OrgHandler struct {
	orgs   *orgs.Service
	logger *slog.Logger
}

func NewOrgHandler(orgService *orgs.Service, logger *slog.Logger) *OrgHandler {
	return &OrgHandler{orgs: orgService, logger: logger}
}

// Create handles POST /api/v1/orgs
func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.OrgRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	org, err := h.orgs.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	resp := dto.OrgToResponse(org)
	resp.Role = models.RoleAdmin.String()
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/v1/orgs
func (h *OrgHandler) List(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.orgs.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response := make([]dto.OrgResponse, len(memberships))
	for i, m := range memberships {
		response[i] = dto.MembershipToResponse(m)
	}
	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/v1/orgs/{orgId}
func (h *OrgHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgs.Get(r.Context(), middleware.GetOrgID(r.Context()))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	resp := dto.OrgToResponse(org)
	if role, ok := middleware.GetOrgRole(r.Context()); ok {
		resp.Role = role.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Rename handles PATCH /api/v1/orgs/{orgId}
func (h *OrgHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req dto.OrgRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	ctx := r.Context()
	org, err := h.orgs.Rename(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), req.Name)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OrgToResponse(org))
}

// ListMembers handles GET /api/v1/orgs/{orgId}/members
func (h *OrgHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.orgs.ListMembers(r.Context(), middleware.GetOrgID(r.Context()))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response := make([]dto.MemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.MemberToResponse(m)
	}
	writeJSON(w, http.StatusOK, response)
}

// AddMember handles POST /api/v1/orgs/{orgId}/members
func (h *OrgHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req dto.AddMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeValidation(w, map[string]string{"role": "role must be one of: admin manager member."})
		return
	}

	ctx := r.Context()
	member, err := h.orgs.AddMember(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), req.Email, role)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MemberToResponse(*member))
}

// UpdateMemberRole handles PATCH /api/v1/orgs/{orgId}/members/{userId}
func (h *OrgHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", msgMemberNotFound)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeValidation(w, map[string]string{"role": "role must be one of: admin manager member."})
		return
	}

	ctx := r.Context()
	member, err := h.orgs.UpdateMemberRole(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), userID, role)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberToResponse(*member))
}

// RemoveMember handles DELETE /api/v1/orgs/{orgId}/members/{userId}
func (h *OrgHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", msgMemberNotFound)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.orgs.RemoveMember(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), userID); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
