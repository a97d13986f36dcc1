package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/api/middleware"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/resources"
)

const msgProjectNotFound = "Project not found."

type ProjectHandler struct {
	projects *resources.ProjectService
	logger   *slog.Logger
}

func NewProjectHandler(projects *resources.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// List handles GET /api/v1/orgs/{orgId}/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination(r)
	clientID, ok := queryID(w, r, "client_id")
	if !ok {
		return
	}

	projects, total, err := h.projects.List(r.Context(), middleware.GetOrgID(r.Context()), resources.ProjectFilter{
		Status:   models.ProjectStatus(r.URL.Query().Get("status")),
		ClientID: clientID,
		Query:    r.URL.Query().Get("q"),
		Page:     p.Page,
		PerPage:  p.PerPage,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		response[i] = dto.ProjectToResponse(&projects[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, p))
}

// Get handles GET /api/v1/orgs/{orgId}/projects/{projectId}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId", msgProjectNotFound)
	if !ok {
		return
	}

	project, err := h.projects.Get(r.Context(), middleware.GetOrgID(r.Context()), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProjectToResponse(project))
}

// Create handles POST /api/v1/orgs/{orgId}/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	ctx := r.Context()
	project, err := h.projects.Create(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), req.Input())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ProjectToResponse(project))
}

// Update handles PUT /api/v1/orgs/{orgId}/projects/{projectId}. The response
// carries the rotated row_version.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId", msgProjectNotFound)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	ctx := r.Context()
	project, err := h.projects.Update(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), id, req.Update())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProjectToResponse(project))
}

// Delete handles DELETE /api/v1/orgs/{orgId}/projects/{projectId}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId", msgProjectNotFound)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.projects.Delete(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), id); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
