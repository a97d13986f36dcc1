package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/api/middleware"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/resources"
)

const msgTaskNotFound = "Task not found."

type TaskHandler struct {
	tasks  *resources.TaskService
	logger *slog.Logger
}

func NewTaskHandler(tasks *resources.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// scope resolves {orgId} from the gate and {projectId} from the route.
func (h *TaskHandler) scope(w http.ResponseWriter, r *http.Request) (orgID, projectID uuid.UUID, ok bool) {
	projectID, ok = pathID(w, r, "projectId", msgProjectNotFound)
	return middleware.GetOrgID(r.Context()), projectID, ok
}

// List handles GET /api/v1/orgs/{orgId}/projects/{projectId}/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}
	assigneeID, ok := queryID(w, r, "assignee_id")
	if !ok {
		return
	}
	p := pagination(r)

	tasks, total, err := h.tasks.List(r.Context(), orgID, projectID, resources.TaskFilter{
		Status:     models.TaskStatus(r.URL.Query().Get("status")),
		AssigneeID: assigneeID,
		Page:       p.Page,
		PerPage:    p.PerPage,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = dto.TaskToResponse(&tasks[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, p))
}

// Get handles GET /api/v1/orgs/{orgId}/projects/{projectId}/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", msgTaskNotFound)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), orgID, projectID, id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TaskToResponse(task))
}

// Create handles POST /api/v1/orgs/{orgId}/projects/{projectId}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req dto.TaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	task, err := h.tasks.Create(r.Context(), middleware.GetUserID(r.Context()), orgID, projectID, req.Input())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.TaskToResponse(task))
}

// Update handles PUT /api/v1/orgs/{orgId}/projects/{projectId}/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", msgTaskNotFound)
	if !ok {
		return
	}

	var req dto.TaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	if _, err := h.tasks.Update(r.Context(), middleware.GetUserID(r.Context()), orgID, projectID, id, req.Input()); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/orgs/{orgId}/projects/{projectId}/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", msgTaskNotFound)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), middleware.GetUserID(r.Context()), orgID, projectID, id); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
