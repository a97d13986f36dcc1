package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/api/middleware"
	"github.com/hugh/workops/internal/resources"
)

const msgClientNotFound = "Client not found."

type ClientHandler struct {
	clients *resources.ClientService
	logger  *slog.Logger
}

func NewClientHandler(clients *resources.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{clients: clients, logger: logger}
}

// List handles GET /api/v1/orgs/{orgId}/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination(r)

	clients, total, err := h.clients.List(r.Context(), middleware.GetOrgID(r.Context()), resources.ClientFilter{
		Query:   r.URL.Query().Get("q"),
		Page:    p.Page,
		PerPage: p.PerPage,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response := make([]dto.ClientResponse, len(clients))
	for i := range clients {
		response[i] = dto.ClientToResponse(&clients[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, p))
}

// Get handles GET /api/v1/orgs/{orgId}/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", msgClientNotFound)
	if !ok {
		return
	}

	client, err := h.clients.Get(r.Context(), middleware.GetOrgID(r.Context()), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ClientToResponse(client))
}

// Create handles POST /api/v1/orgs/{orgId}/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	client, err := h.clients.Create(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), req.Input())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ClientToResponse(client))
}

// Update handles PUT /api/v1/orgs/{orgId}/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", msgClientNotFound)
	if !ok {
		return
	}

	var req dto.ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	if _, err := h.clients.Update(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), id, req.Input()); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/orgs/{orgId}/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", msgClientNotFound)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.clients.Delete(ctx, middleware.GetUserID(ctx), middleware.GetOrgID(ctx), id); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
