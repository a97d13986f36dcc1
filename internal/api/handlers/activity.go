package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/api/middleware"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewActivityHandler(db *gorm.DB, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{db: db, logger: logger}
}

// List handles GET /api/v1/orgs/{orgId}/activity, newest first.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination(r)

	entries, total, err := activity.List(r.Context(), h.db, middleware.GetOrgID(r.Context()), p.Page, p.PerPage)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response := make([]dto.ActivityResponse, len(entries))
	for i := range entries {
		response[i] = dto.ActivityToResponse(&entries[i])
	}
	writeJSON(w, http.StatusOK, dto.NewPaginatedResponse(response, total, p))
}
