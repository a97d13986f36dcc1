package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/api/middleware"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates service errors into problem responses. Anything
// without an apperr category is logged and reported as a bare 500.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	p, known := dto.ProblemFor(err)
	if !known {
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
	p.Write(w)
}

func writeValidation(w http.ResponseWriter, errs map[string]string) {
	dto.ValidationProblem(errs).Write(w)
}

// decodeJSON reads a request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		dto.NewProblem(http.StatusBadRequest, "Invalid request body.").Write(w)
		return false
	}
	return true
}

// pathID parses a uuid route parameter. A malformed id is reported with the
// same body as a missing row.
func pathID(w http.ResponseWriter, r *http.Request, param, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		dto.NewProblem(http.StatusNotFound, notFound).Write(w)
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid filter.
func queryID(w http.ResponseWriter, r *http.Request, param string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeValidation(w, map[string]string{param: param + " must be a valid id."})
		return nil, false
	}
	return &id, true
}

func pagination(r *http.Request) dto.PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	p := dto.PaginationParams{Page: page, PerPage: perPage}
	p.Normalize()
	return p
}
