package dto

import (
	"encoding/json"
	"net/http"

	"github.com/hugh/workops/internal/apperr"
)

const ProblemContentType = "application/problem+json"

// Problem is the error body returned for every failed request.
type Problem struct {
	Status int               `json:"status"`
	Title  string            `json:"title"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func NewProblem(status int, detail string) Problem {
	return Problem{Status: status, Title: http.StatusText(status), Detail: detail}
}

// ValidationProblem reports field errors as a 400.
func ValidationProblem(errs map[string]string) Problem {
	return Problem{
		Status: http.StatusBadRequest,
		Title:  apperr.KindValidation.Title(),
		Detail: "One or more validation errors occurred.",
		Errors: errs,
	}
}

// ProblemFor maps a categorized error to its problem body. The second return
// is false when err carries no apperr category.
func ProblemFor(err error) (Problem, bool) {
	e, ok := apperr.As(err)
	if !ok {
		return NewProblem(http.StatusInternalServerError, "An unexpected error occurred."), false
	}

	p := Problem{Status: e.Kind.Status(), Title: e.Kind.Title(), Detail: e.Detail}
	if e.Field != "" {
		p.Errors = map[string]string{e.Field: e.Detail}
	}
	return p, true
}

func (p Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
