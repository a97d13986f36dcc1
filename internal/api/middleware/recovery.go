package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hugh/workops/internal/api/dto"
)

func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					dto.NewProblem(http.StatusInternalServerError, "An unexpected error occurred.").Write(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
