package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/api"
	"github.com/hugh/workops/internal/api/dto"
	"github.com/hugh/workops/internal/auth"
	"github.com/hugh/workops/internal/testutil"
	"github.com/hugh/workops/pkg/crypto"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (http.Handler, *testutil.TestSetup) {
	t.Helper()

	tc := testutil.NewTestContext(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	enc, err := crypto.NewEncryptor("")
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		DB:          tc.DB,
		Logger:      logger,
		Tokens:      tc.JWTService,
		AuthService: auth.NewService(tc.DB, tc.JWTService),
		Encryptor:   enc,
		Recorder:    activity.NewDBRecorder(tc.DB, logger),
	})
	return router, tc
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, testutil.AuthenticatedRequest(t, method, path, body, token))
	return rr
}

func problem(t *testing.T, rr *httptest.ResponseRecorder) dto.Problem {
	t.Helper()
	require.Equal(t, dto.ProblemContentType, rr.Header().Get("Content-Type"), rr.Body.String())
	var p dto.Problem
	testutil.ParseJSONResponse(t, rr, &p)
	return p
}

// pageOf decodes a paginated body whose data is a list of T.
type pageOf[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}
