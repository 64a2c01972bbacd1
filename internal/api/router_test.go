package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/api"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/handlers/testutil"
)

func TestNewRouterValidatesDependencies(t *testing.T) {
	_, err := api.NewRouter(api.Deps{})
	require.ErrorContains(t, err, "config must be provided")
}

func TestRouterServesHealthEndpoints(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		env.Router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterExposesMetricsEndpoint(t *testing.T) {
	env := testutil.NewEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouterRejectsUnknownRoutes(t *testing.T) {
	env := testutil.NewEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterSetsSecurityAndCORSHeaders(t *testing.T) {
	env := testutil.NewEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
