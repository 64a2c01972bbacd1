package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/api"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/app"
	iauth "github.com/jeffjeff017/jp-travel-webapp-sub001/internal/auth"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/cache"
	sharedtestutil "github.com/jeffjeff017/jp-travel-webapp-sub001/internal/database/testutil"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/crypto"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// SiteAccessPassword is the shared password the test environment accepts.
const SiteAccessPassword = "test-site-password"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Router   *gin.Engine
	JWT      *iauth.JWTService
	Registry *syncstore.Registry
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	jwtSecret := "test-suite-super-secret-key-32-bytes!!"
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         jwtSecret,
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	cfg := &app.Config{
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: jwtSecret,
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
			Session: app.SessionSettings{
				RefreshTTL:    24 * time.Hour,
				RefreshLength: 48,
			},
			Site: app.SiteSettings{
				AccessPassword: SiteAccessPassword,
			},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
	}

	sessionSvc, err := iauth.NewSessionService(db, jwtSvc, cfg.Auth.SessionServiceConfig())
	require.NoError(t, err)

	local := cache.New(cache.NewMemoryBackend())
	registry, err := syncstore.NewRegistry(local, syncstore.Backends{DB: db}, syncstore.Options{})
	require.NoError(t, err)

	router, err := api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       db,
		JWT:      jwtSvc,
		Sessions: sessionSvc,
		Registry: registry,
	})
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Router:   router,
		JWT:      jwtSvc,
		Registry: registry,
	}
}

// CreateTraveler inserts a traveler row directly into the backing store.
func (e *Env) CreateTraveler(name, pin string, admin bool) *models.User {
	e.T.Helper()

	user := &models.User{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Name:      name,
		Color:     "#81b29a",
		IsAdmin:   admin,
	}

	if pin != "" {
		hash, err := crypto.HashPassword(pin)
		require.NoError(e.T, err)
		user.PINHash = hash
	}

	require.NoError(e.T, e.DB.Create(user).Error)

	// Rows written behind the collection's back must not be shadowed by a
	// previously cached payload.
	require.NoError(e.T, e.Registry.Travelers.Revalidate(e.T.Context()))
	return user
}

// TokenPair mirrors the handler login response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// TravelerPayload captures the traveler projection returned from auth endpoints.
type TravelerPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Avatar  string `json:"avatar"`
	IsAdmin bool   `json:"is_admin"`
	HasPIN  bool   `json:"has_pin"`
}

// LoginResult bundles the JSON response from POST /api/auth/login.
type LoginResult struct {
	Tokens TokenPair       `json:"tokens"`
	User   TravelerPayload `json:"user"`
}

// Login authenticates a traveler and returns the issued token pair.
func (e *Env) Login(name, pin string) LoginResult {
	e.T.Helper()

	payload := map[string]string{
		"name":            name,
		"access_password": SiteAccessPassword,
		"pin":             pin,
	}

	w := e.Request(http.MethodPost, "/api/auth/login", payload, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.Tokens.AccessToken)
	require.NotEmpty(e.T, result.Tokens.RefreshToken)
	require.Greater(e.T, result.Tokens.ExpiresIn, 0)
	require.Equal(e.T, name, result.User.Name)

	return result
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
