package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/jeffjeff017/jp-travel-webapp-sub001/internal/auth"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/crypto"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/metrics"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// AuthHandler manages authentication flows (login/refresh/logout/me).
//
// Login is two-step: the shared site access password gates the whole planner,
// then the traveler picks their profile by name and, when one is set, proves
// it with their PIN.
type AuthHandler struct {
	jwt            *iauth.JWTService
	sessions       *iauth.SessionService
	travelers      *syncstore.Collection[models.User]
	accessPassword string
}

func NewAuthHandler(jwt *iauth.JWTService, sessions *iauth.SessionService, travelers *syncstore.Collection[models.User], accessPassword string) *AuthHandler {
	return &AuthHandler{
		jwt:            jwt,
		sessions:       sessions,
		travelers:      travelers,
		accessPassword: accessPassword,
	}
}

type loginRequest struct {
	Name           string `json:"name" validate:"required,max=64"`
	AccessPassword string `json:"access_password" validate:"required"`
	PIN            string `json:"pin"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessPassword), []byte(h.accessPassword)) != 1 {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, errors.ErrInvalidCredentials)
		return
	}

	traveler, ok := h.findTraveler(c, strings.TrimSpace(req.Name))
	if !ok {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, errors.ErrInvalidCredentials)
		return
	}

	if traveler.PINHash != "" && !crypto.VerifyPassword(traveler.PINHash, req.PIN) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, errors.ErrInvalidCredentials)
		return
	}

	pair, _, err := h.sessions.CreateSession(traveler.ID, iauth.SessionMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, errors.ErrInternalServer)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	response.Success(c, http.StatusOK, gin.H{
		"tokens": tokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    int(h.jwt.AccessTokenTTL().Seconds()),
		},
		"user": traveler.Public(),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		response.Error(c, errors.NewBadRequest("refresh token is required"))
		return
	}

	pair, _, err := h.sessions.RefreshSession(req.RefreshToken)
	if err != nil {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	response.Success(c, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(h.jwt.AccessTokenTTL().Seconds()),
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := c.GetString(middleware.CtxSessionIDKey)
	if sid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.sessions.RevokeSession(sid); err != nil {
		response.Error(c, errors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	for _, traveler := range h.travelers.Read(requestContext(c)) {
		if traveler.ID == userID {
			response.Success(c, http.StatusOK, traveler.Public())
			return
		}
	}

	response.Error(c, errors.ErrNotFound)
}

func (h *AuthHandler) findTraveler(c *gin.Context, name string) (models.User, bool) {
	for _, traveler := range h.travelers.Read(requestContext(c)) {
		if strings.EqualFold(traveler.Name, name) {
			return traveler, true
		}
	}
	return models.User{}, false
}
