package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
)

func performRequest(t *testing.T, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	router := gin.New()
	router.GET("/probe", handler)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSuccessEnvelope(t *testing.T) {
	w := performRequest(t, func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"items": 3})
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Nil(t, body.Error)
}

func TestSuccessWithMetaIncludesSource(t *testing.T) {
	w := performRequest(t, func(c *gin.Context) {
		SuccessWithMeta(c, http.StatusOK, []string{"a"}, &Meta{Total: 1, Source: "cache"})
	})

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	require.Equal(t, "cache", body.Meta.Source)
	require.Equal(t, 1, body.Meta.Total)
}

func TestErrorEnvelopeUsesAppErrorStatus(t *testing.T) {
	w := performRequest(t, func(c *gin.Context) {
		Error(c, appErrors.ErrNotFound)
	})

	require.Equal(t, http.StatusNotFound, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, appErrors.ErrNotFound.Code, body.Error.Code)
}

func TestErrorEnvelopeDefaultsToInternal(t *testing.T) {
	w := performRequest(t, func(c *gin.Context) {
		Error(c, nil)
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
