package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth_Liveness(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/healthz", NewHealthHandler("1.2.3").Liveness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
}

func TestHealth_ReadinessDegraded(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("dev",
		Checker{Name: "postgres", Check: func(context.Context) error { return nil }},
		Checker{Name: "redis", Check: func(context.Context) error {
			return errors.New(errors.ErrCodeServiceUnavailable, "connection refused")
		}},
	)
	r := gin.New()
	r.GET("/readyz", h.Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), `"postgres"`)
	assert.Contains(t, w.Body.String(), `"down"`)
}

func TestHealth_ReadinessAllUp(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("dev",
		Checker{Name: "postgres", Check: func(context.Context) error { return nil }},
	)
	r := gin.New()
	r.GET("/readyz", h.Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
}
