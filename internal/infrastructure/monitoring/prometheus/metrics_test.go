package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppMetrics_RegistersOnPrivateRegistry(t *testing.T) {
	t.Parallel()

	// Two collectors must not collide, each owns its registry.
	a := NewAppMetrics(NewCollector())
	b := NewAppMetrics(NewCollector())
	require.NotNil(t, a)
	require.NotNil(t, b)
}

func TestObserveHTTP(t *testing.T) {
	t.Parallel()

	m := NewAppMetrics(NewCollector())
	m.ObserveHTTP("GET", "/api/v1/planets/map/teams", "200", 42*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/planets/map/teams", "200", 13*time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/teams", "409", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/planets/map/teams", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/teams", "409")))
}

func TestObserveLayout(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	m := NewAppMetrics(c)
	m.ObserveLayout(24, 8*time.Millisecond)

	count, err := testutil.GatherAndCount(c.Registry(), "hacknebula_layout_compute_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_Handler(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	m := NewAppMetrics(c)
	m.MapCacheHits.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "hacknebula_map_cache_hits_total 1")
}
