package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity() Identity {
	return Identity{UserID: "u1", Name: "Ada", Roles: []string{"participant"}}
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", testIdentity())
	assert.Error(t, err)

	_, err = NewClient("http://localhost:8080", Identity{})
	assert.Error(t, err)

	_, err = NewClient("ftp://localhost", testIdentity())
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/", testIdentity())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClient_SendsIdentityHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.Header.Get("X-User-ID"))
		assert.Equal(t, "Ada", r.Header.Get("X-User-Name"))
		assert.Equal(t, "participant,judge", r.Header.Get("X-User-Roles"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sessions":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, Identity{UserID: "u1", Name: "Ada", Roles: []string{"participant", "judge"}})
	require.NoError(t, err)

	_, err = c.Schedule().List(context.Background())
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"TEAM_001","message":"team not found"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, testIdentity())
	require.NoError(t, err)

	_, err = c.Teams().Get(context.Background(), "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "TEAM_001", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "team not found")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"territories":[{"id":"t1","display_name":"orbital"}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, testIdentity(),
		WithRetryMax(3), WithRetryWait(time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)

	territories, err := c.Planets().Map(context.Background())
	require.NoError(t, err)
	require.Len(t, territories, 1)
	assert.Equal(t, "orbital", territories[0].DisplayName)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"COMMON_010","message":"validation failed"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, testIdentity(), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Teams().Create(context.Background(), CreateTeamRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTeamsClient_ListQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/teams", r.URL.Path)
		assert.Equal(t, "ai", r.URL.Query().Get("track"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"t1","name":"orbital"}],"meta":{"page":2,"page_size":20,"total":21}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, testIdentity())
	require.NoError(t, err)

	list, err := c.Teams().List(context.Background(), ListTeamsOptions{Track: "ai", Page: 2})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 21, list.Meta.Total)
}
