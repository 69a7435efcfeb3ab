package nfcapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkhari/nfcstudio/internal/domain"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil), srv
}

func TestAbsoluteURL(t *testing.T) {
	c := NewClient("https://api.example.com/", time.Second, nil)

	assert.Equal(t, "https://api.example.com/uploads/a.jpg", c.AbsoluteURL("/uploads/a.jpg"))
	assert.Equal(t, "https://api.example.com/uploads/a.jpg", c.AbsoluteURL("uploads/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/b.jpg", c.AbsoluteURL("https://cdn.example.com/b.jpg"))
	assert.Equal(t, domain.StagingPrefix+"d/x.png", c.AbsoluteURL(domain.StagingPrefix+"d/x.png"))
	assert.Empty(t, c.AbsoluteURL(""))
}

func TestFetchProfile(t *testing.T) {
	t.Run("wrapped response", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/profile/abc", r.URL.Path)
			assert.Equal(t, "token=secret", r.Header.Get("Cookie"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"profile": map[string]any{"_id": "abc", "name": "Jane"},
			})
		}))
		p, err := c.FetchProfile(context.Background(), "abc", "token=secret")
		require.NoError(t, err)
		assert.Equal(t, "abc", p.ID)
		assert.Equal(t, "Jane", p.Name)
	})

	t.Run("bare response", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"_id": "abc", "name": "Jane"})
		}))
		p, err := c.FetchProfile(context.Background(), "abc", "")
		require.NoError(t, err)
		assert.Equal(t, "Jane", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "Profile not found"})
		}))
		_, err := c.FetchProfile(context.Background(), "nope", "")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "Profile not found")
	})
}

func TestErrorMapping(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	err := c.DeleteProfile(context.Background(), "abc", "")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
}

func TestListProfilesQuery(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "jane", q.Get("q"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "name", q.Get("sortBy"))
		assert.Equal(t, "asc", q.Get("sortOrder"))
		_, _ = w.Write([]byte(`{"profiles":[],"total":0}`))
	}))
	raw, err := c.ListProfiles(context.Background(), "", ListQuery{Q: "jane", Page: 2, Limit: 10, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"profiles":[],"total":0}`, string(raw))
}

func TestFetchScanAnalytics(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"scanData":[{"date":"2025-01-01","scans":4}]}`))
	}))
	points, err := c.FetchScanAnalytics(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "2025-01-01", points[0].Date)
	assert.Equal(t, 4, points[0].Scans)
}

func TestLogin(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		w.Header().Add("Set-Cookie", "token=abc; HttpOnly")
		_, _ = w.Write([]byte(`{"user":{"email":"a@b.c"}}`))
	}))
	raw, cookies, err := c.Login(context.Background(), "a@b.c", "password123")
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Contains(t, cookies[0], "token=abc")
	assert.Contains(t, string(raw), "a@b.c")
}
