package mealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mcp-mealdb/internal/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetch_Success(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("s")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52771","strMeal":"Spicy Arrabiata Penne"}]}`))
	})

	c := NewClient(WithBaseURL(srv.URL+"/api/json/v1/1/"), WithUserAgent("test-agent"))
	payload, err := c.Fetch(context.Background(), EndpointSearch, map[string]string{"s": "Arrabiata"})
	require.NoError(t, err)

	assert.Equal(t, "/api/json/v1/1/search.php", gotPath)
	assert.Equal(t, "Arrabiata", gotQuery)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, EndpointSearch, payload.Endpoint())

	meals, err := payload.Meals()
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "52771", meals[0].Field("idMeal"))
}

func TestClientFetch_NoParams(t *testing.T) {
	var rawQuery string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), EndpointRandom, nil)
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
}

func TestClientFetch_StatusError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), EndpointLookup, map[string]string{"i": "1"})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindUpstreamStatus, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, EndpointLookup, appErr.Endpoint)
	assert.Equal(t, "upstream returned status 500 for lookup.php", err.Error())
}

func TestClientFetch_PayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array", `[{"idMeal":"1"}]`},
		{"scalar", `42`},
		{"null", `null`},
		{"invalid json", `{"meals": [`},
		{"html", `<html>maintenance</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			c := NewClient(WithBaseURL(srv.URL))
			_, err := c.Fetch(context.Background(), EndpointSearch, map[string]string{"s": "x"})
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindUpstreamPayload))
			assert.Equal(t, "unexpected response payload from upstream", err.Error())
		})
	}
}

func TestClientFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c := NewClient(WithBaseURL(baseURL))
	_, err := c.Fetch(context.Background(), EndpointFilter, map[string]string{"i": "chicken"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstreamNetwork))
	assert.Contains(t, err.Error(), EndpointFilter)
}

func TestClientFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := NewClient(WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.Fetch(context.Background(), EndpointRandom, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstreamNetwork))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, RequestTimeout, c.timeout)
	assert.Equal(t, DefaultUserAgent, c.userAgent)

	c = NewClient(WithHTTPClient(nil), WithTimeout(0))
	assert.NotNil(t, c.httpClient)
	assert.Equal(t, RequestTimeout, c.timeout)
}

func TestEndpointURL(t *testing.T) {
	c := NewClient(WithBaseURL("https://example.test/api/"))
	assert.Equal(t, "https://example.test/api/random.php", c.endpointURL("random.php", nil))
	assert.Equal(t, "https://example.test/api/search.php?s=beef+stew", c.endpointURL("/search.php", map[string]string{"s": "beef stew"}))
}

func TestBodyPreview(t *testing.T) {
	assert.Equal(t, `{"meals":"x"}`, bodyPreview([]byte(`{"meals":"x"}`)))

	long := strings.Repeat("a", logBodyBytes+10)
	got := bodyPreview([]byte(long))
	assert.Equal(t, logBodyBytes+3, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
