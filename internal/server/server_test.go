package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/observability"
	"github.com/matzehuels/tessera/pkg/pipeline"
)

func newTestServer(t *testing.T) (*Server, *observability.Counters) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	counters := &observability.Counters{}
	return New(pipeline.NewRunner(c, nil, logger), logger, counters), counters
}

func do(t *testing.T, h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
}

func TestPostBuild(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/builds", `{"width": 3, "depth": 4, "seed": 5, "formats": ["txt", "svg"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got buildResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 3, got.Width)
	assert.Equal(t, 4, got.Depth)
	assert.Equal(t, uint64(5), got.Seed)
	assert.Equal(t, 11, got.Steps)
	assert.Equal(t, 12, got.Grid.Filled())
	assert.False(t, got.Cache.Build)
	assert.Contains(t, string(got.Artifacts["svg"]), "<svg")
	assert.NotEmpty(t, got.Artifacts["txt"])

	// Same request again is served from cache with the same grid.
	rec = do(t, s, http.MethodPost, "/v1/builds", `{"width": 3, "depth": 4, "seed": 5, "formats": ["txt", "svg"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var again buildResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.True(t, again.Cache.Dataset)
	assert.True(t, again.Cache.Build)
	assert.True(t, again.Cache.Render)
	assert.Equal(t, got.Grid, again.Grid)
	assert.NotEqual(t, got.RunID, again.RunID)
}

func TestPostBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"width": `, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"colour": "red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative width", `{"width": -2}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"bad generator", `{"generator": "plaid"}`, http.StatusBadRequest, "INVALID_GENERATOR"},
		{"bad format", `{"width": 2, "depth": 2, "formats": ["gif"]}`, http.StatusBadRequest, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, counters := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/v1/builds", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, int64(1), counters.Snapshot().Failures)
		})
	}
}

func TestGetArtifact(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/builds/png?width=2&depth=3&seed=9", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, s, http.MethodGet, "/v1/builds/txt?width=2&depth=3&seed=9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestGetArtifactBadQuery(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/v1/builds/svg?width=wide", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/builds/gif?width=2&depth=2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsCountRequests(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodGet, "/healthz", "")

	rec := do(t, s, http.MethodGet, "/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap observability.CounterSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	// The stats request itself is counted after it responds.
	assert.Equal(t, int64(2), snap.Requests)
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/v2/anything", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptionsFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/builds/svg?generator=bands&width=4&depth=5&seed=7&data_seed=8&seed_element=2&scale=2&labels=true&background=%23101010", nil)
	opts, err := optionsFromQuery(req)
	require.NoError(t, err)
	assert.Equal(t, "bands", opts.Generator)
	assert.Equal(t, 4, opts.Width)
	assert.Equal(t, 5, opts.Depth)
	assert.Equal(t, uint64(7), opts.Seed)
	assert.Equal(t, uint64(8), opts.DataSeed)
	require.NotNil(t, opts.SeedElement)
	assert.Equal(t, 2, *opts.SeedElement)
	assert.Equal(t, 2.0, opts.Scale)
	assert.True(t, opts.Labels)
	assert.Equal(t, "#101010", opts.Background)
}
