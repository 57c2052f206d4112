package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/stayprice"
	"github.com/happyhackingspace/stayprice/internal/config"
	"github.com/happyhackingspace/stayprice/internal/history"
	"github.com/happyhackingspace/stayprice/regress"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	b := &regress.Bundle{
		FeatureColumns:  []string{"accommodates", "bedrooms", "has_wifi"},
		FeatureDefaults: map[string]float64{"bedrooms": 1},
		Regressor:       &regress.Linear{Coef: []float64{10, 5, 3}, Intercept: 10},
		Metadata:        regress.Metadata{Name: "test-model"},
	}
	p, err := stayprice.NewPredictor(b, stayprice.DefaultOptions())
	require.NoError(t, err)
	return New(p, opts)
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *apiError       `json:"error"`
	RequestID string          `json:"request_id"`
}

func do(t *testing.T, s *Server, method, path, body string, header ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestPredict(t *testing.T) {
	s := newTestServer(t, Options{})
	rec, env := do(t, s, http.MethodPost, "/api/v1/predict",
		`{"accommodates": 4, "bedrooms": 2, "amenities": "[\"Wifi\"]", "neighbourhood_cleansed": "Hulme"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), env.RequestID)

	var data struct {
		Price  float64 `json:"price"`
		Report struct {
			Market struct {
				Known bool `json:"known"`
			} `json:"market"`
		} `json:"report"`
		ID       string   `json:"id"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 63.0, data.Price)
	assert.False(t, data.Report.Market.Known)
	assert.Empty(t, data.ID)
	assert.Empty(t, data.Warnings)
}

func TestPredictWarnings(t *testing.T) {
	s := newTestServer(t, Options{})
	_, env := do(t, s, http.MethodPost, "/api/v1/predict", `{"host_since": "last year", "beds": -1}`)
	assert.True(t, env.Success)

	var data struct {
		Price    float64  `json:"price"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 35.0, data.Price)
	assert.Len(t, data.Warnings, 2)
}

func TestPredictRecordsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	store, err := history.NewCSVStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := newTestServer(t, Options{History: store})
	_, env := do(t, s, http.MethodPost, "/api/v1/predict", `{}`)

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.ID)
}

func TestPredictBadRequests(t *testing.T) {
	s := newTestServer(t, Options{MaxBodyBytes: 64})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty", "", http.StatusBadRequest, "invalid_json"},
		{"malformed", "{", http.StatusBadRequest, "invalid_json"},
		{"wrong type", `{"accommodates": "four"}`, http.StatusBadRequest, "invalid_json"},
		{"too large", `{"description": "` + strings.Repeat("x", 100) + `"}`, http.StatusRequestEntityTooLarge, "body_too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, s, http.MethodPost, "/api/v1/predict", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestFeatures(t *testing.T) {
	s := newTestServer(t, Options{})
	_, env := do(t, s, http.MethodPost, "/api/v1/features", `{"accommodates": 3}`)

	var data struct {
		Row struct {
			Columns []string  `json:"columns"`
			Values  []float64 `json:"values"`
		} `json:"row"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"accommodates", "bedrooms", "has_wifi"}, data.Row.Columns)
	assert.Equal(t, []float64{3, 1, 0}, data.Row.Values)

	_, env = do(t, s, http.MethodPost, "/api/v1/features?all=true", `{"accommodates": 3}`)
	var all struct {
		Record map[string]float64 `json:"record"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Equal(t, 3.0, all.Record["people_per_bedroom"])
	assert.Greater(t, len(all.Record), 100)
}

func TestSchemaAndHealth(t *testing.T) {
	s := newTestServer(t, Options{Version: "1.2.3"})

	_, env := do(t, s, http.MethodGet, "/api/v1/schema", "")
	var schema schemaResponse
	require.NoError(t, json.Unmarshal(env.Data, &schema))
	assert.Equal(t, []string{"accommodates", "bedrooms", "has_wifi"}, schema.Columns)
	assert.Equal(t, 1.0, schema.Defaults["bedrooms"])
	assert.Equal(t, "test-model", schema.Metadata.Name)

	rec, env := do(t, s, http.MethodGet, "/healthz", "", RequestIDHeader, "abc-123")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", env.RequestID)
	assert.Contains(t, string(env.Data), `"version":"1.2.3"`)
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, Options{})

	tests := []struct {
		method string
		path   string
		status int
		code   string
	}{
		{http.MethodGet, "/api/v1/predict", http.StatusMethodNotAllowed, "method_not_allowed"},
		{http.MethodGet, "/api/v1/features", http.StatusMethodNotAllowed, "method_not_allowed"},
		{http.MethodPost, "/api/v1/schema", http.StatusMethodNotAllowed, "method_not_allowed"},
		{http.MethodDelete, "/healthz", http.StatusMethodNotAllowed, "method_not_allowed"},
		{http.MethodGet, "/nope", http.StatusNotFound, "not_found"},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec, env := do(t, s, tt.method, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
			assert.Equal(t, rec.Header().Get(RequestIDHeader), env.RequestID)
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1})

	rec, _ := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", env.Error.Code)
}

func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, config.ServerConfig{Addr: "127.0.0.1:0"})
	}()
	cancel()
	assert.NoError(t, <-done)
}
