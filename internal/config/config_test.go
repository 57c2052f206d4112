package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/stayprice/analytics"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Model.Path)
	assert.Equal(t, "2024-01-01", cfg.Model.ReferenceDate)
	assert.Equal(t, 0.5, cfg.Model.ReviewsPerMonthFallback)
	assert.Equal(t, "Manchester", cfg.Model.NeighbourhoodGroup)
	assert.Equal(t, analytics.DefaultFallback, cfg.Market.Fallback)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 0.0, cfg.Server.RateLimit)
	assert.Equal(t, 20, cfg.Server.RateBurst)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.CheckRobots)
	assert.False(t, cfg.Fetch.Render)

	opts, err := cfg.ListingOptions()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), opts.ReferenceDate)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "stayprice.yaml", `
model:
  path: models/manchester
  reference_date: "2023-06-30"
  neighbourhood_group: Bristol
market:
  neighbourhoods:
    Clifton: {low: 60, avg: 90, high: 140}
server:
  addr: ":9090"
  read_timeout: 5s
fetch:
  render: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "models/manchester", cfg.Model.Path)
	assert.Equal(t, "Bristol", cfg.Model.NeighbourhoodGroup)
	assert.Equal(t, 0.5, cfg.Model.ReviewsPerMonthFallback)
	assert.Equal(t, analytics.MarketBand{Low: 60, Avg: 90, High: 140}, cfg.Market.Neighbourhoods["Clifton"])
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Fetch.Render)
	assert.True(t, cfg.Fetch.CheckRobots)

	opts, err := cfg.ListingOptions()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), opts.ReferenceDate)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "stayprice.json", `{"history": {"csv_path": "history.csv"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "history.csv", cfg.History.CSVPath)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STAYPRICE_MODEL_PATH", "/srv/model.json")
	t.Setenv("STAYPRICE_REVIEWS_PER_MONTH_FALLBACK", "1.25")
	t.Setenv("STAYPRICE_DATABASE_URL", "postgres://localhost/stayprice?sslmode=disable")
	t.Setenv("STAYPRICE_ADDR", ":7000")
	t.Setenv("STAYPRICE_FETCH_TIMEOUT", "10s")
	t.Setenv("STAYPRICE_CHECK_ROBOTS", "false")

	path := writeConfig(t, "stayprice.yml", "model:\n  path: from-file.json\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/model.json", cfg.Model.Path)
	assert.Equal(t, 1.25, cfg.Model.ReviewsPerMonthFallback)
	assert.Equal(t, "postgres://localhost/stayprice?sslmode=disable", cfg.History.DatabaseURL)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.False(t, cfg.Fetch.CheckRobots)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = Load(writeConfig(t, "bad.yaml", "model: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "date.yaml", "model:\n  reference_date: 01/02/2024\n"))
	assert.ErrorContains(t, err, "reference_date")

	_, err = Load(writeConfig(t, "rate.yaml", "server:\n  rate_limit: 5\n  rate_burst: 0\n"))
	assert.ErrorContains(t, err, "rate_limit")

	_, err = Load(writeConfig(t, "band.yaml", "market:\n  neighbourhoods:\n    X: {low: 10, avg: 5, high: 20}\n"))
	assert.ErrorContains(t, err, "market band")
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_FLOAT", "2.5")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "1m")
	t.Setenv("TEST_INVALID", "not-a-number")

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"string", GetStringEnv("TEST_STRING", "default"), "value"},
		{"string default", GetStringEnv("TEST_MISSING", "default"), "default"},
		{"int", GetIntEnv("TEST_INT", 1), 42},
		{"int invalid", GetIntEnv("TEST_INVALID", 1), 1},
		{"float", GetFloatEnv("TEST_FLOAT", 1), 2.5},
		{"float invalid", GetFloatEnv("TEST_INVALID", 1), 1.0},
		{"bool", GetBoolEnv("TEST_BOOL", false), true},
		{"bool invalid", GetBoolEnv("TEST_INVALID", true), true},
		{"duration", GetDurationEnv("TEST_DURATION", time.Second), time.Minute},
		{"duration invalid", GetDurationEnv("TEST_INVALID", time.Second), time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}
