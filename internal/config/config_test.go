package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

func envMap(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "50052", cfg.Server.GRPCPort)
	assert.Equal(t, RepoMemory, cfg.Storage.Type)
	assert.Equal(t, 30*24*time.Hour, cfg.Storage.Retention)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, domain.DefaultOptions(), cfg.Estimator.Defaults)
	assert.False(t, cfg.TLS.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
server:
  grpc_port: "6000"
  allowed_origins: ["http://localhost:5173"]
storage:
  type: sqlite
  db_path: /tmp/runs.db
  retention: 72h
estimator:
  max_grid_points: 5000
  defaults:
    photoperiod_hours: 18
    calibration:
      falloff: gaussian
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, path))

	assert.Equal(t, "6000", cfg.Server.GRPCPort)
	assert.Equal(t, "8080", cfg.Server.HTTPPort, "unset keys keep defaults")
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, RepoSQLite, cfg.Storage.Type)
	assert.Equal(t, 72*time.Hour, cfg.Storage.Retention)
	assert.Equal(t, 5000, cfg.Estimator.MaxGridPoints)
	assert.Equal(t, 18.0, cfg.Estimator.Defaults.PhotoperiodHours)
	assert.Equal(t, domain.FalloffGaussian, cfg.Estimator.Defaults.Calibration.Falloff)
	assert.Equal(t, 2.4, cfg.Estimator.Defaults.Calibration.ConcentrationBase, "nested defaults survive")
	assert.Equal(t, "json", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(cfg, envMap(map[string]string{
		"PORT":            "7000",
		"REPO_TYPE":       "mongo",
		"MONGO_URI":       "mongodb://localhost:27017",
		"RETENTION":       "12h",
		"WORKERS":         "4",
		"ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"TLS_CERT":        "server.crt",
	}))
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.GRPCPort)
	assert.Equal(t, RepoMongo, cfg.Storage.Type)
	assert.Equal(t, 12*time.Hour, cfg.Storage.Retention)
	assert.Equal(t, 4, cfg.Estimator.Workers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)

	// Cert without key and CA is rejected
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestApplyEnv_BadValues(t *testing.T) {
	tests := map[string]string{
		"RETENTION":       "a while",
		"MAX_GRID_POINTS": "lots",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			err := applyEnv(Default(), envMap(map[string]string{key: value}))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no grpc port", func(c *Config) { c.Server.GRPCPort = "" }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Storage.Type = RepoSQLite; c.Storage.DBPath = "" }},
		{"mongo without uri", func(c *Config) { c.Storage.Type = RepoMongo }},
		{"negative retention", func(c *Config) { c.Storage.Retention = -time.Hour }},
		{"retention without interval", func(c *Config) { c.Storage.PruneInterval = 0 }},
		{"negative workers", func(c *Config) { c.Estimator.Workers = -1 }},
		{"bad photoperiod", func(c *Config) { c.Estimator.Defaults.PhotoperiodHours = 30 }},
		{"bad falloff", func(c *Config) { c.Estimator.Defaults.Calibration.Falloff = "linear" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEstimatorSettings(t *testing.T) {
	cfg := Default()
	cfg.Estimator.MaxGridPoints = 42

	est := cfg.EstimatorSettings()
	assert.Equal(t, 42, est.MaxGridPoints)
	assert.Equal(t, cfg.Estimator.Defaults, est.Defaults)
}
