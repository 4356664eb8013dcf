// Package config handles service configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/ports"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid config")

// Repository types
const (
	RepoMemory = "memory"
	RepoSQLite = "sqlite"
	RepoMongo  = "mongo"
)

// Config holds all service settings.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Logging   LoggingConfig   `yaml:"logging"`
	TLS       TLSConfig       `yaml:"tls"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	GRPCPort       string   `yaml:"grpc_port"`
	HTTPPort       string   `yaml:"http_port"` // empty disables the HTTP API
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig selects and configures the run repository.
type StorageConfig struct {
	Type          string        `yaml:"type"` // "memory" | "sqlite" | "mongo"
	DBPath        string        `yaml:"db_path"`
	MongoURI      string        `yaml:"mongo_uri"`
	MongoDB       string        `yaml:"mongo_db"`
	Retention     time.Duration `yaml:"retention"`      // 0 keeps runs forever
	PruneInterval time.Duration `yaml:"prune_interval"` // how often old runs are removed
}

// CatalogConfig points at an optional YAML fixture file layered over the builtin catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// EstimatorConfig bounds the estimator and sets request defaults.
type EstimatorConfig struct {
	MaxGridPoints     int                `yaml:"max_grid_points"`
	ParallelThreshold int                `yaml:"parallel_threshold"`
	Workers           int                `yaml:"workers"`
	Defaults          domain.CalcOptions `yaml:"defaults"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "console" | "json"
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// TLSConfig holds mTLS material. All three paths are needed to enable TLS.
type TLSConfig struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
	CA   string `yaml:"ca"`
}

// Enabled reports whether any TLS material was configured
func (t TLSConfig) Enabled() bool {
	return t.Cert != "" || t.Key != "" || t.CA != ""
}

// Default returns a Config with sensible default values.
func Default() *Config {
	est := ports.DefaultEstimatorConfig()
	return &Config{
		Server: ServerConfig{
			GRPCPort: "50052",
			HTTPPort: "8080",
		},
		Storage: StorageConfig{
			Type:          RepoMemory,
			DBPath:        "./photometry.db",
			MongoDB:       "photometry",
			Retention:     30 * 24 * time.Hour,
			PruneInterval: time.Hour,
		},
		Estimator: EstimatorConfig{
			MaxGridPoints:     est.MaxGridPoints,
			ParallelThreshold: est.ParallelThreshold,
			Workers:           est.Workers,
			Defaults:          est.Defaults,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// EstimatorSettings converts the estimator section for ports.NewEstimator
func (c *Config) EstimatorSettings() ports.EstimatorConfig {
	return ports.EstimatorConfig{
		MaxGridPoints:     c.Estimator.MaxGridPoints,
		ParallelThreshold: c.Estimator.ParallelThreshold,
		Workers:           c.Estimator.Workers,
		Defaults:          c.Estimator.Defaults,
	}
}

// Validate checks the config is usable before anything is opened.
func (c *Config) Validate() error {
	if c.Server.GRPCPort == "" {
		return fmt.Errorf("%w: server.grpc_port is required", ErrInvalidConfig)
	}

	switch c.Storage.Type {
	case RepoMemory:
	case RepoSQLite:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("%w: storage.db_path is required for sqlite", ErrInvalidConfig)
		}
	case RepoMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDB == "" {
			return fmt.Errorf("%w: storage.mongo_uri and storage.mongo_db are required for mongo", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.type %q", ErrInvalidConfig, c.Storage.Type)
	}
	if c.Storage.Retention < 0 {
		return fmt.Errorf("%w: storage.retention must not be negative", ErrInvalidConfig)
	}
	if c.Storage.Retention > 0 && c.Storage.PruneInterval <= 0 {
		return fmt.Errorf("%w: storage.prune_interval must be positive when retention is set", ErrInvalidConfig)
	}

	if c.Estimator.MaxGridPoints < 0 || c.Estimator.ParallelThreshold < 0 || c.Estimator.Workers < 0 {
		return fmt.Errorf("%w: estimator limits must not be negative", ErrInvalidConfig)
	}
	if err := c.Estimator.Defaults.Validate(); err != nil {
		return fmt.Errorf("%w: estimator.defaults: %v", ErrInvalidConfig, err)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}

	if c.TLS.Enabled() && (c.TLS.Cert == "" || c.TLS.Key == "" || c.TLS.CA == "") {
		return fmt.Errorf("%w: tls.cert, tls.key and tls.ca must be set together", ErrInvalidConfig)
	}
	return nil
}
