package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < environment.
// An empty path skips the file. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

type lookupFunc func(key string) (string, bool)

// applyEnv overrides cfg with any of the service's environment variables that are set.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		"PORT":         &cfg.Server.GRPCPort,
		"HTTP_PORT":    &cfg.Server.HTTPPort,
		"REPO_TYPE":    &cfg.Storage.Type,
		"DB_PATH":      &cfg.Storage.DBPath,
		"MONGO_URI":    &cfg.Storage.MongoURI,
		"MONGO_DB":     &cfg.Storage.MongoDB,
		"CATALOG_PATH": &cfg.Catalog.Path,
		"LOG_LEVEL":    &cfg.Logging.Level,
		"LOG_FORMAT":   &cfg.Logging.Format,
		"LOG_FILE":     &cfg.Logging.File,
		"TLS_CERT":     &cfg.TLS.Cert,
		"TLS_KEY":      &cfg.TLS.Key,
		"TLS_CA":       &cfg.TLS.CA,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	durations := map[string]*time.Duration{
		"RETENTION":      &cfg.Storage.Retention,
		"PRUNE_INTERVAL": &cfg.Storage.PruneInterval,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = d
	}

	ints := map[string]*int{
		"MAX_GRID_POINTS": &cfg.Estimator.MaxGridPoints,
		"WORKERS":         &cfg.Estimator.Workers,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = n
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
