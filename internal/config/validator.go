package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks the config for:
//   - Required fields (version, map path)
//   - Engine settings that cannot run (zero or negative workers, queue, timeout)
//   - An unknown log level
func Validate(cfg *NavConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if strings.TrimSpace(cfg.Map.Path) == "" {
		errs = append(errs, "map.path is required")
	}
	if cfg.Engine.QueryWorkers <= 0 {
		errs = append(errs, fmt.Sprintf("engine.query_workers must be positive, got %d", cfg.Engine.QueryWorkers))
	}
	if cfg.Engine.QueueDepth <= 0 {
		errs = append(errs, fmt.Sprintf("engine.queue_depth must be positive, got %d", cfg.Engine.QueueDepth))
	}
	if cfg.Engine.QueryTimeoutMs <= 0 {
		errs = append(errs, fmt.Sprintf("engine.query_timeout_ms must be positive, got %d", cfg.Engine.QueryTimeoutMs))
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ParseLevel maps a log_level value to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return lvl, nil
}
