package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/runecheck/internal/config"
)

// runecheck config.toml keys; only keys present in the file override defaults.
type fileConfig struct {
	ID             string   `toml:"id"`
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	CorsOrigins    []string `toml:"cors_origins"`
	LogLevel       string   `toml:"log_level"`
	MetricsEnabled bool     `toml:"metrics_enabled"`
	Render         string   `toml:"render"`
}

func loadServiceConfig(path string) (config.ServiceConfig, error) {
	cfg := config.DefaultServiceConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.ServiceConfig{}, fmt.Errorf("load runecheck config: %w", err)
	}

	if meta.IsDefined("id") {
		cfg.ID = strings.TrimSpace(raw.ID)
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("max_body_bytes") {
		cfg.MaxBodyBytes = raw.MaxBodyBytes
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_enabled") {
		cfg.MetricsEnabled = raw.MetricsEnabled
	}
	if meta.IsDefined("render") {
		cfg.Render = strings.ToLower(strings.TrimSpace(raw.Render))
	}

	if err := config.ValidateServiceConfig(cfg); err != nil {
		return config.ServiceConfig{}, fmt.Errorf("invalid runecheck config %s: %w", path, err)
	}
	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
