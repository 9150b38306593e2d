package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/runecheck/internal/logging"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultID           = "runecheck"
	DefaultAddr         = ":9300"
	DefaultMaxBodyBytes = 1 << 20
)

// Render modes for code points in responses and CLI output.
const (
	RenderCodePoints = "codepoints"
	RenderText       = "text"
	RenderSpans      = "spans"
)

// ServiceConfig is the runtime shape of a runecheck config file.
type ServiceConfig struct {
	ID             string   `toml:"id"`
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	CorsOrigins    []string `toml:"cors_origins"`
	LogLevel       string   `toml:"log_level"`
	MetricsEnabled bool     `toml:"metrics_enabled"`
	Render         string   `toml:"render"`
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ID:             DefaultID,
		Addr:           DefaultAddr,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		CorsOrigins:    []string{"http://localhost:3000"},
		LogLevel:       "info",
		MetricsEnabled: true,
		Render:         RenderCodePoints,
	}
}

func ValidateServiceConfig(cfg ServiceConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("config missing id")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	if cfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	switch cfg.Render {
	case RenderCodePoints, RenderText, RenderSpans:
	default:
		return fmt.Errorf("unknown render mode: %q", cfg.Render)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok && strings.TrimSpace(cfg.LogLevel) != "" {
		return fmt.Errorf("unknown log_level: %q", cfg.LogLevel)
	}
	for i, origin := range cfg.CorsOrigins {
		if err := ValidateOrigin(origin); err != nil {
			return fmt.Errorf("cors_origins[%d] invalid: %w", i, err)
		}
	}
	return nil
}

// ValidateOrigin accepts the origins gin-contrib/cors accepts without
// browser-extension or websocket schemes: anything containing '*', or an
// http:// or https:// URL.
func ValidateOrigin(origin string) error {
	switch {
	case strings.Contains(origin, "*"):
		return nil
	case strings.HasPrefix(origin, "http://"), strings.HasPrefix(origin, "https://"):
		return nil
	default:
		return fmt.Errorf("origin %q must contain '*' or start with http:// or https://", origin)
	}
}

// CheckStrict parses path and fails on keys the service does not know.
func CheckStrict(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var cfg ServiceConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config has unknown keys (%s): %s", path, strings.TrimSpace(strict.String()))
		}
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg ServiceConfig) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("config encode failed: %w", err)
	}
	return string(out), nil
}
