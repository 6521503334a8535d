package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"

	"github.com/Simplici0/mkm/internal/icms"
	"github.com/Simplici0/mkm/internal/logging"
	"github.com/Simplici0/mkm/internal/pricing"
)

const dotEnvPath = ".env"

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string `env:"APP_ENV" envDefault:"dev"`
	Port          string `env:"PORT" envDefault:"8080"`
	DBPath        string `env:"DB_PATH" envDefault:"./dev.db"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogOutput string `env:"LOG_OUTPUT" envDefault:"stderr"`

	OriginUF      icms.UF `env:"ORIGIN_UF" envDefault:"SC"`
	DefaultDestUF icms.UF `env:"DEFAULT_DEST_UF" envDefault:"SC"`
	DefaultMarkup float64 `env:"DEFAULT_MKM" envDefault:"15"`
}

// Load reads the process environment, falling back to values from a local
// .env file, and returns a validated Config.
func Load() (Config, error) {
	return LoadFrom(dotEnvPath)
}

// LoadFrom is Load with an explicit dotenv path. A missing file is ignored.
func LoadFrom(path string) (Config, error) {
	fileVars, err := readDotEnv(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: mergeEnv(fileVars, os.Environ())}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || strings.EqualFold(c.Env, "dev") || strings.EqualFold(c.Env, "development")
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:       c.LogLevel,
		Format:      c.LogFormat,
		Output:      c.LogOutput,
		Development: c.IsDev(),
	}
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	return warnings
}

func (c *Config) normalize() error {
	origin, ok := icms.Parse(string(c.OriginUF))
	if !ok {
		return fmt.Errorf("ORIGIN_UF %q is not a federative unit", c.OriginUF)
	}
	c.OriginUF = origin

	dest, ok := icms.Parse(string(c.DefaultDestUF))
	if !ok {
		return fmt.Errorf("DEFAULT_DEST_UF %q is not a federative unit", c.DefaultDestUF)
	}
	c.DefaultDestUF = dest

	if !pricing.IsMarkupOption(c.DefaultMarkup) {
		return fmt.Errorf("DEFAULT_MKM %v must be one of %v", c.DefaultMarkup, pricing.MarkupOptions)
	}

	if c.SessionSecret == "" && !c.IsDev() {
		return fmt.Errorf("SESSION_SECRET is required when APP_ENV is %q", c.Env)
	}
	return nil
}

// mergeEnv overlays non-empty process variables on top of file values.
func mergeEnv(fileVars map[string]string, environ []string) map[string]string {
	merged := make(map[string]string, len(fileVars)+len(environ))
	for k, v := range fileVars {
		merged[k] = v
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}
