package goAquao

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/aquao/goAquao/jwt"
)

// ProductionEnv is the NODE_ENV value that selects the plain .env file.
const ProductionEnv = "production"

// Config holds every setting of the client. Fields are populated from the
// environment by [LoadConfig]; tests and embedders may fill it directly.
type Config struct {
	Env         string `env:"NODE_ENV" envDefault:"production"`
	Host        string `env:"HOST"`
	SessionName string `env:"SESSION_NAME"`

	JWT     JWTConfig
	HTTP    HTTPConfig
	Log     LogConfig
	Metrics MetricsConfig
	Audit   AuditConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the token presented to the authorization endpoint.
//
// Issuer and Subject are not validated locally.
type JWTConfig struct {
	Issuer  string        `env:"JWT_ISSUER"`
	Subject string        `env:"JWT_SUBJECT"`
	Key     string        `env:"JWT_KEY"`
	TTL     time.Duration `env:"JWT_TTL" envDefault:"30m"`
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig configures the outgoing HTTP client. A zero Timeout keeps the
// net/http default of no timeout.
type HTTPConfig struct {
	Timeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`
	UserAgent string        `env:"HTTP_USER_AGENT" envDefault:"goAquao-demo/1.0"`
}

/*
====================================
LOG / METRICS / AUDIT CONFIG
====================================
*/

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// MetricsConfig controls in-process counters and their optional export.
type MetricsConfig struct {
	Enabled                 bool   `env:"METRICS_ENABLED" envDefault:"true"`
	EnableLatencyHistograms bool   `env:"METRICS_LATENCY" envDefault:"true"`
	Textfile                string `env:"METRICS_TEXTFILE"`
}

// AuditConfig controls the JSON-lines audit trail.
type AuditConfig struct {
	Path string `env:"AUDIT_LOG"`
}

// DefaultConfig returns a Config with every default applied and no connection
// settings.
func DefaultConfig() Config {
	return Config{
		Env: ProductionEnv,
		JWT: JWTConfig{
			TTL: jwt.DefaultTTL,
		},
		HTTP: HTTPConfig{
			UserAgent: "goAquao-demo/1.0",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

// EnvFile returns the dotenv file selected by nodeEnv: ".env" for production (or an
// empty value), ".env.<nodeEnv>" otherwise.
func EnvFile(nodeEnv string) string {
	nodeEnv = strings.TrimSpace(nodeEnv)
	if nodeEnv == "" || nodeEnv == ProductionEnv {
		return ".env"
	}
	return ".env." + nodeEnv
}

// LoadConfig loads the dotenv file selected by NODE_ENV from dir (missing files are
// ignored; variables already present in the environment win) and parses the
// environment into a Config. The result is validated.
func LoadConfig(dir string) (Config, error) {
	path := filepath.Join(dir, EnvFile(os.Getenv("NODE_ENV")))
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: load %s: %v", ErrInvalidConfig, path, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the client cannot run without. JWT claims are not
// checked here; a bad key surfaces when the token is issued.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: HOST is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.Host)
	if err != nil {
		return fmt.Errorf("%w: HOST: %v", ErrInvalidConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: HOST must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.Host)
	}

	probe := &http.Cookie{Name: c.SessionName, Value: "x"}
	if c.SessionName == "" || probe.Valid() != nil {
		return fmt.Errorf("%w: SESSION_NAME %q is not a valid cookie name", ErrInvalidConfig, c.SessionName)
	}

	if c.JWT.TTL < 0 {
		return fmt.Errorf("%w: JWT_TTL must be >= 0", ErrInvalidConfig)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("%w: HTTP_TIMEOUT must be >= 0", ErrInvalidConfig)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be text or json, got %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}
