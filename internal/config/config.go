package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nfrund/miniapp/internal/verifyclient"
)

// Environment selects the set of defaults applied to the configuration.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
)

// Default verification endpoints per environment.
const (
	DefaultProductionVerifyURL  = "https://api.example.org/verify"
	DefaultDevelopmentVerifyURL = "http://localhost:8000/verify"
)

const devSessionSecret = "dev-session-secret-change-me-please"

// ErrOverrideNotAllowed is returned by Resolve when a query parameter tries
// to change something the deployment does not permit.
var ErrOverrideNotAllowed = errors.New("override not allowed in this deployment")

// Config holds all configuration for the application.
type Config struct {
	Env       Environment
	HTTPAddr  string
	VerifyURL string
	// AllowDevBypass must be switched on explicitly for ?dev=1 to skip verification.
	AllowDevBypass bool
	// AllowEndpointOverride lets ?endpoint= point the flow at another verifier.
	AllowEndpointOverride bool
	Diagnostics           bool
	MockUserFile          string
	SessionSecret         string
	DefaultLocale         string
	RateLimitPerMin       int
}

// New loads a .env file if present and builds the configuration from the
// environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	env := Environment(strings.ToLower(get("APP_ENV", string(Production))))
	if env != Production && env != Development {
		return nil, fmt.Errorf("APP_ENV must be %q or %q, got %q", Production, Development, env)
	}
	dev := env == Development

	defaultURL := DefaultProductionVerifyURL
	defaultSecret := ""
	if dev {
		defaultURL = DefaultDevelopmentVerifyURL
		defaultSecret = devSessionSecret
	}

	cfg := &Config{
		Env:                   env,
		HTTPAddr:              get("HTTP_ADDR", ":8080"),
		VerifyURL:             get("VERIFY_URL", defaultURL),
		AllowDevBypass:        parseBool(getenv("ALLOW_DEV_BYPASS"), false),
		AllowEndpointOverride: parseBool(getenv("ALLOW_ENDPOINT_OVERRIDE"), dev),
		Diagnostics:           parseBool(getenv("DIAGNOSTICS"), dev),
		MockUserFile:          get("MOCK_USER_FILE", ""),
		SessionSecret:         get("SESSION_SECRET", defaultSecret),
		DefaultLocale:         get("LOCALE_DEFAULT", "en"),
		RateLimitPerMin:       30,
	}

	if raw := strings.TrimSpace(getenv("RATE_LIMIT_PER_MIN")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_PER_MIN must be a positive integer, got %q", raw)
		}
		cfg.RateLimitPerMin = n
	}

	if err := verifyclient.ValidateEndpoint(cfg.VerifyURL); err != nil {
		return nil, fmt.Errorf("VERIFY_URL: %w", err)
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is required in production")
	}
	if cfg.AllowDevBypass && !dev {
		slog.Warn("Development bypass is enabled in a production environment")
	}

	return cfg, nil
}

// IsDevelopment reports whether development defaults are in effect.
func (c *Config) IsDevelopment() bool {
	return c.Env == Development
}

// Resolved is the per-page configuration after query parameters are applied.
type Resolved struct {
	Endpoint    string
	Bypass      bool
	Diagnostics bool
}

// Resolve applies the "endpoint" and "dev" query parameters on top of the
// configured defaults. Overrides the deployment forbids are rejected rather
// than silently ignored.
func (c *Config) Resolve(q url.Values) (Resolved, error) {
	r := Resolved{
		Endpoint:    c.VerifyURL,
		Diagnostics: c.Diagnostics,
	}

	if ep := strings.TrimSpace(q.Get("endpoint")); ep != "" && ep != c.VerifyURL {
		if !c.AllowEndpointOverride {
			return Resolved{}, fmt.Errorf("endpoint: %w", ErrOverrideNotAllowed)
		}
		if err := verifyclient.ValidateEndpoint(ep); err != nil {
			return Resolved{}, err
		}
		r.Endpoint = ep
	}

	if parseBool(q.Get("dev"), false) {
		if !c.AllowDevBypass {
			return Resolved{}, fmt.Errorf("dev bypass: %w", ErrOverrideNotAllowed)
		}
		r.Bypass = true
	}

	return r, nil
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
