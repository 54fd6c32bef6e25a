package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"inkq"`

	// Session backend: "mongo" keeps sessions next to the user records,
	// "redis" keeps them in Redis with native TTL eviction.
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"mongo"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`

	// Session Configuration. The TTL is a fixed window from creation; it is
	// not renewed on use.
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	ResolveTimeout time.Duration `env:"SESSION_RESOLVE_TIMEOUT" envDefault:"3s"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"12"`

	// Cookie Configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"inkq_session"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`

	// Default locale used when a request path carries no locale segment.
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error())
	}

	switch cfg.SessionBackend {
	case "mongo", "redis":
	default:
		return nil, errors.New("session_backend must be 'mongo' or 'redis'")
	}

	if cfg.SessionTTL <= 0 {
		return nil, errors.New("session_ttl must be positive")
	}
	if cfg.ResolveTimeout <= 0 {
		return nil, errors.New("session_resolve_timeout must be positive")
	}
	if cfg.CookieName == "" {
		return nil, errors.New("cookie_name is required")
	}

	cfg.CookieSameSite = normalizeSameSite(cfg.CookieSameSite)
	if cfg.CookieSameSite == "" {
		return nil, errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	if cfg.IsProduction() {
		cfg.CookieSecure = true
	}

	if len(cfg.DefaultLocale) != 2 {
		return nil, errors.New("default_locale must be a 2-letter code")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in a production environment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

func normalizeSameSite(v string) string {
	switch strings.ToLower(v) {
	case "lax":
		return "Lax"
	case "strict":
		return "Strict"
	case "none":
		return "None"
	}
	return ""
}
