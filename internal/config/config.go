// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// OAuthProvider is one external identity provider the login flow can use.
type OAuthProvider struct {
	ID           string // provider id used in URLs and derived login names
	IssuerURL    string // OIDC issuer URL for discovery
	ClientID     string
	ClientSecret string
}

// AuthConfig holds token and identity provider configuration.
type AuthConfig struct {
	TokenSecret string        // HS256 shared secret for access tokens
	TokenTTL    time.Duration // access token lifetime (default: 24h)

	// Providers lists the configured external identity providers, in the
	// order they appear in OAUTH_PROVIDERS.
	Providers []OAuthProvider
}

// ProviderIDs returns the configured provider ids.
func (a *AuthConfig) ProviderIDs() []string {
	ids := make([]string, 0, len(a.Providers))
	for _, p := range a.Providers {
		ids = append(ids, p.ID)
	}
	return ids
}

// Validate checks that the auth configuration is internally consistent.
func (a *AuthConfig) Validate() error {
	if a.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET must be set")
	}
	if a.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	for _, p := range a.Providers {
		if p.IssuerURL == "" || p.ClientID == "" || p.ClientSecret == "" {
			return fmt.Errorf("provider %s: OAUTH_%s_ISSUER_URL, OAUTH_%s_CLIENT_ID and OAUTH_%s_CLIENT_SECRET must all be set",
				p.ID, strings.ToUpper(p.ID), strings.ToUpper(p.ID), strings.ToUpper(p.ID))
		}
	}
	return nil
}

// Config holds the configuration for the HTTP API and optional S3 storage.
type Config struct {
	DBPath         string // path to the SQLite database file
	ListenAddr     string // HTTP listen address (default ":8080")
	BaseURL        string // externally visible base URL, used for OAuth callbacks
	FrontendOrigin string // where external-login callbacks redirect to (default: BaseURL)
	LogLevel       string // log level: debug, info, warn, error (default "info")
	Env            string // environment: "development" (default) or "production"

	// S3 fields are optional — nil when upload storage is not configured.
	S3KeyID    *string
	S3Secret   *string
	S3Endpoint *string
	S3Region   *string
	S3Bucket   *string

	// Upload URL lifetime (default 15m).
	UploadURLTTL time.Duration

	// Soft-deleted post purging.
	PurgeSchedule  string        // cron spec (default "@daily")
	PurgeRetention time.Duration // how long deleted posts are kept (default 720h)

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Auth holds token and identity provider configuration.
	Auth AuthConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// HasS3Config returns true if all required S3 fields are set.
func (c *Config) HasS3Config() bool {
	return c.S3KeyID != nil && c.S3Secret != nil &&
		c.S3Endpoint != nil && c.S3Region != nil && c.S3Bucket != nil
}

// LoadFromEnv loads configuration from environment variables.
// S3 variables are optional — the app can start without them.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:         os.Getenv("DB_PATH"),
		ListenAddr:     os.Getenv("LISTEN_ADDR"),
		BaseURL:        strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		FrontendOrigin: strings.TrimRight(os.Getenv("FRONTEND_ORIGIN"), "/"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		Env:            os.Getenv("ENV"),
		PurgeSchedule:  os.Getenv("PURGE_SCHEDULE"),
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// S3 fields are optional — only set if present
	if v := os.Getenv("S3_KEY_ID"); v != "" {
		cfg.S3KeyID = &v
	}
	if v := os.Getenv("S3_SECRET"); v != "" {
		cfg.S3Secret = &v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.S3Endpoint = &v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.S3Region = &v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.S3Bucket = &v
	}

	if v := os.Getenv("UPLOAD_URL_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid UPLOAD_URL_TTL: %w", err)
		}
		cfg.UploadURLTTL = d
	}
	if v := os.Getenv("PURGE_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PURGE_RETENTION: %w", err)
		}
		cfg.PurgeRetention = d
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Auth config
	cfg.Auth = AuthConfig{
		TokenSecret: os.Getenv("TOKEN_SECRET"),
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}
	if v := os.Getenv("OAUTH_PROVIDERS"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			id := strings.ToLower(strings.TrimSpace(raw))
			if id == "" {
				continue
			}
			envID := strings.ToUpper(id)
			cfg.Auth.Providers = append(cfg.Auth.Providers, OAuthProvider{
				ID:           id,
				IssuerURL:    os.Getenv("OAUTH_" + envID + "_ISSUER_URL"),
				ClientID:     os.Getenv("OAUTH_" + envID + "_CLIENT_ID"),
				ClientSecret: os.Getenv("OAUTH_" + envID + "_CLIENT_SECRET"),
			})
		}
	}

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "inkwell.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.FrontendOrigin == "" {
		cfg.FrontendOrigin = cfg.BaseURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.UploadURLTTL == 0 {
		cfg.UploadURLTTL = 15 * time.Minute
	}
	if cfg.PurgeSchedule == "" {
		cfg.PurgeSchedule = "@daily"
	}
	if cfg.PurgeRetention == 0 {
		cfg.PurgeRetention = 30 * 24 * time.Hour
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.TokenSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("TOKEN_SECRET must be set in production (ENV=production)")
		}
		cfg.Auth.TokenSecret = "dev-only-token-secret"
		cfg.Warnings = append(cfg.Warnings, "TOKEN_SECRET not set — using insecure default. Set TOKEN_SECRET in production!")
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Auth.Providers) == 0 {
		cfg.Warnings = append(cfg.Warnings, "no external identity providers configured — set OAUTH_PROVIDERS to enable OAuth2 login")
	}
	if !cfg.HasS3Config() {
		cfg.Warnings = append(cfg.Warnings, "S3 is not configured — upload URL issuing is disabled")
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
		if !strings.HasPrefix(cfg.BaseURL, "https://") {
			return nil, fmt.Errorf("BASE_URL must be https in production (ENV=production)")
		}
	}

	return cfg, nil
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
