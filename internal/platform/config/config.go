// Package config loads service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize bounds request bodies, snapshot imports included (4MB).
	DefaultMaxRequestSize = 4 << 20

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 1

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 20

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 4

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultAdminUsername and DefaultAdminPassword apply when no credentials are configured.
	DefaultAdminUsername = "ahattikudur"
	DefaultAdminPassword = "test123"

	// DevCookieSecret signs local sessions. Validation rejects it in prod.
	DevCookieSecret = "askadit-local-development-cookie-secret"

	// DefaultCookieTTL is the static session lifetime.
	DefaultCookieTTL = 7 * 24 * time.Hour
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"      validate:"required"`
	Store     StoreConfig     `koanf:"store"     validate:"required"`
	Blob      BlobConfig      `koanf:"blob"      validate:"required"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Sync      SyncConfig      `koanf:"sync"      validate:"required"`
	Content   ContentConfig   `koanf:"content"   validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// IsProduction reports whether the service runs in prod.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "prod"
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	Insecure     bool    `koanf:"insecure"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// AuthConfig selects and configures the admin gate.
type AuthConfig struct {
	Mode string `koanf:"mode" validate:"required,oneof=static hosted"`

	Username     string `koanf:"username"      validate:"required_if=Mode static"`
	Password     string `koanf:"password"`
	PasswordHash string `koanf:"password_hash" validate:"omitempty,startswith=$2"`

	CookieName   string        `koanf:"cookie_name"   validate:"required"`
	CookieSecret string        `koanf:"cookie_secret" validate:"required_if=Mode static,omitempty,min=16"`
	CookieTTL    time.Duration `koanf:"cookie_ttl"    validate:"required,min=1m"`

	LoginRate RateConfig       `koanf:"login_rate" validate:"required"`
	Hosted    HostedAuthConfig `koanf:"hosted"`
}

// HostedAuthConfig validates tokens issued by a hosted auth provider.
type HostedAuthConfig struct {
	JWTSecret  string `koanf:"jwt_secret"  validate:"omitempty,min=16"`
	Issuer     string `koanf:"issuer"`
	Audience   string `koanf:"audience"`
	CookieName string `koanf:"cookie_name" validate:"required"`
}

// RateConfig is a token bucket: Requests per Window with Burst headroom.
type RateConfig struct {
	Requests int           `koanf:"requests" validate:"required,min=1"`
	Window   time.Duration `koanf:"window"   validate:"required,min=1s"`
	Burst    int           `koanf:"burst"    validate:"required,min=1"`
}

// StoreConfig selects the content store.
type StoreConfig struct {
	Driver   string         `koanf:"driver"   validate:"required,oneof=embedded postgres"`
	Postgres PostgresConfig `koanf:"postgres"`
}

// PostgresConfig configures the hosted store.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"          validate:"omitempty,min=1"`
	MinConns        int32         `koanf:"min_conns"          validate:"omitempty,min=0"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
}

// BlobConfig selects where blobs (the embedded store image and sync
// settings) are kept.
type BlobConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=file sqlite memory"`
	Path   string `koanf:"path"   validate:"required_unless=Driver memory"`
}

// ClientConfig contains HTTP client settings for the remote document API.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// SyncConfig configures remote backup. GistID and Token only seed the
// stored settings; once settings exist they win.
type SyncConfig struct {
	BaseURL     string `koanf:"base_url"      validate:"required,url"`
	FileName    string `koanf:"file_name"     validate:"required"`
	Description string `koanf:"description"   validate:"required"`
	GistID      string `koanf:"gist_id"`
	Token       string `koanf:"token"`
	PullOnStart bool   `koanf:"pull_on_start"`
}

// ContentConfig holds content facade settings.
type ContentConfig struct {
	UpdateMode string `koanf:"update_mode" validate:"required,oneof=replace merge"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "askadit-content",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "20s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.insecure":      false,
		"telemetry.service_name":  "askadit-content",
		"telemetry.sampling_rate": 1.0,

		"auth.mode":                "static",
		"auth.username":            DefaultAdminUsername,
		"auth.password":            DefaultAdminPassword,
		"auth.password_hash":       "",
		"auth.cookie_name":         "askadit_auth",
		"auth.cookie_secret":       DevCookieSecret,
		"auth.cookie_ttl":          DefaultCookieTTL.String(),
		"auth.login_rate.requests": 5,
		"auth.login_rate.window":   "1m",
		"auth.login_rate.burst":    5,
		"auth.hosted.jwt_secret":   "",
		"auth.hosted.issuer":       "",
		"auth.hosted.audience":     "authenticated",
		"auth.hosted.cookie_name":  "sb-access-token",

		"store.driver":                      "embedded",
		"store.postgres.dsn":                "",
		"store.postgres.max_conns":          10,
		"store.postgres.min_conns":          0,
		"store.postgres.max_conn_lifetime":  "1h",
		"store.postgres.max_conn_idle_time": "30m",

		"blob.driver": "file",
		"blob.path":   "./data",

		"client.timeout":                           "15s",
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"sync.base_url":      "https://api.github.com",
		"sync.file_name":     "askadit-db.json",
		"sync.description":   "AskAdit Database",
		"sync.gist_id":       "",
		"sync.token":         "",
		"sync.pull_on_start": true,

		"content.update_mode": "replace",
	}
}

// Options controls where Load looks for configuration.
type Options struct {
	// Profile selects configs/<profile>.yaml.
	Profile string

	// Dir holds base.yaml and the profile files. Defaults to "configs".
	Dir string
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix, plus ADMIN_USERNAME and ADMIN_PASSWORD)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadWithOptions(Options{Profile: profile})
}

// LoadWithOptions is Load with an explicit config directory.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.Dir == "" {
		opts.Dir = "configs"
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, opts.Dir+"/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if opts.Profile != "" {
		if err := loadFileIfExists(k, fmt.Sprintf("%s/%s.yaml", opts.Dir, opts.Profile)); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", opts.Profile, err)
		}
	}

	if err := k.Load(env.Provider("APP_", ".", envKey(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Load(env.Provider("ADMIN_", ".", adminEnvKey), nil); err != nil {
		return nil, fmt.Errorf("loading admin env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_SYNC_GIST_ID to sync.gist_id by matching against the known
// keys, so key names may contain underscores. Unknown variables are ignored.
func envKey(keys []string) func(string) string {
	known := make(map[string]string, len(keys))
	for _, k := range keys {
		known[strings.ReplaceAll(k, ".", "_")] = k
	}

	return func(s string) string {
		return known[strings.ToLower(strings.TrimPrefix(s, "APP_"))]
	}
}

func adminEnvKey(s string) string {
	switch s {
	case "ADMIN_USERNAME":
		return "auth.username"
	case "ADMIN_PASSWORD":
		return "auth.password"
	default:
		return ""
	}
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
