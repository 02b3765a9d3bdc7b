package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  20 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			Mode:         "static",
			Username:     "admin",
			Password:     "password",
			CookieName:   "askadit_auth",
			CookieSecret: "a-test-secret-of-enough-length",
			CookieTTL:    DefaultCookieTTL,
			LoginRate:    RateConfig{Requests: 5, Window: time.Minute, Burst: 5},
			Hosted:       HostedAuthConfig{CookieName: "sb-access-token"},
		},
		Store: StoreConfig{Driver: "embedded"},
		Blob:  BlobConfig{Driver: "file", Path: "./data"},
		Client: ClientConfig{
			Timeout: 15 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
			Transport: TransportConfig{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Sync: SyncConfig{
			BaseURL:     "https://api.github.com",
			FileName:    "askadit-db.json",
			Description: "AskAdit Database",
		},
		Content: ContentConfig{UpdateMode: "replace"},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "missing app name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: "app.name is required"},
		{name: "unknown environment", mutate: func(c *Config) { c.App.Environment = "staging" }, wantErr: "app.environment must be one of"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port must be at most 65535"},
		{name: "request timeout too short", mutate: func(c *Config) { c.Server.RequestTimeout = time.Millisecond }, wantErr: "server.requesttimeout"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log.level"},
		{name: "trace log level", mutate: func(c *Config) { c.Log.Level = "trace" }},
		{name: "file logging needs path", mutate: func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} }, wantErr: "log.file.path"},
		{name: "telemetry needs endpoint", mutate: func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "svc", SamplingRate: 1}
		}, wantErr: "telemetry.endpoint"},
		{name: "sampling rate above one", mutate: func(c *Config) { c.Telemetry.SamplingRate = 2 }, wantErr: "telemetry.samplingrate"},
		{name: "unknown auth mode", mutate: func(c *Config) { c.Auth.Mode = "oauth" }, wantErr: "auth.mode"},
		{name: "short cookie secret", mutate: func(c *Config) { c.Auth.CookieSecret = "short" }, wantErr: "auth.cookiesecret must be at least 16"},
		{name: "static needs a password", mutate: func(c *Config) { c.Auth.Password = "" }, wantErr: "auth.password is required without"},
		{name: "hash replaces password", mutate: func(c *Config) {
			c.Auth.Password = ""
			c.Auth.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
		}},
		{name: "hash must be bcrypt", mutate: func(c *Config) { c.Auth.PasswordHash = "plain" }, wantErr: "auth.passwordhash must start with $2"},
		{name: "hosted needs jwt secret", mutate: func(c *Config) { c.Auth.Mode = "hosted" }, wantErr: "auth.hosted.jwtsecret"},
		{name: "hosted with secret", mutate: func(c *Config) {
			c.Auth.Mode = "hosted"
			c.Auth.Hosted.JWTSecret = "0123456789abcdef0123"
		}},
		{name: "unknown store driver", mutate: func(c *Config) { c.Store.Driver = "mysql" }, wantErr: "store.driver"},
		{name: "postgres needs dsn", mutate: func(c *Config) { c.Store.Driver = "postgres" }, wantErr: "store.postgres.dsn"},
		{name: "memory blobs need no path", mutate: func(c *Config) { c.Blob = BlobConfig{Driver: "memory"} }},
		{name: "file blobs need path", mutate: func(c *Config) { c.Blob.Path = "" }, wantErr: "blob.path is required unless"},
		{name: "client timeout minimum", mutate: func(c *Config) { c.Client.Timeout = 50 * time.Millisecond }, wantErr: "client.timeout"},
		{name: "circuit breaker failures", mutate: func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, wantErr: "client.circuitbreaker.maxfailures"},
		{name: "sync base url", mutate: func(c *Config) { c.Sync.BaseURL = "not a url" }, wantErr: "sync.baseurl must be a valid URL"},
		{name: "update mode", mutate: func(c *Config) { c.Content.UpdateMode = "patch" }, wantErr: "content.updatemode"},
		{name: "dev secret rejected in prod", mutate: func(c *Config) {
			c.App.Environment = "prod"
			c.Auth.CookieSecret = DevCookieSecret
		}, wantErr: "auth.cookie_secret must be set in prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "invalid"},
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "app.name")
	assert.Contains(t, errStr, "app.version")
	assert.Contains(t, errStr, "server")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.Server.Port", "server.port"},
		{"Config.Auth.Hosted.JWTSecret", "auth.hosted.jwtsecret"},
		{"Config.Log.File.Path", "log.file.path"},
		{"Port", "port"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}
