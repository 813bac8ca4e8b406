// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Baserow   BaserowConfig
	Schema    SchemaConfig
	Engines   EnginesConfig
	Scheduler SchedulerConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	// PORT is accepted as a fallback for platform deployments.
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// BaserowConfig holds the connection to the shared Baserow base.
// The alternate env names match the original deployment's .env files.
type BaserowConfig struct {
	// Token is the Baserow database token (required)
	Token string `env:"BASEROW_TOKEN" envAlt:"baserow_token" required:"true"`

	// BaseURL is the API endpoint; empty selects the hosted service
	BaseURL string `env:"BASEROW_BASE_URL"`

	// ActivistsTableID is the activists table (required)
	ActivistsTableID int64 `env:"BASEROW_ACTIVISTS_TABLE_ID" envAlt:"activists_table_id" required:"true"`

	// RegistrationsTableID is the event registrations table (required)
	RegistrationsTableID int64 `env:"BASEROW_REGISTRATIONS_TABLE_ID" envAlt:"event_registration_table_id" required:"true"`

	// RecruitmentTableID is the recruitment candidates table (required)
	RecruitmentTableID int64 `env:"BASEROW_RECRUITMENT_TABLE_ID" envAlt:"recruitment_table_id" required:"true"`
}

// SchemaConfig holds the column-mapping override.
type SchemaConfig struct {
	// Path points at a YAML file overriding the embedded column mapping.
	// Empty uses the embedded default unchanged.
	Path string `env:"SCHEMA_FILE"`
}

// EnginesConfig holds the optional person and profile lookup sources.
// An empty value disables that engine; the fills that depend on it
// degrade as documented on the sync operations.
type EnginesConfig struct {
	// RishumonURL is the population-registry API base URL
	RishumonURL string `env:"RISHUMON_URL"`

	// RishumonAPIKey authenticates against the registry API
	RishumonAPIKey string `env:"RISHUMON_API_KEY"`

	// ElectorDSN is the Postgres connection string of the voter-registry import
	ElectorDSN string `env:"ELECTOR_DSN"`

	// PhoneDBPath is the SQLite file of the leaked phone-to-profile database
	PhoneDBPath string `env:"PHONEDB_PATH"`
}

// SchedulerConfig holds the periodic job runner settings.
type SchedulerConfig struct {
	// Enabled controls whether the in-process scheduler runs (default: true)
	Enabled bool `env:"SCHEDULER_ENABLED" default:"true"`

	// Interval is the pause between job cycles (default: 6h)
	Interval time.Duration `env:"SCHEDULER_INTERVAL" default:"6h"`

	// Jobs is the comma-separated job list, run in order each cycle
	Jobs []string `env:"SCHEDULER_JOBS" default:"validate-ids,fill-emails,fill-facebook,fill-names,fill-birthdays,link-recruits,ensure-uuids"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// JobTriggerLimit is requests per minute for the job-trigger endpoint (default: 10)
	JobTriggerLimit int `env:"RATE_LIMIT_JOB_TRIGGER" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey gates the mutating endpoints behind X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is the comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
