package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the complete runtime configuration. Values are resolved in
// order: built-in defaults, then the TOML file named by CONFIG_FILE, then
// environment variables (a local .env file is loaded first when present).
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Storage  StorageConfig  `toml:"storage"`
	AMQP     AMQPConfig     `toml:"amqp"`
	Jobs     JobsConfig     `toml:"jobs"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Port            string        `toml:"port"`
	Environment     string        `toml:"environment"`
	AllowedOrigins  []string      `toml:"allowed_origins"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	// APISunset (YYYY-MM-DD) marks /v1 as deprecated until that date.
	APISunset        string `toml:"api_sunset"`
	APISunsetMessage string `toml:"api_sunset_message"`
}

type DatabaseConfig struct {
	URL            string `toml:"url"`
	MaxConns       int32  `toml:"max_conns"`
	MigrateOnStart bool   `toml:"migrate_on_start"`
}

// AuthConfig configures bearer token verification. When JWKSURL is set,
// keys are resolved from the JWKS endpoint and JWTSecret is ignored.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	JWKSURL   string `toml:"jwks_url"`
}

type RedisConfig struct {
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	DraftTTL time.Duration `toml:"draft_ttl"`
}

type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

type AMQPConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type JobsConfig struct {
	Enabled          bool          `toml:"enabled"`
	OverdueInterval  time.Duration `toml:"overdue_interval"`
	GSTWarmInterval  time.Duration `toml:"gst_warm_interval"`
	OrganizationPool int           `toml:"organization_pool"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// RedisEnabled reports whether a cache backend is configured.
func (c *Config) RedisEnabled() bool { return c.Redis.Addr != "" }

// StorageEnabled reports whether object storage is configured.
func (c *Config) StorageEnabled() bool { return c.Storage.Endpoint != "" }

// AMQPEnabled reports whether event publishing is configured.
func (c *Config) AMQPEnabled() bool { return c.AMQP.URL != "" }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Environment:     "development",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns:       10,
			MigrateOnStart: true,
		},
		Redis: RedisConfig{
			DraftTTL: 5 * time.Minute,
		},
		Storage: StorageConfig{
			Bucket: "invoices",
		},
		AMQP: AMQPConfig{
			Exchange: "bizledger.events",
		},
		Jobs: JobsConfig{
			OverdueInterval:  24 * time.Hour,
			GSTWarmInterval:  time.Hour,
			OrganizationPool: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load resolves configuration from defaults, file and environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile decodes a TOML file on top of cfg.
func LoadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Environment = getEnv("APP_ENV", c.Server.Environment)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	c.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.APISunset = getEnv("API_SUNSET", c.Server.APISunset)
	c.Server.APISunsetMessage = getEnv("API_SUNSET_MESSAGE", c.Server.APISunsetMessage)

	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.MaxConns = int32(getEnvInt("DATABASE_MAX_CONNS", int(c.Database.MaxConns)))
	c.Database.MigrateOnStart = getEnvBool("MIGRATE_ON_START", c.Database.MigrateOnStart)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.JWKSURL = getEnv("JWT_JWKS_URL", c.Auth.JWKSURL)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.DraftTTL = getEnvDuration("REDIS_DRAFT_TTL", c.Redis.DraftTTL)

	c.Storage.Endpoint = getEnv("MINIO_ENDPOINT", c.Storage.Endpoint)
	c.Storage.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnv("MINIO_SECRET_KEY", c.Storage.SecretKey)
	c.Storage.UseSSL = getEnvBool("MINIO_USE_SSL", c.Storage.UseSSL)
	c.Storage.Bucket = getEnv("MINIO_BUCKET", c.Storage.Bucket)

	c.AMQP.URL = getEnv("AMQP_URL", c.AMQP.URL)
	c.AMQP.Exchange = getEnv("AMQP_EXCHANGE", c.AMQP.Exchange)

	c.Jobs.Enabled = getEnvBool("JOBS_ENABLED", c.Jobs.Enabled)
	c.Jobs.OverdueInterval = getEnvDuration("JOBS_OVERDUE_INTERVAL", c.Jobs.OverdueInterval)
	c.Jobs.GSTWarmInterval = getEnvDuration("JOBS_GST_WARM_INTERVAL", c.Jobs.GSTWarmInterval)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// APISunsetDate returns the configured sunset of the current API version.
func (c *Config) APISunsetDate() (time.Time, bool) {
	if c.Server.APISunset == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", c.Server.APISunset)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Server.APISunset != "" {
		if _, err := time.Parse("2006-01-02", c.Server.APISunset); err != nil {
			errors = append(errors, fmt.Sprintf("invalid api_sunset '%s': must be YYYY-MM-DD", c.Server.APISunset))
		}
	}

	if c.Database.URL == "" {
		errors = append(errors, "DATABASE_URL is required")
	}
	if c.Database.MaxConns < 1 {
		errors = append(errors, "database max_conns must be at least 1")
	}

	if c.Auth.JWKSURL == "" && len(c.Auth.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET must be at least 32 characters when JWT_JWKS_URL is not set")
	}
	if c.Auth.JWKSURL != "" {
		if u, err := url.Parse(c.Auth.JWKSURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid JWKS URL '%s'", c.Auth.JWKSURL))
		}
	}

	if c.AMQP.URL != "" {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.StorageEnabled() {
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			errors = append(errors, "MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
		}
		if c.Storage.Bucket == "" {
			errors = append(errors, "storage bucket cannot be empty")
		}
	}

	if c.Jobs.Enabled {
		if c.Jobs.OverdueInterval < time.Minute {
			errors = append(errors, "overdue job interval must be at least 1m")
		}
		if c.Jobs.GSTWarmInterval < time.Minute {
			errors = append(errors, "GST warm-up job interval must be at least 1m")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
