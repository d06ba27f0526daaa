package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity store backends.
const (
	IdentityStoreMemory   = "memory"
	IdentityStorePostgres = "postgres"
	IdentityStoreRedis    = "redis"
)

const minProductionSecretLength = 32

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Identity IdentityConfig
	CORS     CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	// MetricsReportSeconds is how often counters are logged; 0 disables.
	MetricsReportSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
	ApplicationName string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing and password hashing parameters.
type AuthConfig struct {
	JWTSecret             string
	Issuer                string
	Audience              string
	AccessTokenTTLMinutes int
	LeewaySeconds         int
	BcryptCost            int
}

// IdentityConfig selects the identity store and the identity seeded at startup.
type IdentityConfig struct {
	Store        string
	SeedUsername string
	SeedPassword string
	SeedSubject  string
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowOrigins string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "jwt-demo"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "localhost"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "3000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			MetricsReportSeconds:  getEnvAsInt("METRICS_REPORT_INTERVAL_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			Issuer:                getEnv("AUTH_JWT_ISSUER", "localhost:3000"),
			Audience:              getEnv("AUTH_JWT_AUDIENCE", "localhost:3001"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			LeewaySeconds:         getEnvAsInt("AUTH_LEEWAY_SECONDS", 0),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Identity: IdentityConfig{
			Store:        strings.ToLower(getEnv("IDENTITY_STORE", IdentityStoreMemory)),
			SeedUsername: getEnv("IDENTITY_SEED_USERNAME", "foobar"),
			SeedPassword: getEnv("IDENTITY_SEED_PASSWORD", "password"),
			SeedSubject:  getEnv("IDENTITY_SEED_SUBJECT", "1"),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
	}

	cfg.Postgres.ApplicationName = cfg.App.Name

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configuration the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	} else if c.App.IsProduction() && len(c.Auth.JWTSecret) < minProductionSecretLength {
		errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes in production", minProductionSecretLength))
	}
	if strings.TrimSpace(c.Auth.Issuer) == "" {
		errs = append(errs, errors.New("AUTH_JWT_ISSUER is required"))
	}
	if strings.TrimSpace(c.Auth.Audience) == "" {
		errs = append(errs, errors.New("AUTH_JWT_AUDIENCE is required"))
	}
	if c.Auth.AccessTokenTTLMinutes < 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_TTL_MINUTES must not be negative"))
	}
	if c.Auth.LeewaySeconds < 0 {
		errs = append(errs, errors.New("AUTH_LEEWAY_SECONDS must not be negative"))
	}
	if c.App.MetricsReportSeconds < 0 {
		errs = append(errs, errors.New("METRICS_REPORT_INTERVAL_SECONDS must not be negative"))
	}

	switch c.Identity.Store {
	case IdentityStoreMemory, IdentityStoreRedis:
	case IdentityStorePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when IDENTITY_STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_STORE %q", c.Identity.Store))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs with production settings.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// MetricsReportInterval returns how often metrics are logged; zero disables reporting.
func (a AppConfig) MetricsReportInterval() time.Duration {
	return time.Duration(a.MetricsReportSeconds) * time.Second
}

// AccessTokenTTL returns the token lifetime; zero means tokens carry no expiry.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// Leeway returns the tolerated clock skew for expiry checks.
func (a AuthConfig) Leeway() time.Duration {
	return time.Duration(a.LeewaySeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
