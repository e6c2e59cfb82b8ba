package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Session  SessionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines provider token and password parameters.
type AuthConfig struct {
	JWTSecret              string
	AccessTokenTTLMinutes  int
	RefreshTokenTTLMinutes int
	BcryptCost             int
}

// SessionConfig controls per-client session stores and their cookies.
type SessionConfig struct {
	CookieName          string
	CookieDomain        string
	ClientIdleMinutes   int
	InitTimeoutSeconds  int
	RoleLookupTimeoutMS int
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
			Name:                  getEnv("APP_NAME", "placement-hub-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "portal"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			RefreshTokenTTLMinutes: getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_MINUTES", 60*24*7),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Session: SessionConfig{
			CookieName:          getEnv("SESSION_COOKIE_NAME", "portal_client"),
			CookieDomain:        os.Getenv("SESSION_COOKIE_DOMAIN"),
			ClientIdleMinutes:   getEnvAsInt("SESSION_CLIENT_IDLE_MINUTES", 30),
			InitTimeoutSeconds:  getEnvAsInt("SESSION_INIT_TIMEOUT_SECONDS", 5),
			RoleLookupTimeoutMS: getEnvAsInt("SESSION_ROLE_LOOKUP_TIMEOUT_MS", 2000),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SecureCookies reports whether cookies must carry the Secure attribute.
func (a AppConfig) SecureCookies() bool {
	return a.Env == "prod" || a.Env == "production" || a.Env == "staging"
}

// ClientIdle returns how long an unused client context is kept.
func (s SessionConfig) ClientIdle() time.Duration {
	if s.ClientIdleMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.ClientIdleMinutes) * time.Minute
}

// InitTimeout bounds the initial session fetch of a new client.
func (s SessionConfig) InitTimeout() time.Duration {
	if s.InitTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.InitTimeoutSeconds) * time.Second
}

// RoleLookupTimeout bounds a single role lookup issued by the route guard.
func (s SessionConfig) RoleLookupTimeout() time.Duration {
	if s.RoleLookupTimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(s.RoleLookupTimeoutMS) * time.Millisecond
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
