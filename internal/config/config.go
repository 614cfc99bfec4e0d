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

const (
	envProduction = "production"

	devJWTSecret = "dev-secret-only-for-development-change-in-production"
)

// ErrMissingProductionSecret is returned when production runs without a signing secret.
var ErrMissingProductionSecret = errors.New("JWT_SECRET_PROD environment variable is required in production")

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	CORS      CORSConfig
	PayKeeper PayKeeperConfig
	Events    EventsConfig
	GiftCodes GiftCodeConfig
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
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLHours  int
	BcryptCost            int
	CookieDomain          string
	CookieSecure          bool
	CookieSameSite        string
}

// CORSConfig lists the admin origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowedOrigins []string
}

// PayKeeperConfig holds gateway credentials.
type PayKeeperConfig struct {
	BaseURL        string
	User           string
	Password       string
	Secret         string
	TimeoutSeconds int
}

// EventsConfig selects how order events travel between instances.
type EventsConfig struct {
	Broker           string
	Topic            string
	HeartbeatSeconds int
	BufferSize       int
	// StreamMaxLen caps the Redis stream; older entries are trimmed.
	StreamMaxLen int
}

// GiftCodeConfig controls generated gift codes.
type GiftCodeConfig struct {
	Length       int
	ValidityDays int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := getEnv("APP_ENV", "development")
	production := env == envProduction

	secret, err := jwtSecret(production)
	if err != nil {
		return nil, err
	}

	sameSite := "Lax"
	if production {
		sameSite = "None"
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "store-admin"),
			Env:                   env,
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
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             secret,
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			RefreshTokenTTLHours:  getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_HOURS", 720),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			CookieDomain:          os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookieSecure:          getEnvAsBool("AUTH_COOKIE_SECURE", production),
			CookieSameSite:        getEnv("AUTH_COOKIE_SAMESITE", sameSite),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
		},
		PayKeeper: PayKeeperConfig{
			BaseURL:        strings.TrimRight(getEnv("PAYKEEPER_BASE_URL", ""), "/"),
			User:           os.Getenv("PAYKEEPER_USER"),
			Password:       os.Getenv("PAYKEEPER_PASSWORD"),
			Secret:         os.Getenv("PAYKEEPER_SECRET"),
			TimeoutSeconds: getEnvAsInt("PAYKEEPER_TIMEOUT_SECONDS", 10),
		},
		Events: EventsConfig{
			Broker:           strings.ToLower(getEnv("EVENTS_BROKER", "memory")),
			Topic:            getEnv("EVENTS_TOPIC", "store-admin.orders"),
			HeartbeatSeconds: getEnvAsInt("EVENTS_STREAM_HEARTBEAT_SECONDS", 15),
			BufferSize:       getEnvAsInt("EVENTS_SUBSCRIBER_BUFFER", 16),
			StreamMaxLen:     getEnvAsInt("EVENTS_STREAM_MAXLEN", 10000),
		},
		GiftCodes: GiftCodeConfig{
			Length:       getEnvAsInt("GIFT_CODE_LENGTH", 8),
			ValidityDays: getEnvAsInt("GIFT_CODE_VALIDITY_DAYS", 365),
		},
	}

	return cfg, nil
}

func jwtSecret(production bool) (string, error) {
	if production {
		secret := os.Getenv("JWT_SECRET_PROD")
		if secret == "" {
			return "", ErrMissingProductionSecret
		}
		return secret, nil
	}
	return getEnv("JWT_SECRET", devJWTSecret), nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs with production settings.
func (a AppConfig) IsProduction() bool {
	return a.Env == envProduction
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTTL returns the access token lifetime.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLHours) * time.Hour
}

// Timeout returns the gateway HTTP timeout.
func (p PayKeeperConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Heartbeat returns the interval between stream keepalive comments.
func (e EventsConfig) Heartbeat() time.Duration {
	if e.HeartbeatSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(e.HeartbeatSeconds) * time.Second
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

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
