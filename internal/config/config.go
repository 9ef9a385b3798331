package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageDriverJSON     = "json"
	StorageDriverPostgres = "postgres"
)

// Storage lock implementations.
const (
	StorageLockLocal = "local"
	StorageLockRedis = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Storage      StorageConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Classifier   ClassifierConfig
	Notification NotificationConfig
	Worker       WorkerConfig
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

// StorageConfig selects where tickets live.
type StorageConfig struct {
	Driver         string
	TicketsFile    string
	Lock           string
	LockTTLSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockKey  string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines optional automation authentication.
type AuthConfig struct {
	Enabled               bool
	JWTSecret             string
	AccessTokenTTLMinutes int
	APIKeyHash            string
}

// ClassifierConfig points at the zero-shot classification endpoint.
type ClassifierConfig struct {
	APIToken             string
	BaseURL              string
	Model                string
	TimeoutSeconds       int
	HealthTimeoutSeconds int
}

// NotificationConfig holds the automation webhook endpoint.
type NotificationConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// WorkerConfig sizes the background pool.
type WorkerConfig struct {
	PoolSize             int
	QueueSize            int
	ShutdownGraceSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "hr-triage-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", StorageDriverJSON),
			TicketsFile:    getEnv("TICKETS_FILE", "data/tickets.json"),
			Lock:           getEnv("STORAGE_LOCK", StorageLockLocal),
			LockTTLSeconds: getEnvAsInt("STORAGE_LOCK_TTL_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			LockKey:  getEnv("REDIS_LOCK_KEY", "hr-triage:tickets:lock"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Enabled:               getEnvAsBool("AUTH_ENABLED", false),
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60*24),
			APIKeyHash:            os.Getenv("AUTH_API_KEY_HASH"),
		},
		Classifier: ClassifierConfig{
			APIToken:             os.Getenv("HUGGINGFACE_API_TOKEN"),
			BaseURL:              getEnv("CLASSIFIER_BASE_URL", "https://router.huggingface.co/hf-inference/models"),
			Model:                getEnv("CLASSIFIER_MODEL", "MoritzLaurer/DeBERTa-v3-base-mnli-fever-anli"),
			TimeoutSeconds:       getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 30),
			HealthTimeoutSeconds: getEnvAsInt("CLASSIFIER_HEALTH_TIMEOUT_SECONDS", 5),
		},
		Notification: NotificationConfig{
			WebhookURL:     os.Getenv("N8N_WEBHOOK_URL"),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10),
		},
		Worker: WorkerConfig{
			PoolSize:             getEnvAsInt("WORKER_POOL_SIZE", 4),
			QueueSize:            getEnvAsInt("WORKER_QUEUE_SIZE", 128),
			ShutdownGraceSeconds: getEnvAsInt("WORKER_SHUTDOWN_GRACE_SECONDS", 15),
		},
	}

	switch cfg.Storage.Driver {
	case StorageDriverJSON, StorageDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	switch cfg.Storage.Lock {
	case StorageLockLocal, StorageLockRedis:
	default:
		return nil, fmt.Errorf("invalid STORAGE_LOCK %q", cfg.Storage.Lock)
	}
	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" && cfg.Auth.APIKeyHash == "" {
		return nil, fmt.Errorf("AUTH_ENABLED requires AUTH_JWT_SECRET or AUTH_API_KEY_HASH")
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

// LockTTL bounds how long a distributed storage lock may be held.
func (s StorageConfig) LockTTL() time.Duration {
	return seconds(s.LockTTLSeconds, 10)
}

// Endpoint is the full model inference URL.
func (c ClassifierConfig) Endpoint() string {
	return c.BaseURL + "/" + c.Model
}

// Timeout for classification requests.
func (c ClassifierConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds, 30)
}

// HealthTimeout for the lightweight probe.
func (c ClassifierConfig) HealthTimeout() time.Duration {
	return seconds(c.HealthTimeoutSeconds, 5)
}

// Timeout for webhook delivery.
func (n NotificationConfig) Timeout() time.Duration {
	return seconds(n.TimeoutSeconds, 10)
}

// ShutdownGrace bounds how long shutdown waits for queued jobs.
func (w WorkerConfig) ShutdownGrace() time.Duration {
	return seconds(w.ShutdownGraceSeconds, 15)
}

func seconds(val, fallback int) time.Duration {
	if val <= 0 {
		val = fallback
	}
	return time.Duration(val) * time.Second
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
