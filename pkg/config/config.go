package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers understood by StoreConfig.Driver.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	AI       AIConfig
	Practice PracticeConfig
	Rewards  RewardsConfig
	Catalog  CatalogConfig
}

// StoreConfig selects the key-value backend holding the student's state.
type StoreConfig struct {
	Driver    string
	Namespace string
	FileDir   string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AIConfig configures the generative text backend used for practice material.
type AIConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// PracticeConfig tunes suggestion caching and background prefetching.
type PracticeConfig struct {
	CacheEnabled    bool
	CacheTTL        time.Duration
	PrefetchEnabled bool
	PrefetchWorkers int
	PrefetchRetries int
	MaxUploadBytes  int64
}

// RewardsConfig controls the perfect-score reward cycle.
type RewardsConfig struct {
	BarsPerCycle int
}

// CatalogConfig optionally overrides the embedded subject catalog.
type CatalogConfig struct {
	File string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		Namespace: v.GetString("STORE_NAMESPACE"),
		FileDir:   v.GetString("STORE_FILE_DIR"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 30*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.AI = AIConfig{
		Provider: strings.ToLower(v.GetString("AI_PROVIDER")),
		APIKey:   v.GetString("AI_API_KEY"),
		BaseURL:  v.GetString("AI_BASE_URL"),
		Model:    v.GetString("AI_MODEL"),
		Timeout:  parseDuration(v.GetString("AI_TIMEOUT"), 30*time.Second),
	}

	maxUpload := v.GetInt64("PRACTICE_MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Practice = PracticeConfig{
		CacheEnabled:    v.GetBool("PRACTICE_CACHE_ENABLED"),
		CacheTTL:        parseDuration(v.GetString("PRACTICE_CACHE_TTL"), 6*time.Hour),
		PrefetchEnabled: v.GetBool("PRACTICE_PREFETCH_ENABLED"),
		PrefetchWorkers: v.GetInt("PRACTICE_PREFETCH_WORKERS"),
		PrefetchRetries: v.GetInt("PRACTICE_PREFETCH_RETRIES"),
		MaxUploadBytes:  maxUpload,
	}

	bars := v.GetInt("REWARD_BARS_PER_CYCLE")
	if bars <= 0 {
		bars = 10
	}
	cfg.Rewards = RewardsConfig{BarsPerCycle: bars}

	cfg.Catalog = CatalogConfig{File: v.GetString("CATALOG_FILE")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("STORE_NAMESPACE", "hurricane")
	v.SetDefault("STORE_FILE_DIR", "./data")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hurricane")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "hurricane-api")
	v.SetDefault("JWT_EXPIRATION", "720h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AI_PROVIDER", "google")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_BASE_URL", "")
	v.SetDefault("AI_MODEL", "gemini-2.5-flash")
	v.SetDefault("AI_TIMEOUT", "30s")

	v.SetDefault("PRACTICE_CACHE_ENABLED", false)
	v.SetDefault("PRACTICE_CACHE_TTL", "6h")
	v.SetDefault("PRACTICE_PREFETCH_ENABLED", false)
	v.SetDefault("PRACTICE_PREFETCH_WORKERS", 1)
	v.SetDefault("PRACTICE_PREFETCH_RETRIES", 2)
	v.SetDefault("PRACTICE_MAX_UPLOAD_BYTES", 10*1024*1024)

	v.SetDefault("REWARD_BARS_PER_CYCLE", 10)
	v.SetDefault("CATALOG_FILE", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
