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

// Snapshot backends understood by SNAPSHOT_BACKEND.
const (
	SnapshotBackendMemory   = "memory"
	SnapshotBackendFile     = "file"
	SnapshotBackendRedis    = "redis"
	SnapshotBackendPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Gate      GateConfig
	CORS      CORSConfig
	Log       LogConfig
	Snapshot  SnapshotConfig
	Calendar  CalendarConfig
	Dashboard DashboardConfig
	Backup    BackupConfig
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

// GateConfig configures the cosmetic password gate in front of the planner.
type GateConfig struct {
	Password   string
	JWTSecret  string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SnapshotConfig selects where the planner state is snapshotted after each mutation batch.
type SnapshotConfig struct {
	Backend string
	Key     string
	Dir     string
}

// CalendarConfig holds calendar projection defaults.
type CalendarConfig struct {
	WeekStart   string
	DefaultView string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// BackupConfig enables rolling backups of every committed batch. An empty Dir disables them.
type BackupConfig struct {
	Dir        string
	Retain     int
	MaxRetries int
	RetryDelay time.Duration
	LinkTTL    time.Duration
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
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

	cfg.Gate = GateConfig{
		Password:   v.GetString("PLANNER_PASSWORD"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Snapshot = SnapshotConfig{
		Backend: strings.ToLower(v.GetString("SNAPSHOT_BACKEND")),
		Key:     v.GetString("SNAPSHOT_KEY"),
		Dir:     v.GetString("SNAPSHOT_DIR"),
	}

	cfg.Calendar = CalendarConfig{
		WeekStart:   strings.ToLower(v.GetString("WEEK_START")),
		DefaultView: strings.ToLower(v.GetString("DEFAULT_VIEW")),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Backup = BackupConfig{
		Dir:        strings.TrimSpace(v.GetString("BACKUP_DIR")),
		Retain:     v.GetInt("BACKUP_RETAIN"),
		MaxRetries: v.GetInt("BACKUP_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("BACKUP_RETRY_DELAY"), 2*time.Second),
		LinkTTL:    parseDuration(v.GetString("BACKUP_LINK_TTL"), 15*time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "lesson_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("PLANNER_PASSWORD", "teacher123")
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SNAPSHOT_BACKEND", SnapshotBackendMemory)
	v.SetDefault("SNAPSHOT_KEY", "lesson-planner:state")
	v.SetDefault("SNAPSHOT_DIR", "./data")

	v.SetDefault("WEEK_START", "sunday")
	v.SetDefault("DEFAULT_VIEW", "week")

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("BACKUP_DIR", "")
	v.SetDefault("BACKUP_RETAIN", 20)
	v.SetDefault("BACKUP_MAX_RETRIES", 3)
	v.SetDefault("BACKUP_RETRY_DELAY", "2s")
	v.SetDefault("BACKUP_LINK_TTL", "15m")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
