package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Clustering ClusteringConfig
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig tunes password hashing and registration defaults.
type AuthConfig struct {
	BcryptCost  int
	DefaultRole string
}

// RateLimitConfig bounds request rates on the auth endpoints.
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
}

// ClusteringConfig points at the external clustering service.
type ClusteringConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

// MissingKeysError names every required database key that was absent.
// Callers must not attempt a connection while this error is pending.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing environment variables: %s", strings.Join(e.Keys, ", "))
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	db, err := resolveDatabase(v)
	if err != nil {
		return nil, err
	}
	cfg.Database = db

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Auth = AuthConfig{
		BcryptCost:  v.GetInt("BCRYPT_COST"),
		DefaultRole: v.GetString("DEFAULT_REGISTRATION_ROLE"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:   v.GetBool("RATE_LIMIT_ENABLED"),
		PerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	cfg.Clustering = ClusteringConfig{
		ServiceURL: firstNonEmpty(
			v.GetString("CLUSTER_SERVICE_URL"),
			v.GetString("CLUSTER_API_URL"),
			v.GetString("VITE_CLUSTER_API_URL"),
		),
		Timeout: parseDuration(v.GetString("CLUSTER_TIMEOUT"), 30*time.Second),
	}

	return cfg, nil
}

// resolveDatabase collapses the naming conventions the deployment history
// left behind. Precedence: DATABASE_URL (and its NEON_/VITE_NEON_ aliases),
// then NEON_* discrete keys, then VITE_NEON_* discrete keys.
func resolveDatabase(v *viper.Viper) (DatabaseConfig, error) {
	cfg := DatabaseConfig{
		SSLMode:        "require",
		MaxOpenConns:   v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:   v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnectTimeout: parseDuration(v.GetString("DB_CONNECT_TIMEOUT"), 10*time.Second),
	}

	rawURL := firstNonEmpty(
		v.GetString("DATABASE_URL"),
		v.GetString("NEON_DATABASE_URL"),
		v.GetString("VITE_NEON_DATABASE_URL"),
	)
	if rawURL != "" {
		parsed, err := parseDatabaseURL(rawURL)
		if err != nil {
			return DatabaseConfig{}, err
		}
		parsed.MaxOpenConns = cfg.MaxOpenConns
		parsed.MaxIdleConns = cfg.MaxIdleConns
		parsed.ConnectTimeout = cfg.ConnectTimeout
		return parsed, nil
	}

	for _, prefix := range []string{"NEON_", "VITE_NEON_"} {
		if v.GetString(prefix+"HOST") == "" && v.GetString(prefix+"DATABASE") == "" &&
			v.GetString(prefix+"USER") == "" && v.GetString(prefix+"PASSWORD") == "" {
			continue
		}
		cfg.Host = v.GetString(prefix + "HOST")
		cfg.Name = v.GetString(prefix + "DATABASE")
		cfg.User = v.GetString(prefix + "USER")
		cfg.Password = v.GetString(prefix + "PASSWORD")
		cfg.Port = v.GetInt(prefix + "PORT")
		if mode := v.GetString(prefix + "SSL_MODE"); mode != "" {
			cfg.SSLMode = mode
		}
		if cfg.Port == 0 {
			cfg.Port = 5432
		}
		if missing := missingKeys(prefix, cfg); len(missing) > 0 {
			return DatabaseConfig{}, &MissingKeysError{Keys: missing}
		}
		return cfg, nil
	}

	return DatabaseConfig{}, &MissingKeysError{Keys: []string{
		"NEON_HOST", "NEON_DATABASE", "NEON_USER", "NEON_PASSWORD",
	}}
}

func missingKeys(prefix string, cfg DatabaseConfig) []string {
	var missing []string
	if cfg.Host == "" {
		missing = append(missing, prefix+"HOST")
	}
	if cfg.Name == "" {
		missing = append(missing, prefix+"DATABASE")
	}
	if cfg.User == "" {
		missing = append(missing, prefix+"USER")
	}
	if cfg.Password == "" {
		missing = append(missing, prefix+"PASSWORD")
	}
	return missing
}

func parseDatabaseURL(raw string) (DatabaseConfig, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return DatabaseConfig{}, fmt.Errorf("unsupported DATABASE_URL scheme %q", parsed.Scheme)
	}

	cfg := DatabaseConfig{
		Host:    parsed.Hostname(),
		Name:    strings.TrimPrefix(parsed.Path, "/"),
		SSLMode: "require",
	}
	if parsed.User != nil {
		cfg.User = parsed.User.Username()
		cfg.Password, _ = parsed.User.Password()
	}
	if port := parsed.Port(); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if mode := parsed.Query().Get("sslmode"); mode != "" {
		cfg.SSLMode = mode
	}

	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "DATABASE_URL host")
	}
	if cfg.Name == "" {
		missing = append(missing, "DATABASE_URL database")
	}
	if cfg.User == "" {
		missing = append(missing, "DATABASE_URL user")
	}
	if cfg.Password == "" {
		missing = append(missing, "DATABASE_URL password")
	}
	if len(missing) > 0 {
		return DatabaseConfig{}, &MissingKeysError{Keys: missing}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONNECT_TIMEOUT", "10s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")
	v.SetDefault("JWT_ISSUER", "records-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("DEFAULT_REGISTRATION_ROLE", "FACULTY")

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)

	v.SetDefault("CLUSTER_TIMEOUT", "30s")
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
