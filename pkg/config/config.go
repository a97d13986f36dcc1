package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugh/workops/pkg/util"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Encryption EncryptionConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Activity   ActivityConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
	Issuer      string
}

type EncryptionConfig struct {
	Key string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
	AuthRequests  int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ActivityConfig controls the activity log retention job.
type ActivityConfig struct {
	RetentionDays int
	PurgeCron     string
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

// Retention is zero when purging is disabled.
func (a *ActivityConfig) Retention() time.Duration {
	if a.RetentionDays <= 0 {
		return 0
	}
	return time.Duration(a.RetentionDays) * 24 * time.Hour
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "workops")
	v.SetDefault("DATABASE_PASSWORD", "workops_secret")
	v.SetDefault("DATABASE_NAME", "workops")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("JWT_ISSUER", "workops")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("AUTH_RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("ACTIVITY_RETENTION_DAYS", 90)
	v.SetDefault("ACTIVITY_PURGE_CRON", "0 3 * * *")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DATABASE_HOST"),
			Port:        v.GetInt("DATABASE_PORT"),
			User:        v.GetString("DATABASE_USER"),
			Password:    v.GetString("DATABASE_PASSWORD"),
			Name:        v.GetString("DATABASE_NAME"),
			SSLMode:     v.GetString("DATABASE_SSLMODE"),
			AutoMigrate: v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
			Issuer:      v.GetString("JWT_ISSUER"),
		},
		Encryption: EncryptionConfig{
			Key: v.GetString("ENCRYPTION_KEY"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			AuthRequests:  v.GetInt("AUTH_RATE_LIMIT_REQUESTS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Activity: ActivityConfig{
			RetentionDays: v.GetInt("ACTIVITY_RETENTION_DAYS"),
			PurgeCron:     v.GetString("ACTIVITY_PURGE_CRON"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would fail later at runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.ExpiryHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_HOURS must be positive"))
	}
	if !c.Server.IsDevelopment() && c.JWT.Secret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set outside development"))
	}
	if !c.Server.IsDevelopment() && c.Encryption.Key == "" {
		errs = append(errs, errors.New("ENCRYPTION_KEY must be set outside development"))
	}
	if c.Activity.PurgeCron != "" {
		if err := util.ValidateCronExpr(c.Activity.PurgeCron); err != nil {
			errs = append(errs, fmt.Errorf("ACTIVITY_PURGE_CRON: %w", err))
		}
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
