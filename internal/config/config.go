// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                      string  `mapstructure:"APP_ENV"`
	Port                     string  `mapstructure:"PORT"`
	DBHost                   string  `mapstructure:"DB_HOST"`
	DBPort                   string  `mapstructure:"DB_PORT"`
	DBUser                   string  `mapstructure:"DB_USER"`
	DBPassword               string  `mapstructure:"DB_PASSWORD"`
	DBName                   string  `mapstructure:"DB_NAME"`
	DBSSLMode                string  `mapstructure:"DB_SSLMODE"`
	DBSchemaMode             string  `mapstructure:"DB_SCHEMA_MODE"`
	DBMaxOpenConns           int     `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int     `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int     `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	RedisURL                 string  `mapstructure:"REDIS_URL"`
	JWTSecret                string  `mapstructure:"JWT_SECRET"`
	JWTTTLHours              int     `mapstructure:"JWT_TTL_HOURS"`
	PasswordHashCost         int     `mapstructure:"PW_HASH_COST"`
	CommentPageSize          int     `mapstructure:"COMMENT_PAGE_SIZE"`
	AllowedOrigins           string  `mapstructure:"ALLOWED_ORIGINS"`
	LoginRateLimit           int     `mapstructure:"LOGIN_RATE_LIMIT"`
	TracingEnabled           bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter          string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint             string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio       float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "togather")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("PW_HASH_COST", bcrypt.DefaultCost)
	viper.SetDefault("COMMENT_PAGE_SIZE", 10)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	viper.SetDefault("LOGIN_RATE_LIMIT", 10)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// TokenTTL returns the lifetime of issued session tokens.
func (c *Config) TokenTTL() time.Duration {
	if c.JWTTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// ConnMaxLifetime returns the maximum lifetime of a pooled connection.
func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeMinutes) * time.Minute
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.PasswordHashCost != 0 && (c.PasswordHashCost < bcrypt.MinCost || c.PasswordHashCost > bcrypt.MaxCost) {
		return fmt.Errorf("PW_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.CommentPageSize < 0 {
		return errors.New("COMMENT_PAGE_SIZE must not be negative")
	}
	if c.DBConnMaxLifetimeMinutes < 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must not be negative")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable TLS in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
