package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort    string
	PublicBaseURL string

	JWTSecret string

	// Lifetimes in seconds.
	AccessTokenMaxAge  int
	RefreshTokenMaxAge int

	RedisURL string

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ACCESS_TOKEN_MAX_AGE", 7200)
	v.SetDefault("REFRESH_TOKEN_MAX_AGE", 86400)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := &Config{
		AppEnv: v.GetString("APP_ENV"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		ServerPort:    v.GetString("SERVER_PORT"),
		PublicBaseURL: strings.TrimSuffix(v.GetString("PUBLIC_BASE_URL"), "/"),

		JWTSecret: v.GetString("JWT_SECRET"),

		AccessTokenMaxAge:  v.GetInt("ACCESS_TOKEN_MAX_AGE"),
		RefreshTokenMaxAge: v.GetInt("REFRESH_TOKEN_MAX_AGE"),

		RedisURL: v.GetString("REDIS_URL"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		R2AccountID:       v.GetString("R2_ACCOUNT_ID"),
		R2AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      v.GetString("R2_BUCKET_NAME"),
		R2PublicURL:       v.GetString("R2_PUBLIC_URL"),
	}

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		log.Warn().Msg("JWT_SECRET is not set, using an insecure development secret")
		cfg.JWTSecret = "insecure-development-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.AccessTokenMaxAge <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_MAX_AGE must be positive, got %d", c.AccessTokenMaxAge)
	}
	if c.RefreshTokenMaxAge <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_MAX_AGE must be positive, got %d", c.RefreshTokenMaxAge)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// HasObjectStorage reports whether thumbnail uploads can be served.
func (c *Config) HasObjectStorage() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
