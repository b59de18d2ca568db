package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	SMS       SMSConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	RefreshTokenSalt string
}

type SMSConfig struct {
	APIKey string
}

type AdminConfig struct {
	DefaultPassword string
}

type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

const (
	minSecretBytes = 32
	minSaltBytes   = 16
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_ACCESS_TTL", "15m")
	viper.SetDefault("JWT_REFRESH_TTL", "720h")
	viper.SetDefault("RATE_LIMIT_WINDOW", "60s")
	viper.SetDefault("RATE_LIMIT_MAX", 5)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional when everything comes from the environment
		if _, statErr := os.Stat(".env"); statErr == nil {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			AccessSecret:     viper.GetString("JWT_ACCESS_SECRET"),
			RefreshSecret:    viper.GetString("JWT_REFRESH_SECRET"),
			AccessTTL:        viper.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL:       viper.GetDuration("JWT_REFRESH_TTL"),
			RefreshTokenSalt: viper.GetString("REFRESH_TOKEN_SALT"),
		},
		SMS: SMSConfig{
			APIKey: viper.GetString("SMSRU_API_KEY"),
		},
		Admin: AdminConfig{
			DefaultPassword: viper.GetString("ADMIN_DEFAULT_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Window: viper.GetDuration("RATE_LIMIT_WINDOW"),
			Max:    viper.GetInt("RATE_LIMIT_MAX"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if len(c.JWT.AccessSecret) < minSecretBytes {
		return fmt.Errorf("JWT_ACCESS_SECRET must be at least %d bytes", minSecretBytes)
	}
	if len(c.JWT.RefreshSecret) < minSecretBytes {
		return fmt.Errorf("JWT_REFRESH_SECRET must be at least %d bytes", minSecretBytes)
	}
	if len(c.JWT.RefreshTokenSalt) < minSaltBytes {
		return fmt.Errorf("REFRESH_TOKEN_SALT must be at least %d bytes", minSaltBytes)
	}
	if c.Admin.DefaultPassword == "" {
		return fmt.Errorf("ADMIN_DEFAULT_PASSWORD is required")
	}
	return nil
}
