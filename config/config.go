package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Seed    SeedConfig
}

type AppConfig struct {
	Port           string
	Env            string
	LogLevel       string
	TimeZone       string
	AllowedOrigins []string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
	Migrate      bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	PointerTTL   time.Duration
	SecureCookie bool
}

type SeedConfig struct {
	StaffUsername string
	StaffPassword string
	Doctors       int
}

// LoadConfig reads configuration from the environment. A .env file in the working directory is
// loaded first when present; real environment variables win over it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Port:           v.GetString("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			TimeZone:       v.GetString("APP_TIMEZONE"),
			AllowedOrigins: v.GetStringSlice("ADMIN_ALLOWED_ORIGINS"),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			Migrate:      v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("SESSION_SECRET"),
			TTL:          durationOr(v.GetString("SESSION_TTL"), 14*24*time.Hour),
			PointerTTL:   durationOr(v.GetString("SESSION_POINTER_TTL"), 30*time.Minute),
			SecureCookie: v.GetBool("SESSION_SECURE_COOKIE"),
		},
		Seed: SeedConfig{
			StaffUsername: v.GetString("SEED_STAFF_USERNAME"),
			StaffPassword: v.GetString("SEED_STAFF_PASSWORD"),
			Doctors:       v.GetInt("SEED_DOCTORS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("ADMIN_ALLOWED_ORIGINS", []string{})
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "clinic")
	v.SetDefault("DB_NAME", "clinic")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_SECURE_COOKIE", false)
	v.SetDefault("SEED_STAFF_USERNAME", "admin")
	v.SetDefault("SEED_DOCTORS", 12)
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.DB.Name == "" || c.DB.Host == "" {
		return errors.New("DB_HOST and DB_NAME are required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location is the clinic time zone used to decide what "today" is.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.TimeZone)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func durationOr(raw string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
