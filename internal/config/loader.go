package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ecometrics/ingest/internal/db"
	"github.com/ecometrics/ingest/internal/schema/validator"
)

// Config aggregates everything the server needs at startup.
type Config struct {
	ListenAddr string
	DB         db.Config
	Validation validator.Config
}

// Load reads config.yaml from configPath with environment overrides.
func Load(configPath string) (Config, error) {
	cfg := Config{
		ListenAddr: ":8080",
		DB:         db.DefaultConfig(),
		Validation: validator.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()         // allow environment overrides
	v.SetEnvPrefix("INGEST") // map env vars like INGEST_DATABASE_HOST

	v.BindEnv("server.addr")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.ListenAddr = v.GetString("server.addr")
	}
	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}

	if v.IsSet("validation.min_date") {
		minDate, err := time.Parse("2006-01-02", v.GetString("validation.min_date"))
		if err != nil {
			return cfg, fmt.Errorf("invalid validation.min_date: %w", err)
		}
		cfg.Validation.MinDate = minDate
	}
	if v.IsSet("validation.max_date") {
		maxDate, err := time.Parse("2006-01-02", v.GetString("validation.max_date"))
		if err != nil {
			return cfg, fmt.Errorf("invalid validation.max_date: %w", err)
		}
		cfg.Validation.MaxDate = maxDate
	}

	return cfg, nil
}
