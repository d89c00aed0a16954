package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/adminconsole/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Sentry     SentryConfig
	Session    SessionConfig    `validate:"required"`
	Catalog    CatalogConfig    `validate:"required"`
	Assignment AssignmentConfig `validate:"required"`
	Wizard     WizardConfig     `validate:"required"`
	Events     EventsConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// SessionConfig controls how long an idle wizard session is kept
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl" validate:"required"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"required"`
}

// CatalogConfig points at the plan catalog API
type CatalogConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"required"`
	RetryMax   int           `mapstructure:"retry_max" validate:"min=0,max=10"`
	PublicOnly bool          `mapstructure:"public_only"`
}

// AssignmentConfig points at the plan-assignment API
type AssignmentConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

type WizardConfig struct {
	DefaultTaxRate     float64 `mapstructure:"default_tax_rate" validate:"min=0,max=1"`
	DefaultCurrency    string  `mapstructure:"default_currency" validate:"required,len=3"`
	AssignMaxGraceDays int     `mapstructure:"assign_max_grace_days" validate:"required,min=1"`
	ExtendMaxGraceDays int     `mapstructure:"extend_max_grace_days" validate:"required,min=1"`
	ReceiptMaxBytes    int64   `mapstructure:"receipt_max_bytes" validate:"required,min=1"`
}

type EventsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Topic   string `mapstructure:"topic"`
}

func NewConfig() (*Configuration, error) {
	// A local .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/adminconsole")

	v.SetEnvPrefix("ADMINCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()
	v.SetDefault("deployment.mode", defaults.Deployment.Mode)
	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("sentry.sample_rate", defaults.Sentry.SampleRate)
	v.SetDefault("session.ttl", defaults.Session.TTL)
	v.SetDefault("session.cleanup_interval", defaults.Session.CleanupInterval)
	v.SetDefault("catalog.base_url", defaults.Catalog.BaseURL)
	v.SetDefault("catalog.timeout", defaults.Catalog.Timeout)
	v.SetDefault("catalog.retry_max", defaults.Catalog.RetryMax)
	v.SetDefault("assignment.base_url", defaults.Assignment.BaseURL)
	v.SetDefault("assignment.timeout", defaults.Assignment.Timeout)
	v.SetDefault("wizard.default_tax_rate", defaults.Wizard.DefaultTaxRate)
	v.SetDefault("wizard.default_currency", defaults.Wizard.DefaultCurrency)
	v.SetDefault("wizard.assign_max_grace_days", defaults.Wizard.AssignMaxGraceDays)
	v.SetDefault("wizard.extend_max_grace_days", defaults.Wizard.ExtendMaxGraceDays)
	v.SetDefault("wizard.receipt_max_bytes", defaults.Wizard.ReceiptMaxBytes)
	v.SetDefault("events.enabled", defaults.Events.Enabled)
	v.SetDefault("events.topic", defaults.Events.Topic)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Sentry:     SentryConfig{SampleRate: 1.0},
		Session: SessionConfig{
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:  "http://localhost:8081/v1",
			Timeout:  10 * time.Second,
			RetryMax: 3,
		},
		Assignment: AssignmentConfig{
			BaseURL: "http://localhost:8081/v1",
			Timeout: 30 * time.Second,
		},
		Wizard: WizardConfig{
			DefaultTaxRate:     0.20,
			DefaultCurrency:    "MAD",
			AssignMaxGraceDays: 90,
			ExtendMaxGraceDays: 365,
			ReceiptMaxBytes:    2 << 20,
		},
		Events: EventsConfig{
			Enabled: true,
			Topic:   "tenant_plan_events",
		},
	}
}
