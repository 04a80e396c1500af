package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server   ServerConfig   `validate:"required"`
	Postgres PostgresConfig `validate:"required"`
	Stripe   StripeConfig   `validate:"required"`
	Logging  LoggingConfig
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StripeConfig holds the payment provider credentials. The webhook secret is
// the signing secret for the configured webhook endpoint, not the API key.
type StripeConfig struct {
	SecretKey     string `validate:"required"`
	WebhookSecret string
}

type LoggingConfig struct {
	Level string
}

// GetDSN returns the postgres connection string
func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func NewConfig() (*Configuration, error) {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nextplate")

	v.SetEnvPrefix("NEXTPLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	// Defaults also register the keys so environment overrides apply
	v.SetDefault("server.address", ":8080")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "nextplate")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("stripe.secretkey", "")
	v.SetDefault("stripe.webhooksecret", "")
	v.SetDefault("logging.level", "info")

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
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

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests that do not touch external services
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server:  ServerConfig{Address: ":8080"},
		Logging: LoggingConfig{Level: "debug"},
		Stripe: StripeConfig{
			SecretKey:     "sk_test_dummy",
			WebhookSecret: "whsec_dummy",
		},
	}
}
