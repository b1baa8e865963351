package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/invobill/invobill/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Auth       AuthConfig       `validate:"required"`
	DynamoDB   DynamoDBConfig   `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type AuthConfig struct {
	// Secret signs and verifies the HS256 bearer tokens issued by the
	// identity service this backend trusts.
	Secret      string        `validate:"required"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

type DynamoDBConfig struct {
	Region         string `validate:"required"`
	Endpoint       string // optional override for local development
	InvoicesTable  string `mapstructure:"invoices_table" validate:"required"`
	UsersTable     string `mapstructure:"users_table" validate:"required"`
	SequencesTable string `mapstructure:"sequences_table" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/invobill")

	v.SetEnvPrefix("INVOBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("error reading config file: %w", err)
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
// and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Auth: AuthConfig{
			Secret:      "local-dev-secret-do-not-use-in-prod",
			TokenExpiry: 24 * time.Hour,
		},
		DynamoDB: DynamoDBConfig{
			Region:         "us-east-1",
			InvoicesTable:  "invobill-invoices",
			UsersTable:     "invobill-users",
			SequencesTable: "invobill-sequences",
		},
		Logging: LoggingConfig{Level: types.LogLevelDebug},
	}
}
