package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/hospitalsys/records/pkg/logger"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"HOSPITAL_DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"HOSPITAL_DB_PORT"`
	User     string `mapstructure:"user" envconfig:"HOSPITAL_DB_USER"`
	Password string `mapstructure:"password" envconfig:"HOSPITAL_DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"HOSPITAL_DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"HOSPITAL_DB_SSLMODE"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" envconfig:"HOSPITAL_LOG_LEVEL"`
}

// LoadConfig reads config.yaml if present, then applies environment
// overrides. A missing file is fine as long as the environment supplies the
// database settings; missing connection settings are a startup error.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config.Database); err != nil {
		return nil, fmt.Errorf("failed to process database environment: %w", err)
	}
	if err := envconfig.Process("", &config.Logging); err != nil {
		return nil, fmt.Errorf("failed to process logging environment: %w", err)
	}

	if config.Database.Host == "" || config.Database.User == "" || config.Database.Name == "" {
		return nil, fmt.Errorf("database host, user and name must be configured")
	}

	return &config, nil
}

// LogLevel maps the configured level name to a logger level, defaulting to
// info for unknown names.
func (c *Config) LogLevel() logger.Level {
	switch c.Logging.Level {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
