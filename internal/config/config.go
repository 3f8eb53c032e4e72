package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFormat   string          `mapstructure:"log_format"`
	Server      ServerConfig    `mapstructure:"server"`
	Model       ModelConfig     `mapstructure:"model"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Upload      UploadConfig    `mapstructure:"upload"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ModelConfig locates the bundled model artifacts and the CSV they are
// trained from.
type ModelConfig struct {
	ArtifactDir string `mapstructure:"artifact_dir"`
	DataPath    string `mapstructure:"data_path"`
}

type ForecastConfig struct {
	DefaultSteps int `mapstructure:"default_steps"`
	MaxSteps     int `mapstructure:"max_steps"`
}

type UploadConfig struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
	MaxSteps     int   `mapstructure:"max_steps"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Exporter    string  `mapstructure:"exporter"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bind specific environment variables
	if err := viper.BindEnv("redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	// Validate forecast horizon bounds
	if config.Forecast.MaxSteps < 1 {
		return nil, fmt.Errorf("forecast.max_steps must be at least 1, got %d", config.Forecast.MaxSteps)
	}
	if config.Forecast.DefaultSteps < 1 || config.Forecast.DefaultSteps > config.Forecast.MaxSteps {
		return nil, fmt.Errorf("forecast.default_steps must be between 1 and %d, got %d",
			config.Forecast.MaxSteps, config.Forecast.DefaultSteps)
	}

	// Validate upload limits
	if config.Upload.MaxSteps < 1 {
		return nil, fmt.Errorf("upload.max_steps must be at least 1, got %d", config.Upload.MaxSteps)
	}
	if config.Upload.MaxFileBytes < 1 {
		return nil, fmt.Errorf("upload.max_file_bytes must be positive, got %d", config.Upload.MaxFileBytes)
	}

	// Validate cache TTL when Redis is enabled
	if config.Redis.Enabled && config.Redis.TTL <= 0 {
		return nil, fmt.Errorf("redis.ttl must be positive when redis is enabled, got %s", config.Redis.TTL)
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	// Server
	viper.SetDefault("server.port", 8000)

	// Model artifacts
	viper.SetDefault("model.artifact_dir", "./artifacts")
	viper.SetDefault("model.data_path", "./data/AirPassengers.csv")

	// Forecast
	viper.SetDefault("forecast.default_steps", 12)
	viper.SetDefault("forecast.max_steps", 60)

	// Upload
	viper.SetDefault("upload.max_file_bytes", 5*1024*1024)
	viper.SetDefault("upload.max_steps", 100)

	// Redis
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "5m")

	// Telemetry
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.service_name", "augur-ai")
	viper.SetDefault("telemetry.exporter", "stdout")
	viper.SetDefault("telemetry.endpoint", "localhost:4318")
	viper.SetDefault("telemetry.sample_ratio", 1.0)
}
