package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
	Models   ModelsConfig   `yaml:"models"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

type ServerConfig struct {
	Port               int `yaml:"port"`
	ShutdownTimeoutSec int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds a single connection URL. sqlite:// (or a bare file
// path) selects the embedded database, postgres:// selects PostgreSQL.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	Algorithm     string `yaml:"algorithm"`
	ExpiryMinutes int    `yaml:"expiry_minutes"`
}

type RedisConfig struct {
	URL         string `yaml:"url"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ModelsConfig struct {
	Dir     string `yaml:"dir"`
	Preload bool   `yaml:"preload"`
}

// MQTTConfig drives the ingest worker. Requests arrive on
// <TopicPrefix>/kepler and <TopicPrefix>/tess.
type MQTTConfig struct {
	URL         string `yaml:"url"`
	TopicPrefix string `yaml:"topic_prefix"`
	ClientID    string `yaml:"client_id"`
	QoS         int    `yaml:"qos"`
	MetricsAddr string `yaml:"metrics_addr"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Driver reports which gorm dialector the URL selects.
func (d DatabaseConfig) Driver() string {
	if strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// GetDSN returns the URL in the form the selected driver expects.
func (d DatabaseConfig) GetDSN() string {
	if d.Driver() == DriverPostgres {
		return d.URL
	}
	switch {
	case strings.HasPrefix(d.URL, "sqlite:///"):
		return strings.TrimPrefix(d.URL, "sqlite:///")
	case strings.HasPrefix(d.URL, "sqlite://"):
		return strings.TrimPrefix(d.URL, "sqlite://")
	}
	return d.URL
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ShutdownTimeoutSec: 10,
		},
		Database: DatabaseConfig{
			URL: "sqlite:///./exovision.db",
		},
		JWT: JWTConfig{
			Secret:        "your-secret-key-here",
			Algorithm:     "HS256",
			ExpiryMinutes: 30,
		},
		Redis: RedisConfig{
			CacheTTLSec: 60,
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Models: ModelsConfig{
			Preload: true,
		},
		MQTT: MQTTConfig{
			URL:         "tcp://localhost:1883",
			TopicPrefix: "exovision/requests",
			MetricsAddr: ":9090",
		},
	}
}

// LoadConfig applies defaults, then the YAML file named by CONFIG_FILE (if
// any), then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	if cfg.Server.Port, err = getIntEnv("SERVER_PORT", cfg.Server.Port); err != nil {
		return fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	if cfg.Server.ShutdownTimeoutSec, err = getIntEnv("SHUTDOWN_TIMEOUT_SEC", cfg.Server.ShutdownTimeoutSec); err != nil {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT_SEC: %w", err)
	}

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)

	cfg.JWT.Secret = getEnv("SECRET_KEY", cfg.JWT.Secret)
	cfg.JWT.Algorithm = getEnv("ALGORITHM", cfg.JWT.Algorithm)
	if cfg.JWT.ExpiryMinutes, err = getIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", cfg.JWT.ExpiryMinutes); err != nil {
		return fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
	}

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	if cfg.Redis.CacheTTLSec, err = getIntEnv("REDIS_CACHE_TTL_SEC", cfg.Redis.CacheTTLSec); err != nil {
		return fmt.Errorf("invalid REDIS_CACHE_TTL_SEC: %w", err)
	}

	cfg.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)

	cfg.Log.Level = getEnv("LOGGING_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	if cfg.Log.MaxSizeMB, err = getIntEnv("LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB); err != nil {
		return fmt.Errorf("invalid LOG_MAX_SIZE_MB: %w", err)
	}
	if cfg.Log.MaxBackups, err = getIntEnv("LOG_MAX_BACKUPS", cfg.Log.MaxBackups); err != nil {
		return fmt.Errorf("invalid LOG_MAX_BACKUPS: %w", err)
	}
	if cfg.Log.MaxAgeDays, err = getIntEnv("LOG_MAX_AGE_DAYS", cfg.Log.MaxAgeDays); err != nil {
		return fmt.Errorf("invalid LOG_MAX_AGE_DAYS: %w", err)
	}

	cfg.Models.Dir = getEnv("MODEL_DIR", cfg.Models.Dir)
	if cfg.Models.Preload, err = getBoolEnv("MODEL_PRELOAD", cfg.Models.Preload); err != nil {
		return fmt.Errorf("invalid MODEL_PRELOAD: %w", err)
	}

	cfg.MQTT.URL = getEnv("MQTT_URL", cfg.MQTT.URL)
	cfg.MQTT.TopicPrefix = strings.TrimSuffix(getEnv("MQTT_TOPIC_PREFIX", cfg.MQTT.TopicPrefix), "/")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", cfg.MQTT.ClientID)
	if cfg.MQTT.QoS, err = getIntEnv("MQTT_QOS", cfg.MQTT.QoS); err != nil {
		return fmt.Errorf("invalid MQTT_QOS: %w", err)
	}
	if cfg.MQTT.QoS < 0 || cfg.MQTT.QoS > 2 {
		return fmt.Errorf("invalid MQTT_QOS: %d is not 0, 1 or 2", cfg.MQTT.QoS)
	}
	cfg.MQTT.MetricsAddr = getEnv("METRICS_ADDR", cfg.MQTT.MetricsAddr)

	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getBoolEnv(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}
