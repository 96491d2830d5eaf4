package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
)

const (
	StoreSqlite = "sqlite"
	StoreRedis  = "redis"
	StoreDynamo = "dynamo"
	StoreMemory = "memory"

	QueueNone = "none"
	QueueChan = "chan"
	QueueSQS  = "sqs"

	EventsLocal = "local"
	EventsRedis = "redis"
)

var (
	storeBackends  = []string{StoreSqlite, StoreRedis, StoreDynamo, StoreMemory}
	queueBackends  = []string{QueueNone, QueueChan, QueueSQS}
	eventsBackends = []string{EventsLocal, EventsRedis}
)

var ErrNoJWTSecret = errors.New("jwt_secret is not configured")

type Config struct {
	StoreBackend     string `mapstructure:"store_backend"`
	SqlitePath       string `mapstructure:"sqlite_path"`
	RedisEndpoint    string `mapstructure:"redis_endpoint"`
	DynamoDBEndpoint string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTable    string `mapstructure:"dynamodb_table"`
	DevMode          bool   `mapstructure:"dev_mode"`

	RemoteBaseURL string `mapstructure:"remote_base_url"`

	QueueBackend  string `mapstructure:"queue_backend"`
	SQSEndpoint   string `mapstructure:"sqs_endpoint"`
	SQSQueue      string `mapstructure:"sqs_queue"`
	EventsBackend string `mapstructure:"events_backend"`

	ListenAddr    string `mapstructure:"listen_addr"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
	// JWTSecret is base64 encoded.
	JWTSecret string `mapstructure:"jwt_secret"`

	LogFile string `mapstructure:"log_file"`
	// User is the user id the CLI acts as.
	User string `mapstructure:"user"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store_backend", StoreSqlite)
	v.SetDefault("sqlite_path", filepath.Join(dataHome(), "drafty", "drafty.db"))
	v.SetDefault("redis_endpoint", "localhost:6379")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table", "Drafty")
	v.SetDefault("dev_mode", false)
	v.SetDefault("remote_base_url", "https://api.github.com")
	v.SetDefault("queue_backend", QueueChan)
	v.SetDefault("sqs_endpoint", "")
	v.SetDefault("sqs_queue", "DraftySyncQueue.fifo")
	v.SetDefault("events_backend", EventsLocal)
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("allowed_origin", "http://localhost:5173")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("log_file", "")
	v.SetDefault("user", "local")
}

// Load reads defaults, then config.yaml, then DRAFTY_* environment variables.
// An explicit configFile must exist; the searched locations are optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(configHome(), "drafty"))
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("DRAFTY")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !slices.Contains(storeBackends, c.StoreBackend) {
		return fmt.Errorf("unknown store_backend %q", c.StoreBackend)
	}
	if !slices.Contains(queueBackends, c.QueueBackend) {
		return fmt.Errorf("unknown queue_backend %q", c.QueueBackend)
	}
	if !slices.Contains(eventsBackends, c.EventsBackend) {
		return fmt.Errorf("unknown events_backend %q", c.EventsBackend)
	}
	if c.StoreBackend == StoreSqlite && c.SqlitePath == "" {
		return errors.New("sqlite_path is required for the sqlite store")
	}
	if c.User == "" {
		return errors.New("user must not be empty")
	}
	if c.JWTSecret != "" {
		if _, err := base64.StdEncoding.DecodeString(c.JWTSecret); err != nil {
			return fmt.Errorf("jwt_secret is not valid base64: %w", err)
		}
	}
	return nil
}

// Secret returns the decoded JWT secret.
func (c *Config) Secret() ([]byte, error) {
	if c.JWTSecret == "" {
		return nil, ErrNoJWTSecret
	}
	secret, err := base64.StdEncoding.DecodeString(c.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 jwt_secret: %w", err)
	}
	return secret, nil
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share")
}
