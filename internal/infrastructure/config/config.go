package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	SalesAPI  SalesAPIConfig
	Redis     RedisConfig
	CartStore CartStoreConfig
	Queue     QueueConfig
	Fefo      FefoConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SalesAPIConfig holds settings for the distribution company's API
type SalesAPIConfig struct {
	BaseURL        string
	APIToken       string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CartStoreConfig selects the session cart store backend
type CartStoreConfig struct {
	// Backend is "memory" or "redis"
	Backend    string
	SessionTTL time.Duration
}

// QueueConfig holds the offline submission queue settings
type QueueConfig struct {
	// Path to the local sqlite database file
	Path          string
	FlushInterval time.Duration
	MaxRetries    int
}

// FefoConfig holds the FEFO enforcement policy defaults
type FefoConfig struct {
	// Enabled is the default for new sessions; each session may toggle it
	Enabled bool
}

// Load reads the configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FIELDSALES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		SalesAPI: SalesAPIConfig{
			BaseURL:        v.GetString("salesapi.base_url"),
			APIToken:       v.GetString("salesapi.api_token"),
			TimeoutSeconds: v.GetInt("salesapi.timeout_seconds"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CartStore: CartStoreConfig{
			Backend:    v.GetString("cartstore.backend"),
			SessionTTL: v.GetDuration("cartstore.session_ttl"),
		},
		Queue: QueueConfig{
			Path:          v.GetString("queue.path"),
			FlushInterval: v.GetDuration("queue.flush_interval"),
			MaxRetries:    v.GetInt("queue.max_retries"),
		},
		Fefo: FefoConfig{
			Enabled: v.GetBool("fefo.enabled"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fieldsales-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("salesapi.base_url", "http://localhost:9090")
	v.SetDefault("salesapi.timeout_seconds", 30)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("cartstore.backend", "memory")
	v.SetDefault("cartstore.session_ttl", 12*time.Hour)

	v.SetDefault("queue.path", "fieldsales_queue.db")
	v.SetDefault("queue.flush_interval", time.Minute)
	v.SetDefault("queue.max_retries", 5)

	v.SetDefault("fefo.enabled", true)
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.SalesAPI.BaseURL == "" {
		return fmt.Errorf("salesapi.base_url is required")
	}
	if c.SalesAPI.TimeoutSeconds <= 0 {
		return fmt.Errorf("salesapi.timeout_seconds must be positive")
	}
	switch c.CartStore.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cartstore.backend must be \"memory\" or \"redis\", got %q", c.CartStore.Backend)
	}
	if c.Queue.MaxRetries < 0 {
		return fmt.Errorf("queue.max_retries cannot be negative")
	}
	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
