package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads config.yaml (if present) and the environment into a Config.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	return load(v)
}

// LoadFile reads the given file instead of searching the default paths.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	_ = v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	_ = v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	_ = v.BindEnv("queue.nats_url", "NATS_URL", "APP_QUEUE_NATS_URL")
	_ = v.BindEnv("queue.rabbitmq_url", "RABBITMQ_URL", "APP_QUEUE_RABBITMQ_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	_ = v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	_ = v.BindEnv("notification.email.api_key", "SENDGRID_API_KEY")
	_ = v.BindEnv("app.environment", "APP_ENVIRONMENT")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "evstation")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.port", 9090)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("queue.driver", "nats")
	v.SetDefault("queue.nats_url", "nats://localhost:4222")
	v.SetDefault("queue.exchange", "evstation.events")
	v.SetDefault("queue.reconnect_wait", 2*time.Second)
	v.SetDefault("jwt.access_token_duration", 15*time.Minute)
	v.SetDefault("jwt.refresh_token_duration", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "evstation")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.max_requests", 100)
	v.SetDefault("rate_limiting.window", time.Minute)
	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)
	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("vault.path", "secret/data/evstation")
	v.SetDefault("notification.email.provider", "none")
	v.SetDefault("station.default_radius_km", 5.0)
	v.SetDefault("station.cache_ttl", 5*time.Minute)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Station.DefaultRadiusKm <= 0 {
		return fmt.Errorf("station.default_radius_km must be positive")
	}
	switch c.Queue.Driver {
	case "nats", "rabbitmq", "none":
	default:
		return fmt.Errorf("unsupported queue driver %q", c.Queue.Driver)
	}
	return nil
}
