package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/cityhealth/directory-api/internal/email"
	"github.com/cityhealth/directory-api/pkg/auth"
	"github.com/cityhealth/directory-api/pkg/messaging/redis"
	"github.com/cityhealth/directory-api/pkg/worker"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Outbox    OutboxConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	RefreshSecret      string `mapstructure:"refresh_secret"`
	ExpiryHours        int    `mapstructure:"expiry_hours"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	RetryBackoff int    `mapstructure:"retry_backoff_ms"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type OutboxConfig struct {
	BatchSize       int `mapstructure:"batch_size"`
	PollIntervalSec int `mapstructure:"poll_interval_seconds"`
	RetryAttempts   int `mapstructure:"retry_attempts"`
	RetryDelaySec   int `mapstructure:"retry_delay_seconds"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// envOverrides lets deployments inject secrets without touching the
// config file. Only non-empty values are applied.
type envOverrides struct {
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
	JWTRefreshSecret string `envconfig:"JWT_REFRESH_SECRET"`
	RedisURL         string `envconfig:"REDIS_URL"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var overrides envOverrides
	if err := envconfig.Process("cityhealth", &overrides); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}
	config.applyOverrides(overrides)

	return &config, nil
}

func (c *Config) applyOverrides(o envOverrides) {
	if o.DatabasePassword != "" {
		c.Database.Password = o.DatabasePassword
	}
	if o.JWTSecret != "" {
		c.JWT.Secret = o.JWTSecret
	}
	if o.JWTRefreshSecret != "" {
		c.JWT.RefreshSecret = o.JWTRefreshSecret
	}
	if o.RedisURL != "" {
		c.Redis.URL = o.RedisURL
	}
	if o.SMTPPassword != "" {
		c.SMTP.Password = o.SMTPPassword
	}
}

func (c *JWTConfig) ToAuthConfig() auth.Config {
	return auth.Config{
		Secret:        c.Secret,
		RefreshSecret: c.RefreshSecret,
		Expiry:        time.Duration(c.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(c.RefreshExpiryHours) * time.Hour,
	}
}

func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: time.Duration(c.RetryBackoff) * time.Millisecond,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}

func (c *OutboxConfig) ToWorkerConfig() worker.OutboxProcessorConfig {
	return worker.OutboxProcessorConfig{
		BatchSize:     c.BatchSize,
		PollInterval:  time.Duration(c.PollIntervalSec) * time.Second,
		RetryAttempts: c.RetryAttempts,
		RetryDelay:    time.Duration(c.RetryDelaySec) * time.Second,
	}
}

func (c *SMTPConfig) ToEmailConfig() email.SMTPConfig {
	return email.SMTPConfig{
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
	}
}

// Configured reports whether SMTP delivery is set up at all.
func (c *SMTPConfig) Configured() bool {
	return c.Host != ""
}
