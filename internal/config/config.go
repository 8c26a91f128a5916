package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode            string        `mapstructure:"mode"`
	Port            int           `mapstructure:"port"`
	MetricsPort     int           `mapstructure:"metrics_port"`
	LogLevel        string        `mapstructure:"log_level"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	SendQueueBytes  int           `mapstructure:"send_queue_bytes"`
	PingPeriod      time.Duration `mapstructure:"ping_period"`
	RoomTTL         time.Duration `mapstructure:"room_ttl"`
	RoomCheck       time.Duration `mapstructure:"room_check"`
	WebhookURL      string        `mapstructure:"webhook_url"`
	WebhookTimeout  time.Duration `mapstructure:"webhook_timeout"`
	MetricsPassword string        `mapstructure:"metrics_password"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateInterval    time.Duration `mapstructure:"rate_interval"`
	SlowConsumer    string        `mapstructure:"slow_consumer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("metrics_port", 8081)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 100<<20)
	v.SetDefault("send_queue_bytes", 64<<20)
	v.SetDefault("ping_period", "2s")
	v.SetDefault("room_ttl", "600s")
	v.SetDefault("room_check", "60s")
	v.SetDefault("webhook_url", "")
	v.SetDefault("webhook_timeout", "5s")
	v.SetDefault("metrics_password", "")
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_interval", "1s")
	v.SetDefault("slow_consumer", "drop")
}

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName if it exists and layers environment overrides on
// top. A missing file is not an error; defaults apply.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	setDefaults(v)

	v.SetEnvPrefix("poker")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names kept from the original deployment.
	_ = v.BindEnv("webhook_url", "POKER_WEBHOOK_URL", "WEBHOOK_URL")
	_ = v.BindEnv("metrics_password", "POKER_METRICS_PASSWORD", "PROMETHEUS_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Int("metrics_port", cfg.MetricsPort).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ReadLimit < 0 {
		errs = append(errs, errors.New("read_limit must not be negative"))
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("metrics_port %d out of range", c.MetricsPort))
	}
	if c.PingPeriod <= 0 {
		errs = append(errs, errors.New("ping_period must be positive"))
	}
	if c.RoomTTL <= 0 {
		errs = append(errs, errors.New("room_ttl must be positive"))
	}
	if c.RoomCheck <= 0 {
		errs = append(errs, errors.New("room_check must be positive"))
	}
	if c.SendQueueBytes <= 0 {
		errs = append(errs, errors.New("send_queue_bytes must be positive"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must not be negative"))
	}
	if c.RateLimit > 0 && c.RateInterval <= 0 {
		errs = append(errs, errors.New("rate_interval must be positive when rate_limit is set"))
	}
	switch c.SlowConsumer {
	case "drop", "kick":
	default:
		errs = append(errs, fmt.Errorf("slow_consumer must be drop or kick, got %q", c.SlowConsumer))
	}
	return errors.Join(errs...)
}
