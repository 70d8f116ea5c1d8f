package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Platform PlatformConfig
	API      APIConfig
	Log      LogConfig
	UI       UIConfig
	Startup  StartupConfig
}

// PlatformConfig selects and configures the sensor backend.
type PlatformConfig struct {
	Backend string // sim, iio or kafka
	Sim     SimConfig
	IIO     IIOConfig
	Kafka   KafkaConfig
}

// SimConfig configures the simulated platform.
type SimConfig struct {
	Scenario string // YAML scenario path, empty for the built-in one
}

// IIOConfig configures the Linux IIO sysfs platform.
type IIOConfig struct {
	Root         string
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// KafkaConfig configures the remote sensor gateway.
type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string `mapstructure:"topic_prefix"`
	Group       string
	Kinds       []string // kinds the gateway advertises
}

// APIConfig holds headless control API settings.
type APIConfig struct {
	Addr string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	NoticeTTL time.Duration `mapstructure:"notice_ttl"`
}

// StartupConfig holds what to do when the engine starts.
type StartupConfig struct {
	Sensor string // kind to activate at startup, empty for none
}

// Load reads configuration from path (or SENSORES_CONFIG, or
// ~/.config/sensores/config.*) and env. Env var overrides use prefix
// SENSORES_, e.g. SENSORES_PLATFORM_BACKEND=iio.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()

	// default values
	v.SetDefault("platform.backend", "sim")
	v.SetDefault("platform.sim.scenario", "")
	v.SetDefault("platform.iio.root", "/sys/bus/iio/devices")
	v.SetDefault("platform.iio.poll_interval", "200ms")
	v.SetDefault("platform.kafka.brokers", []string{})
	v.SetDefault("platform.kafka.topic_prefix", "sensors")
	v.SetDefault("platform.kafka.group", "sensores")
	v.SetDefault("platform.kafka.kinds", []string{"proximity", "magnetic", "light", "tilt"})
	v.SetDefault("api.addr", "127.0.0.1:8085")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "sensores", "sensores.log"))
	v.SetDefault("ui.notice_ttl", "2s")
	v.SetDefault("startup.sensor", "")

	explicit := path != ""
	if path == "" {
		path = os.Getenv("SENSORES_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "sensores"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SENSORES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	switch c.Platform.Backend {
	case "sim", "iio", "kafka":
	default:
		return fmt.Errorf("config: unknown platform backend %q", c.Platform.Backend)
	}
	if c.Platform.IIO.PollInterval <= 0 {
		return fmt.Errorf("config: platform.iio.poll_interval must be positive")
	}
	return nil
}
