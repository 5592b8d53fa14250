package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the scanner's runtime configuration, decoded by viper from
// flags, environment variables, and a config file, in that order of
// precedence.
type Config struct {
	Rate      int    `mapstructure:"rate" validate:"min=1,max=100000"`
	Ports     string `mapstructure:"ports"`
	Scans     string `mapstructure:"scans"`
	TimeoutMs int    `mapstructure:"timeout_ms" validate:"min=1,max=10000"`
	Threads   int    `mapstructure:"threads" validate:"min=0,max=1000"` // reserved, unused by the engine
	Output    string `mapstructure:"output" validate:"omitempty,oneof=table json csv"`
	NoColor   bool   `mapstructure:"no_color"`
	Theme     string `mapstructure:"theme" validate:"oneof=default dracula monokai"`
}

func Load() (*Config, error) {
	var cfg Config

	viper.SetDefault("rate", 1000)
	viper.SetDefault("ports", "1-1024")
	viper.SetDefault("scans", "syn")
	viper.SetDefault("timeout_ms", 200)
	viper.SetDefault("threads", 0)
	viper.SetDefault("output", "table")
	viper.SetDefault("no_color", false)
	viper.SetDefault("theme", "default")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetTimeout converts the configured millisecond timeout to a time.Duration.
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// GetDelay converts the configured packets-per-second rate to an
// inter-probe delay: the engine paces emission by sleeping this long
// between sends.
func (c *Config) GetDelay() time.Duration {
	if c.Rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Rate)
}
