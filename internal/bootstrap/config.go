package bootstrap

import (
	"os"

	"github.com/spf13/viper"
)

// Config carries the server-level settings. Everything has an environment
// fallback so a bare `go run ./cmd/server` works without a config file.
type Config struct {
	ServerAddr     string `mapstructure:"SERVER_ADDR"`
	ReplayDir      string `mapstructure:"REPLAY_DIR"`
	DefaultVariant string `mapstructure:"DEFAULT_VARIANT"`
	LogDebug       bool   `mapstructure:"LOG_DEBUG"`
}

// Setup loads cfgPath (dotenv-style) when present. A setting comes from the
// process environment first, then from the config file, then from defaults.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("REPLAY_DIR", "replays")
	v.SetDefault("DEFAULT_VARIANT", "standard")
	v.SetDefault("LOG_DEBUG", false)
	v.AutomaticEnv()

	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			v.SetConfigFile(cfgPath)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
