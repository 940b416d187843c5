package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appName = "tictactoe"

type Server struct {
	Addr      string        `mapstructure:"addr"`
	Heartbeat time.Duration `mapstructure:"heartbeat"`
}

type Game struct {
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	ThinkDelay  time.Duration `mapstructure:"think_delay"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type Log struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
	// File sends logs to a file instead of stderr.
	File string `mapstructure:"file"`
}

type Config struct {
	Server Server `mapstructure:"server"`
	Game   Game   `mapstructure:"game"`
	Log    Log    `mapstructure:"log"`
}

var ErrInvalid = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.heartbeat", 15*time.Second)
	v.SetDefault("game.settle_delay", 500*time.Millisecond)
	v.SetDefault("game.think_delay", 500*time.Millisecond)
	v.SetDefault("game.idle_timeout", 30*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)
	v.SetDefault("log.file", "")
}

// Load reads defaults, then the config file, then TICTACTOE_* environment
// variables. An empty path searches $XDG_CONFIG_HOME/tictactoe and the
// working directory; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	if c.Server.Heartbeat <= 0 {
		return fmt.Errorf("%w: server.heartbeat must be positive", ErrInvalid)
	}
	if c.Game.SettleDelay <= 0 || c.Game.ThinkDelay <= 0 {
		return fmt.Errorf("%w: game delays must be positive", ErrInvalid)
	}
	if c.Game.IdleTimeout <= 0 {
		return fmt.Errorf("%w: game.idle_timeout must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}
