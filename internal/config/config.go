package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/justinabrahms/squarechess/internal/session"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Game        GameConfig        `mapstructure:"game"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type GameConfig struct {
	TimeControl session.TimeControl `mapstructure:"time_control"`
}

type AuthConfig struct {
	// SeatSecret signs seat tokens. When empty the server generates one at
	// startup and tokens do not survive a restart.
	SeatSecret string        `mapstructure:"seat_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type DevelopmentConfig struct {
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	VerifyMoves bool   `mapstructure:"verify_moves"`
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Level parses the configured log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	if c.Development.Debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(c.Development.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func Load() (*Config, error) {
	return LoadFrom(viper.New(), ".", "./config")
}

// LoadFrom reads config.yaml from the first matching path into v, layered
// under SQUARECHESS_* environment variables.
func LoadFrom(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Enable environment variables
	v.SetEnvPrefix("SQUARECHESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("game.time_control.type", "none")
	v.SetDefault("game.time_control.days_per_move", 0)
	v.SetDefault("auth.seat_secret", "")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("development.debug", false)
	v.SetDefault("development.log_level", "info")
	v.SetDefault("development.verify_moves", false)

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, defaults and environment still apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Game: GameConfig{
			TimeControl: session.TimeControl{Type: "none"},
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		Development: DevelopmentConfig{
			LogLevel: "info",
		},
	}
}
