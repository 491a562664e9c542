package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDepth      = "depth"
	ConfigHuman      = "human"
	ConfigBot        = "bot"
	ConfigFEN        = "fen"
	ConfigUnicode    = "unicode"
	ConfigDebug      = "debug"
	ConfigConfigFile = "config-file"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config layers command-line flags over CHESSBOT_* environment variables
// over an optional config file over defaults.
type Config struct {
	*viper.Viper
}

func (c *Config) Load(args []string) error {
	c.Viper = viper.New()

	fs := pflag.NewFlagSet("chessbot", pflag.ContinueOnError)
	fs.Int(ConfigDepth, 2, "plies the bot searches below each of its candidate moves")
	fs.String(ConfigHuman, "white", "colour played by the human: white or black")
	fs.String(ConfigBot, "alphabeta", "bot to play against")
	fs.String(ConfigFEN, "", "start from this FEN instead of the standard position")
	fs.Bool(ConfigUnicode, true, "draw the board with unicode pieces")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "yaml, toml or json file with any of the above settings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("CHESSBOT")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.GetInt(ConfigDepth) < 0 {
		return fmt.Errorf("%w: depth must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.GetString(ConfigHuman)) {
	case "white", "black":
	default:
		return fmt.Errorf("%w: human must be white or black, got %q", ErrInvalidConfig, c.GetString(ConfigHuman))
	}
	return nil
}

// HumanIsWhite reports which colour the human plays.
func (c *Config) HumanIsWhite() bool {
	return strings.ToLower(c.GetString(ConfigHuman)) == "white"
}

// SanitizedSettings returns every setting for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
