// Package config loads settings from flags, QUORIDOR_* environment
// variables and an optional config.yaml in the data directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDebug         = "debug"
	ConfigBoardSize     = "board-size"
	ConfigStartingWalls = "starting-walls"
	ConfigSearchDepth   = "search-depth"
	ConfigWallRadius    = "wall-radius"
	ConfigSearchThreads = "search-threads"
	ConfigNatsURL       = "nats-url"
	ConfigBotSubject    = "bot-subject"
	ConfigDataPath      = "data-path"
	ConfigCPUProfile    = "cpu-profile"
	ConfigMemProfile    = "mem-profile"
)

const configFileName = "config.yaml"

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config with every default set and nothing read
// from the environment. Tests use it.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigBoardSize, 9)
	v.SetDefault(ConfigStartingWalls, 10)
	v.SetDefault(ConfigSearchDepth, 3)
	v.SetDefault(ConfigWallRadius, 3)
	v.SetDefault(ConfigSearchThreads, 1)
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigBotSubject, "quoridor.bot")
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
}

// Load parses command-line args, binds environment variables and reads
// config.yaml from the data path if one exists. Args that are not flags
// are left for the caller.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("quoridor", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigBoardSize, 9, "side of the board for new games")
	fs.Int(ConfigStartingWalls, 10, "walls each player starts with")
	fs.Int(ConfigSearchDepth, 3, "plies searched by the computer player")
	fs.Int(ConfigWallRadius, 3, "max distance from a pawn for candidate walls")
	fs.Int(ConfigSearchThreads, 1, "threads used at the root of the search")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigBotSubject, "quoridor.bot", "the NATS subject the bot listens on")
	fs.String(ConfigDataPath, "./data", "directory for saved games and config.yaml")
	fs.String(ConfigCPUProfile, "", "file to write a CPU profile to")
	fs.String(ConfigMemProfile, "", "file to write a memory profile to")
	// Don't fail on positional arguments; the shell treats them as a command.
	fs.ParseErrorsWhitelist.UnknownFlags = true
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("QUORIDOR")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigFile(filepath.Join(c.GetString(ConfigDataPath), configFileName))
	if err := c.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return fmt.Errorf("reading %s: %w", configFileName, err)
		}
	}
	return nil
}

// Args are the positional arguments left after the flags in Load.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative path settings relative to basepath,
// usually the directory of the executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigDataPath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// SanitizedSettings returns all settings in a loggable form.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

// Write stores the current settings as config.yaml in the data path.
func (c *Config) Write() error {
	dir := c.GetString(ConfigDataPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	settings := c.AllSettings()
	out, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, configFileName), out, 0o644)
}
