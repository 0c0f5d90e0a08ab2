package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eigerco/laindb/pkg/db"
	"github.com/eigerco/laindb/pkg/db/laindb/abi"
	"github.com/eigerco/laindb/pkg/log"
)

// Engines the CLI can open a database with.
const (
	EngineLaindb = "laindb"
	EnginePebble = "pebble"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of the laindb command.
type Config struct {
	// Engine selects the storage engine, laindb or pebble.
	Engine string `yaml:"engine"`
	// Mode is the open mode: open, new or create.
	Mode string `yaml:"mode"`
	// Library is the path of the laindb engine shared library.
	Library string `yaml:"library"`
	Log     Log    `yaml:"log"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		Engine: EngineLaindb,
		Mode:   db.ModeCreate.String(),
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file on top of the defaults and then applies the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if lib := os.Getenv(abi.LibraryPathEnv); lib != "" {
		cfg.Library = lib
	}
	return cfg, nil
}

// Validate checks every enumerated setting.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineLaindb, EnginePebble:
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, c.Engine)
	}
	if _, err := c.OpenMode(); err != nil {
		return err
	}
	if _, err := c.LogOptions(); err != nil {
		return err
	}
	return nil
}

// OpenMode returns the parsed open mode.
func (c Config) OpenMode() (db.Mode, error) {
	m, err := db.ParseMode(c.Mode)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return m, nil
}

// LogOptions converts the log section into pkg/log options.
func (c Config) LogOptions() (log.Options, error) {
	level, err := log.ParseLogLevel(c.Log.Level)
	if err != nil {
		return log.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	typ, err := log.ParseLoggerType(c.Log.Format)
	if err != nil {
		return log.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return log.Options{LogLevel: level, Type: typ}, nil
}
