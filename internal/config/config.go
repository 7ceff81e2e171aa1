package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config is everything the binary can be told from a file or flags.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	UI       UIConfig       `toml:"ui"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type UIConfig struct {
	Theme string `toml:"theme"` // classic | neon | mono
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty: stderr, or FormLogFile while the form runs
}

// FormLogFile receives logs while the interactive form owns the terminal
// and no log file is configured.
const FormLogFile = "crud.log"

var themes = map[string]bool{"classic": true, "neon": true, "mono": true}

// Default is items.db in the working directory with the classic theme.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "items.db"},
		UI:       UIConfig{Theme: "classic"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads a TOML file over the defaults, expanding ${VAR} references first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(expandEnvVars(string(data)), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("parsing config: unknown key %q", undec[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the environment value (empty if unset).
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}"))
	})
}

// Validate checks that the values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if !themes[strings.ToLower(c.UI.Theme)] {
		return fmt.Errorf("ui.theme %q is not one of classic, neon, mono", c.UI.Theme)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil || c.Logging.Level == "" {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	return nil
}
