package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"

	"github.com/bunchhieng/sqid/pkg/sqids"
)

// Config is the on-disk configuration. Every field is optional.
type Config struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	Codec    Codec  `toml:"codec"`
}

// Codec configures the ID encoder. Changing it changes every ID handed out
// for an existing database.
//
// Blocklist is nil when the key is absent, which selects the built-in list.
// An explicit empty array disables filtering.
type Codec struct {
	Alphabet  string    `toml:"alphabet"`
	MinLength int       `toml:"min_length"`
	Blocklist *[]string `toml:"blocklist,omitempty"`
	MaxValue  uint64    `toml:"max_value"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{LogLevel: "warn"}
}

// Load reads the TOML file at path. A missing file yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetBlocklist replaces the blocklist with the trimmed, non-empty,
// de-duplicated words.
func (c *Codec) SetBlocklist(words []string) {
	cleaned := lo.Uniq(lo.Filter(lo.Map(words, func(w string, _ int) string {
		return strings.TrimSpace(w)
	}), func(w string, _ int) bool {
		return w != ""
	}))
	c.Blocklist = &cleaned
}

// Options converts the codec section into sqids options.
func (c Codec) Options() sqids.Options {
	opts := sqids.Options{
		Alphabet:  c.Alphabet,
		MinLength: c.MinLength,
		MaxValue:  c.MaxValue,
	}
	if c.Blocklist != nil {
		opts.Blocklist = append([]string{}, *c.Blocklist...)
	}
	return opts
}
