package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bunchhieng/sqid/internal/app"
	"github.com/bunchhieng/sqid/internal/config"
	"github.com/bunchhieng/sqid/internal/logging"
)

var version = "dev"

func main() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		text.DisableColors()
	}

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// state is filled in by the Before hook and shared by every command.
type state struct {
	cfg config.Config
	log *zap.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	st := &state{}

	return &cli.App{
		Name:      "sqid",
		Usage:     "Short, reversible IDs and a link store keyed by them",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: platform config directory)",
				EnvVars: []string{"SQID_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db-path",
				Usage:   "Database file path (default: platform config directory)",
				EnvVars: []string{"SQID_DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error",
				EnvVars: []string{"SQID_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "alphabet",
				Usage:   "Characters IDs are built from",
				EnvVars: []string{"SQID_ALPHABET"},
			},
			&cli.IntFlag{
				Name:    "min-length",
				Usage:   "Pad IDs to at least this many characters",
				EnvVars: []string{"SQID_MIN_LENGTH"},
			},
			&cli.Uint64Flag{
				Name:    "max-value",
				Usage:   "Largest number accepted for encoding (0 means no limit)",
				EnvVars: []string{"SQID_MAX_VALUE"},
			},
			&cli.StringSliceFlag{
				Name:    "blocklist",
				Usage:   "Word IDs must not contain (repeatable, replaces the built-in list)",
				EnvVars: []string{"SQID_BLOCKLIST"},
			},
			&cli.BoolFlag{
				Name:    "no-blocklist",
				Usage:   "Disable blocklist filtering",
				EnvVars: []string{"SQID_NO_BLOCKLIST"},
			},
			&cli.BoolFlag{
				Name:  "reset-codec",
				Usage: "Accept a codec that differs from the one the database was created with",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel, c.App.ErrWriter)
			if err != nil {
				return err
			}
			st.cfg = cfg
			st.log = log
			return nil
		},
		After: func(c *cli.Context) error {
			if st.log != nil {
				_ = st.log.Sync()
			}
			return nil
		},
		Commands: commands(st),
	}
}

// loadConfigWithOverrides reads the config file and applies flag and
// environment overrides on top of it.
func loadConfigWithOverrides(c *cli.Context) (config.Config, error) {
	configPath := c.String("config")
	if configPath == "" {
		var err error
		if configPath, err = app.DefaultConfigPath(); err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	if c.IsSet("db-path") {
		cfg.DBPath = c.String("db-path")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("alphabet") {
		cfg.Codec.Alphabet = c.String("alphabet")
	}
	if c.IsSet("min-length") {
		cfg.Codec.MinLength = c.Int("min-length")
	}
	if c.IsSet("max-value") {
		cfg.Codec.MaxValue = c.Uint64("max-value")
	}
	if c.IsSet("blocklist") {
		cfg.Codec.SetBlocklist(c.StringSlice("blocklist"))
	}
	if c.Bool("no-blocklist") {
		cfg.Codec.SetBlocklist(nil)
	}
	return cfg, nil
}
