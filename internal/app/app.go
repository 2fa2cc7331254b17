package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bunchhieng/sqid/internal/config"
	"github.com/bunchhieng/sqid/internal/storage"
	"github.com/bunchhieng/sqid/pkg/sqids"
)

const appDir = "sqid"

// ErrCodecMismatch indicates the database was created with a different codec
// configuration, so the IDs it handed out would no longer resolve.
var ErrCodecMismatch = errors.New("codec configuration does not match database")

const fingerprintKey = "codec_fingerprint"

// DefaultDBPath returns the default database path using the platform's config directory.
func DefaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDir, "links.db"), nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDir, "config.toml"), nil
}

// App bundles the codec with the link store.
type App struct {
	Storage storage.Storage
	IDs     *IDs
	Log     *zap.Logger
}

// OpenOptions controls Open.
type OpenOptions struct {
	// ResetCodec overwrites a mismatching stored fingerprint instead of failing.
	ResetCodec bool
}

// NewCodec builds the encoder described by cfg.
func NewCodec(cfg config.Codec) (*sqids.Sqids, error) {
	codec, err := sqids.New(cfg.Options())
	if err != nil {
		return nil, fmt.Errorf("build codec: %w", err)
	}
	return codec, nil
}

// OpenCodec builds an App with a codec but no store, for commands that only
// encode and decode.
func OpenCodec(cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	codec, err := NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}
	return &App{IDs: NewIDs(codec), Log: log}, nil
}

// Open builds the codec, opens the store and checks that the store was
// populated with the same codec.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger, opts OpenOptions) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	codec, err := NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	s, err := storage.NewSQLiteStorage(dbPath, log.Named("storage"))
	if err != nil {
		return nil, err
	}

	if err := checkFingerprint(ctx, s, codec, log, opts.ResetCodec); err != nil {
		_ = s.Close()
		return nil, err
	}

	return &App{
		Storage: s,
		IDs:     NewIDs(codec),
		Log:     log,
	}, nil
}

func checkFingerprint(ctx context.Context, s storage.Storage, codec *sqids.Sqids, log *zap.Logger, reset bool) error {
	want := Fingerprint(codec)

	got, ok, err := s.Meta(ctx, fingerprintKey)
	if err != nil {
		return err
	}
	switch {
	case ok && got == want:
		return nil
	case ok && !reset:
		log.Warn("codec fingerprint mismatch", zap.String("stored", got), zap.String("configured", want))
		return fmt.Errorf("%w: stored %s, configured %s (use --reset-codec to accept)", ErrCodecMismatch, got, want)
	case ok:
		log.Warn("resetting codec fingerprint, previously shared IDs no longer resolve",
			zap.String("stored", got), zap.String("configured", want))
	default:
		log.Info("recording codec fingerprint", zap.String("fingerprint", want))
	}
	return s.SetMeta(ctx, fingerprintKey, want)
}

// Close releases the store, if one was opened.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}
