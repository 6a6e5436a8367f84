package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"

	"venuespace-cli/store"
)

// LogPath is log.file or venuespace.log under the cache dir.
func (c Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := store.CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "venuespace.log"), nil
}

// NewLogger opens the log file and returns a logger writing to it. The TUI
// owns the terminal, so nothing is logged to stdout. verbose forces debug
// level.
func (c Config) NewLogger(verbose bool) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}
	if verbose {
		level = logrus.DebugLevel
	}

	path, err := c.LogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	out, err := c.openLogOutput(path)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return log, out, nil
}

var rotationPeriods = map[string]time.Duration{
	"":       0,
	"hourly": time.Hour,
	"daily":  24 * time.Hour,
}

// openLogOutput appends to path, or with log.rotate set writes timestamped
// files next to it and keeps path as a symlink to the current one.
func (c Config) openLogOutput(path string) (io.WriteCloser, error) {
	period := rotationPeriods[c.Log.Rotate]
	if period == 0 {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	}

	pattern := path + ".%Y%m%d"
	if period < 24*time.Hour {
		pattern += "%H"
	}
	w, err := rotatelogs.New(pattern,
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(period),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("open rotating log: %w", err)
	}
	return w, nil
}
