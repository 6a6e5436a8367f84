// Package config loads config.yaml and the VENUESPACE_* environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"venuespace-cli/booking"
	"venuespace-cli/store"
)

const (
	EnvConfig   = "VENUESPACE_CONFIG"
	EnvCity     = "VENUESPACE_CITY"
	EnvDemo     = "VENUESPACE_DEMO"
	EnvLogLevel = "VENUESPACE_LOG_LEVEL"
)

type Windows struct {
	Confirmation time.Duration `yaml:"confirmation"`
	Handoff      time.Duration `yaml:"handoff"`
	Payment      time.Duration `yaml:"payment"`
	HostResponse time.Duration `yaml:"host_response"`
	Tick         time.Duration `yaml:"tick"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	// Rotate is "", "hourly" or "daily". Empty appends to a single file.
	Rotate string `yaml:"rotate"`
}

type Audit struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

func (s SMTP) Enabled() bool {
	return s.Host != ""
}

type Config struct {
	Demo    bool    `yaml:"demo"`
	City    string  `yaml:"city"`
	Windows Windows `yaml:"windows"`
	Log     Log     `yaml:"log"`
	Audit   Audit   `yaml:"audit"`
	SMTP    SMTP    `yaml:"smtp"`
}

// fileConfig mirrors Config but keeps demo optional so a file that omits it
// gets the demo profile.
type fileConfig struct {
	Demo    *bool   `yaml:"demo"`
	City    string  `yaml:"city"`
	Windows Windows `yaml:"windows"`
	Log     Log     `yaml:"log"`
	Audit   Audit   `yaml:"audit"`
	SMTP    SMTP    `yaml:"smtp"`
}

var demoWindows = Windows{
	Confirmation: 30 * time.Second,
	Handoff:      2 * time.Second,
	Payment:      60 * time.Second,
	HostResponse: 10 * time.Second,
	Tick:         time.Second,
}

var nominalWindows = Windows{
	Confirmation: booking.NominalWindows.Confirmation,
	Handoff:      booking.NominalWindows.Handoff,
	Payment:      booking.NominalWindows.Payment,
	HostResponse: 10 * time.Second,
	Tick:         booking.NominalWindows.Tick,
}

// Default returns the built-in configuration for the demo or nominal
// profile.
func Default(demo bool) Config {
	w := nominalWindows
	if demo {
		w = demoWindows
	}
	return Config{
		Demo:    demo,
		Windows: w,
		Log:     Log{Level: "info"},
		SMTP:    SMTP{Port: 587},
	}
}

// DefaultPath honours VENUESPACE_CONFIG, falling back to config.yaml in the
// user config dir.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := store.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path (or DefaultPath when empty) and applies environment
// overrides. A missing file is only an error when path was given
// explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
		explicit = os.Getenv(EnvConfig) != ""
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		data = nil
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults of the profile it selects. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	var fc fileConfig
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	demo := true
	if fc.Demo != nil {
		demo = *fc.Demo
	}
	cfg := Default(demo)
	cfg.City = strings.TrimSpace(fc.City)
	cfg.Windows = overlayWindows(cfg.Windows, fc.Windows)
	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	cfg.Log.File = fc.Log.File
	cfg.Log.Rotate = fc.Log.Rotate
	cfg.Audit = fc.Audit
	if fc.SMTP.Port == 0 {
		fc.SMTP.Port = cfg.SMTP.Port
	}
	cfg.SMTP = fc.SMTP
	return cfg, nil
}

func overlayWindows(base, over Windows) Windows {
	if over.Confirmation != 0 {
		base.Confirmation = over.Confirmation
	}
	if over.Handoff != 0 {
		base.Handoff = over.Handoff
	}
	if over.Payment != 0 {
		base.Payment = over.Payment
	}
	if over.HostResponse != 0 {
		base.HostResponse = over.HostResponse
	}
	if over.Tick != 0 {
		base.Tick = over.Tick
	}
	return base
}

func (c *Config) applyEnv() error {
	if city := strings.TrimSpace(os.Getenv(EnvCity)); city != "" {
		c.City = city
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		c.Log.Level = level
	}
	if raw := strings.TrimSpace(os.Getenv(EnvDemo)); raw != "" {
		demo, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDemo, err)
		}
		// switching profile discards windows read from the file
		if demo != c.Demo {
			c.Windows = Default(demo).Windows
			c.Demo = demo
		}
	}
	return nil
}

func (c Config) Validate() error {
	w := c.Windows
	for name, d := range map[string]time.Duration{
		"windows.confirmation":  w.Confirmation,
		"windows.handoff":       w.Handoff,
		"windows.payment":       w.Payment,
		"windows.host_response": w.HostResponse,
		"windows.tick":          w.Tick,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, ok := rotationPeriods[c.Log.Rotate]; !ok {
		return fmt.Errorf("log.rotate must be hourly or daily, got %q", c.Log.Rotate)
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		return errors.New("smtp.from is required when smtp.host is set")
	}
	return nil
}

// BookingWindows is the lifecycle timing handed to booking.Runner.
func (c Config) BookingWindows() booking.Windows {
	return booking.Windows{
		Confirmation: c.Windows.Confirmation,
		Handoff:      c.Windows.Handoff,
		Payment:      c.Windows.Payment,
		Tick:         c.Windows.Tick,
	}
}

// Gateways builds the host, payment and notification gateways.
func (c Config) Gateways(log *logrus.Logger) booking.Gateways {
	gw := booking.Gateways{
		Host:     &booking.RetryingHost{Next: booking.NewSimulatedHost(c.Windows.HostResponse)},
		Payments: booking.NewBreakerPayments(booking.SimulatedPayments{Delay: 300 * time.Millisecond}, log),
		Notifier: booking.LogNotifier{Log: log},
	}
	if c.SMTP.Enabled() {
		gw.Notifier = booking.NewMailNotifier(c.SMTP.Host, c.SMTP.Port, c.SMTP.Username, c.SMTP.Password, c.SMTP.From, log)
	}
	return gw
}

// AuditPath is audit.path or the default under the cache dir.
func (c Config) AuditPath() (string, error) {
	if c.Audit.Path != "" {
		return c.Audit.Path, nil
	}
	return store.DefaultAuditPath()
}
