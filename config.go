package relaycontrol

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config describes how to reach a board. It is usually filled from the
// environment and .env files by LoadConfig.
type Config struct {
	Host           string
	Port           int
	ConnectTimeout time.Duration
	RelayDelay     time.Duration
	ReadTimeout    time.Duration
	DrainWindow    time.Duration
	LogLevel       string
}

func DefaultConfig() Config {
	return Config{
		Host:        "192.168.178.1",
		Port:        3000,
		DrainWindow: DefaultDrainWindow,
		LogLevel:    "info",
	}
}

// LoadConfig reads the RELAY_* variables. Values from the process
// environment win over the given .env files, and earlier files win over
// later ones. Files that do not exist are skipped.
func LoadConfig(files ...string) (Config, error) {
	values := map[string]string{}
	for _, file := range files {
		env, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", file, err)
		}
		for k, v := range env {
			if _, exists := values[k]; !exists {
				values[k] = v
			}
		}
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return values[key]
	}

	cfg := DefaultConfig()
	if v := lookup("RELAY_HOST"); v != "" {
		cfg.Host = v
	}
	if v := lookup("RELAY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("RELAY_PORT: invalid port %q", v)
		}
		cfg.Port = port
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RELAY_TIMEOUT", &cfg.ConnectTimeout},
		{"RELAY_DELAY", &cfg.RelayDelay},
		{"RELAY_READ_TIMEOUT", &cfg.ReadTimeout},
		{"RELAY_DRAIN_WINDOW", &cfg.DrainWindow},
	}
	for _, d := range durations {
		v := lookup(d.key)
		if v == "" {
			continue
		}
		parsed, err := ParseMillis(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.key, err)
		}
		if d.dst == &cfg.DrainWindow && parsed == 0 {
			return Config{}, fmt.Errorf("%s: drain window must be positive", d.key)
		}
		*d.dst = parsed
	}
	if v := lookup("RELAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, fmt.Errorf("RELAY_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// ParseMillis accepts a bare number of milliseconds or a Go duration
// such as "250ms" or "2s".
func ParseMillis(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative duration %q", v)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", v)
	}
	return d, nil
}

func (c Config) Level() (log.Level, error) {
	return log.ParseLevel(c.LogLevel)
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) Options() []Option {
	return []Option{
		WithRelayDelay(c.RelayDelay),
		WithReadTimeout(c.ReadTimeout),
		WithDrainWindow(c.DrainWindow),
	}
}

// NewBoard returns an unconnected Board for the configured address. Extra
// options are applied after the configured ones.
func (c Config) NewBoard(opts ...Option) *Board {
	return NewBoard(c.Host, c.Port, append(c.Options(), opts...)...)
}
