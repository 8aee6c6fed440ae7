// Package config builds the server configuration from defaults, an optional
// TOML file, flags and positional arguments, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultRoot            = "docs"
	DefaultPort            = 4173
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 5 * time.Second
)

// ErrHelp is returned when -h or -help was requested.
var ErrHelp = flag.ErrHelp

// Config holds everything needed to start the server.
type Config struct {
	Root            string        `toml:"root"`
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	LogLevel        string        `toml:"log_level"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Root:            DefaultRoot,
		Port:            DefaultPort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load parses command-line arguments (without the program name).
//
//	docserve [-config file.toml] [-host h] [-log-level l] [root] [port]
func Load(name string, args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: %s [flags] [root] [port]\n\n", name)
		fmt.Fprintf(output, "Serves files under root (default %q) on port (default %d).\n\n", DefaultRoot, DefaultPort)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Path to a TOML configuration file")
	host := fs.String("host", "", "Host or IP address to bind to (default all interfaces)")
	logLevel := fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, cfg); err != nil {
			return nil, fmt.Errorf("read config %q: %w", *configPath, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	positional := fs.Args()
	if len(positional) > 2 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[2:], " "))
	}
	if len(positional) > 0 {
		cfg.Root = positional[0]
	}
	if len(positional) > 1 {
		cfg.Port = parsePort(positional[1])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate normalizes recoverable values and rejects the rest.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		c.Root = DefaultRoot
	}

	if c.Port <= 0 || c.Port > 65535 {
		c.Port = DefaultPort
	}

	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Addr is the listen address for net/http.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel returns the configured level; Validate guarantees it parses.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// parsePort falls back to the default for anything that is not a usable port.
func parsePort(raw string) int {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port <= 0 || port > 65535 {
		return DefaultPort
	}

	return port
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelInfo, errors.New("invalid log level: " + level)
}
