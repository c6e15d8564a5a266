// internal/console/config/config.go
// Package config loads the console's settings from BIZCONSOLE_* environment
// variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// PageSizes are the list sizes the server accepts.
var PageSizes = []int{10, 25, 50, 100}

type Config struct {
	ServerURL string        `env:"BIZCONSOLE_SERVER_URL" envDefault:"http://localhost:8080"`
	Username  string        `env:"BIZCONSOLE_USERNAME"`
	Password  string        `env:"BIZCONSOLE_PASSWORD"`
	DarkMode  bool          `env:"BIZCONSOLE_DARK_MODE" envDefault:"true"`
	PageSize  int           `env:"BIZCONSOLE_PAGE_SIZE" envDefault:"10"`
	Timeout   time.Duration `env:"BIZCONSOLE_TIMEOUT" envDefault:"15s"`
	LogFile   string        `env:"BIZCONSOLE_LOG_FILE"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if !validPageSize(c.PageSize) {
		c.PageSize = PageSizes[0]
	}
	if c.Timeout <= 0 {
		return Config{}, fmt.Errorf("BIZCONSOLE_TIMEOUT must be positive")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("BIZCONSOLE_SERVER_URL %q is not an http(s) URL", c.ServerURL)
	}
	return c, nil
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// Logger writes JSON logs to LogFile. The terminal belongs to the UI, so
// with no LogFile nothing is logged.
func (c Config) Logger() (*zap.Logger, error) {
	if c.LogFile == "" {
		return zap.NewNop(), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	f.Close()

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{c.LogFile}
	zc.ErrorOutputPaths = []string{c.LogFile}
	return zc.Build()
}
