// Package config loads the optional pinmap configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/schodet/pinmap/pkg/pinout"
)

const (
	// EnvVar names the environment variable holding the config file path.
	EnvVar = "PINMAP_CONFIG"
	// LocalFile is looked up in the working directory when no path is given.
	LocalFile = ".pinmap.yaml"
)

// Config holds the settings shared by the pinmap commands. Command-line
// flags override file values.
type Config struct {
	Database string   `yaml:"database"` // CubeMX database directory
	Exclude  []string `yaml:"exclude"`  // peripherals dropped from tables
	Rules    string   `yaml:"rules"`    // filter rules file, relative to the config file; empty for the built-in rules
	Format   string   `yaml:"format"`   // csv, ssv or tsv
	Header   *bool    `yaml:"header"`   // write the header row (default: true)
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Database: "db",
		Format:   string(pinout.FormatCSV),
	}
}

// Locate returns the config file to load: explicit if set, then the
// PINMAP_CONFIG environment variable, then LocalFile if it exists. An
// empty result means no file.
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	if _, err := os.Stat(LocalFile); err == nil {
		return LocalFile
	}
	return ""
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s does not exist", path)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Rules != "" && !filepath.IsAbs(cfg.Rules) {
		cfg.Rules = filepath.Join(filepath.Dir(path), cfg.Rules)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Database == "" {
		err = multierr.Append(err, errors.New("database: must not be empty"))
	}
	if _, ferr := pinout.ParseFormat(c.Format); ferr != nil {
		err = multierr.Append(err, fmt.Errorf("format: %w", ferr))
	}
	for _, pattern := range c.Exclude {
		if _, xerr := pinout.CompileExclude(pattern); xerr != nil {
			err = multierr.Append(err, fmt.Errorf("exclude: %w", xerr))
		}
	}
	return err
}

// HeaderEnabled reports whether tables get a header row.
func (c *Config) HeaderEnabled() bool {
	return c.Header == nil || *c.Header
}
