// Package config loads sysline settings from an optional YAML file with
// environment variable overrides. A missing file is not an error; the
// built-in defaults describe a usable status line on their own.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFormat is the status line rendered when neither file nor flags
// provide one.
const DefaultFormat = "cpu {cpu.usage?0}% | mem {mem.percent?0}% | disk {disk.percent?0}%"

// Config holds the user-tunable settings.
type Config struct {
	// Format is the default token template.
	Format string `yaml:"format"`

	// Mount is the mount point the disk domain reports on.
	Mount string `yaml:"mount"`

	// BytePrefix is the unit byte fields render in (KiB/MiB/GiB/TiB).
	BytePrefix string `yaml:"byte_prefix"`

	// Rounding digits per field class.
	UsageRound   int `yaml:"usage_round"`
	TempRound    int `yaml:"temp_round"`
	PercentRound int `yaml:"percent_round"`
	BytesRound   int `yaml:"bytes_round"`

	// Color enables per-domain colored values.
	Color bool `yaml:"color"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Format:       DefaultFormat,
		Mount:        "/",
		BytePrefix:   "MiB",
		UsageRound:   2,
		TempRound:    1,
		PercentRound: 2,
		BytesRound:   0,
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sysline", "sysline.yaml")
}

// Load reads path over the defaults, then applies environment overrides.
// An empty or nonexistent path yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults stand.
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadEnvFile loads a .env file into the process environment when one
// exists in the working directory. Call before Load so the overrides are
// visible.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// applyEnv folds SYSLINE_* environment variables over the current values.
func (c *Config) applyEnv() {
	if v := os.Getenv("SYSLINE_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("SYSLINE_MOUNT"); v != "" {
		c.Mount = v
	}
	if v := os.Getenv("SYSLINE_PREFIX"); v != "" {
		c.BytePrefix = v
	}
	if v := os.Getenv("SYSLINE_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Color = b
		}
	}
}
