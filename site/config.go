// Package site holds the shared configuration for the walkthrough
// commands: where figures go, how large they are, and which seed the
// synthetic datasets use.
package site

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/plot/vg"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// Config is the top-level configuration, loadable from a TOML file.
type Config struct {
	// OutputDir is where figure files are written.
	OutputDir string `toml:"output_dir"`
	// Format is the figure file extension: png or svg.
	Format string `toml:"format"`
	// FigureWidth and FigureHeight are in centimeters.
	FigureWidth  float64 `toml:"figure_width"`
	FigureHeight float64 `toml:"figure_height"`
	// Seed drives every synthetic dataset and randomized model.
	Seed int64 `toml:"seed"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		OutputDir:    "figures",
		Format:       "png",
		FigureWidth:  14,
		FigureHeight: 10,
		Seed:         42,
		LogLevel:     "info",
	}
}

// LoadConfig reads path as TOML over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "site: load config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that would otherwise fail deep inside a
// figure write.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.NewValueError("site.Validate", "output_dir must not be empty")
	}
	switch c.Format {
	case "png", "svg":
	default:
		return errors.NewValueError("site.Validate", "format must be png or svg, got "+c.Format)
	}
	if c.FigureWidth <= 0 || c.FigureHeight <= 0 {
		return errors.NewValueError("site.Validate", "figure dimensions must be positive")
	}
	return nil
}

// FigureSize returns the configured figure dimensions as vg lengths.
func (c Config) FigureSize() (width, height vg.Length) {
	return vg.Length(c.FigureWidth) * vg.Centimeter, vg.Length(c.FigureHeight) * vg.Centimeter
}

// FigurePath joins the output directory with name and the configured
// extension, creating the directory if needed.
func (c Config) FigurePath(name string) (string, error) {
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "site: create output dir %s", c.OutputDir)
	}
	return filepath.Join(c.OutputDir, name+"."+c.Format), nil
}
