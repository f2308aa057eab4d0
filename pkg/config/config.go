// Package config provides configuration loading and management for voxelgeom.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"voxelgeom/pkg/geometry"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Geometry describes the initial index-to-world frame
	Geometry struct {
		// Eps is the tolerance used when comparing geometries
		Eps float64 `yaml:"eps"`

		// Origin is the world position of index (0,0,0)
		Origin [3]float64 `yaml:"origin"`

		// Spacing is the physical size of one index step along each axis
		Spacing [3]float64 `yaml:"spacing"`

		// Bounds are the index-space bounds {xmin, xmax, ymin, ymax, zmin, zmax}
		Bounds [6]float64 `yaml:"bounds"`

		// FrameOfReferenceID tags the coordinate frame
		FrameOfReferenceID uint `yaml:"frameOfReferenceID"`
	} `yaml:"geometry"`

	// Output parameters
	Output struct {
		// Verbose enables debug logging and verbose comparisons
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Geometry.Eps = 1e-6
	cfg.Geometry.Spacing = [3]float64{1, 1, 1}
	cfg.Geometry.Bounds = [6]float64{0, 1, 0, 1, 0, 1}

	cfg.Output.Verbose = false

	return cfg
}

// Validate reports settings that would fault when a geometry is built
func (c *Config) Validate() error {
	var errs []error
	if !(c.Geometry.Eps >= 0) {
		errs = append(errs, fmt.Errorf("eps must be non-negative, got %g", c.Geometry.Eps))
	}
	for i, s := range c.Geometry.Spacing {
		if !(s > 0) {
			errs = append(errs, fmt.Errorf("spacing[%d] must be positive, got %g", i, s))
		}
	}
	return errors.Join(errs...)
}

// NewGeometry builds a geometry from the geometry section
func (c *Config) NewGeometry() (*geometry.Geometry, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid geometry config: %w", err)
	}

	g := geometry.New()
	g.SetBounds(c.Geometry.Bounds)
	g.SetSpacing(vec(c.Geometry.Spacing))
	g.SetOrigin(vec(c.Geometry.Origin))
	g.SetFrameOfReferenceID(c.Geometry.FrameOfReferenceID)
	return g, nil
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
