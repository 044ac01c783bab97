// Package config loads topolayout settings from a TOML file.
//
// The file is optional. Missing files and missing keys fall back to the
// defaults below, and command-line flags override whatever the file sets.
//
// # Locations
//
// The config file lives at $XDG_CONFIG_HOME/topolayout/config.toml
// (~/.config/topolayout/config.toml). Saved layouts default to a SQLite
// database under $XDG_DATA_HOME/topolayout (~/.local/share/topolayout).
//
// # Example
//
//	[viewport]
//	view_box_width = 2000
//	view_box_height = 750
//	node_diameter = 48
//
//	[simulation]
//	seed = 42
//	max_ticks = 1000
//	fps = 30
//
//	[store]
//	url = "redis://localhost:6379/0"
//	prefix = "topolayout:"
//
//	[server]
//	addr = ":8080"
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout"
)

// AppName names the per-user config and data directories.
const AppName = "topolayout"

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFPS is the frame rate of interactive views.
	DefaultFPS = 30

	// DefaultAddr is the listen address of the service.
	DefaultAddr = ":8080"

	// DefaultMaxViews bounds the number of live views the service keeps.
	DefaultMaxViews = 64

	// DefaultStoreFile is the SQLite database name inside the data directory.
	DefaultStoreFile = "layouts.db"
)

// =============================================================================
// Config
// =============================================================================

// Config is the full set of settings.
type Config struct {
	Viewport   Viewport   `toml:"viewport"`
	Simulation Simulation `toml:"simulation"`
	Store      Store      `toml:"store"`
	Server     Server     `toml:"server"`
}

// Viewport sizes the drawing surface and its internal coordinate space.
type Viewport struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	ViewBoxWidth  float64 `toml:"view_box_width"`
	ViewBoxHeight float64 `toml:"view_box_height"`
	NodeDiameter  float64 `toml:"node_diameter"`
}

// Simulation tunes the force engine runner.
type Simulation struct {
	Seed     uint64 `toml:"seed"`
	MaxTicks int    `toml:"max_ticks"`
	FPS      int    `toml:"fps"`
}

// Store selects the saved-layout backend. URL is any form accepted by
// [kv.Open]; Prefix namespaces keys on shared backends.
type Store struct {
	URL    string `toml:"url"`
	Prefix string `toml:"prefix"`
}

// Server configures the HTTP service.
type Server struct {
	Addr     string `toml:"addr"`
	MaxViews int    `toml:"max_views"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	c := Config{}
	c.Normalize()
	return c
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.Viewport.ViewBoxWidth <= 0 {
		c.Viewport.ViewBoxWidth = layout.DefaultViewBoxWidth
	}
	if c.Viewport.ViewBoxHeight <= 0 {
		c.Viewport.ViewBoxHeight = layout.DefaultViewBoxHeight
	}
	if c.Viewport.NodeDiameter <= 0 {
		c.Viewport.NodeDiameter = layout.DefaultNodeDiameter
	}
	if c.Simulation.Seed == 0 {
		c.Simulation.Seed = layout.DefaultSeed
	}
	if c.Simulation.MaxTicks <= 0 {
		c.Simulation.MaxTicks = layout.DefaultMaxTicks
	}
	if c.Simulation.FPS <= 0 {
		c.Simulation.FPS = DefaultFPS
	}
	if c.Store.URL == "" {
		c.Store.URL = DefaultStoreURL()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxViews <= 0 {
		c.Server.MaxViews = DefaultMaxViews
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	scheme, _ := kv.SplitURL(c.Store.URL)
	switch scheme {
	case kv.SchemeMemory, kv.SchemeNull, kv.SchemeFile, kv.SchemeSQLite,
		kv.SchemeRedis, kv.SchemeRedisS, kv.SchemeMongo, kv.SchemeMongoS:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.url: unsupported scheme %q", scheme)
	}
	if c.Simulation.FPS > 240 {
		return errors.New(errors.ErrCodeInvalidConfig, "simulation.fps: %d is above 240", c.Simulation.FPS)
	}
	return nil
}

// Layout returns the per-view engine config for topologyID.
func (c *Config) Layout(topologyID string) layout.Config {
	lc := layout.Config{
		TopologyID:    topologyID,
		Width:         c.Viewport.Width,
		Height:        c.Viewport.Height,
		ViewBoxWidth:  c.Viewport.ViewBoxWidth,
		ViewBoxHeight: c.Viewport.ViewBoxHeight,
		NodeDiameter:  c.Viewport.NodeDiameter,
		Seed:          c.Simulation.Seed,
		MaxTicks:      c.Simulation.MaxTicks,
	}
	lc.Normalize()
	return lc
}

// =============================================================================
// Loading
// =============================================================================

// Load reads path and applies defaults. A missing file yields [Default].
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(names, ", "))
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadDefault reads the config file from [Path].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using the XDG standard.
func Dir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the data directory using the XDG standard.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultStoreURL is a SQLite database in the data directory, or an
// in-memory store when no home directory is known.
func DefaultStoreURL() string {
	dir, err := DataDir()
	if err != nil {
		return kv.SchemeMemory + ":"
	}
	return kv.SchemeSQLite + "://" + filepath.ToSlash(filepath.Join(dir, DefaultStoreFile))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
