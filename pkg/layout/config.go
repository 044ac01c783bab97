package layout

import (
	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/layout/viewport"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultViewBoxWidth is the width of the internal coordinate space.
	DefaultViewBoxWidth = 2000.0

	// DefaultViewBoxHeight is the height of the internal coordinate space.
	DefaultViewBoxHeight = 750.0

	// DefaultNodeDiameter is the drawn size of a node.
	DefaultNodeDiameter = 48.0

	// DefaultMaxTicks bounds Settle.
	DefaultMaxTicks = 1000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// =============================================================================
// Config
// =============================================================================

// Config describes one topology view.
//
// Width and Height are the pixel size of the rendering surface. The internal
// coordinate space is ViewBoxWidth × ViewBoxHeight; Normalize keeps its aspect
// ratio consistent with the surface.
type Config struct {
	TopologyID string `json:"topology_id" toml:"-"`

	Width         float64 `json:"width,omitempty" toml:"width"`
	Height        float64 `json:"height,omitempty" toml:"height"`
	ViewBoxWidth  float64 `json:"view_box_width,omitempty" toml:"view_box_width"`
	ViewBoxHeight float64 `json:"view_box_height,omitempty" toml:"view_box_height"`
	NodeDiameter  float64 `json:"node_diameter,omitempty" toml:"node_diameter"`

	Seed     uint64 `json:"seed,omitempty" toml:"seed"`
	MaxTicks int    `json:"max_ticks,omitempty" toml:"max_ticks"`
}

// Normalize fills defaults and reconciles the surface and view box sizes.
// If Height is set the view box height follows the surface aspect ratio;
// otherwise Height is derived from the view box. A zero Width takes the view
// box width. Normalize is idempotent.
func (c *Config) Normalize() {
	if c.ViewBoxWidth <= 0 {
		c.ViewBoxWidth = DefaultViewBoxWidth
	}
	if c.ViewBoxHeight <= 0 {
		c.ViewBoxHeight = DefaultViewBoxHeight
	}
	if c.NodeDiameter <= 0 {
		c.NodeDiameter = DefaultNodeDiameter
	}
	if c.Width <= 0 {
		c.Width = c.ViewBoxWidth
	}
	if c.Height > 0 {
		c.ViewBoxHeight = c.ViewBoxWidth / (c.Width / c.Height)
	} else {
		c.Height = c.Width / (c.ViewBoxWidth / c.ViewBoxHeight)
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.MaxTicks <= 0 {
		c.MaxTicks = DefaultMaxTicks
	}
}

// Validate checks the topology id and that the view box can hold a node.
func (c *Config) Validate() error {
	if err := errors.ValidateTopologyID(c.TopologyID); err != nil {
		return err
	}
	if c.ViewBoxWidth < c.NodeDiameter || c.ViewBoxHeight < c.NodeDiameter {
		return errors.New(errors.ErrCodeInvalidConfig,
			"view box %gx%g is smaller than a node (%g)", c.ViewBoxWidth, c.ViewBoxHeight, c.NodeDiameter)
	}
	return nil
}

// Viewport returns the coordinate space snapshot passed to ticks and drags.
func (c *Config) Viewport() viewport.Viewport {
	return viewport.Viewport{
		Width:        c.ViewBoxWidth,
		Height:       c.ViewBoxHeight,
		NodeDiameter: c.NodeDiameter,
	}
}
