// Package viewport describes the coordinate space a topology is laid out in.
package viewport

// Viewport is a snapshot of the internal coordinate space and node size.
// It is passed by value to every per-frame and per-gesture operation.
type Viewport struct {
	Width        float64 // view box width
	Height       float64 // view box height
	NodeDiameter float64
}

// Radius is the minimum distance between a node center and any edge.
func (v Viewport) Radius() float64 { return v.NodeDiameter / 2 }

// Center returns the middle of the view box.
func (v Viewport) Center() (x, y float64) { return v.Width / 2, v.Height / 2 }

// Clamp restricts (x, y) to [r, Width-r] × [r, Height-r] with r = Radius().
func (v Viewport) Clamp(x, y float64) (float64, float64) {
	r := v.Radius()
	return clamp(x, r, v.Width-r), clamp(y, r, v.Height-r)
}

// Contains reports whether (x, y) lies within the clamped bounds.
func (v Viewport) Contains(x, y float64) bool {
	cx, cy := v.Clamp(x, y)
	return cx == x && cy == y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
