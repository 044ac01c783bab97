// Package route classifies topology links and computes the path geometry
// drawn for them on every frame.
//
// # Classification
//
// Links joining the same unordered pair of nodes form a parallel group.
// [Classify] tags a lone link [topology.PositionSingle]; in a larger group
// the first link in collection order is primary and every other link is
// secondary. Each link also receives a lane, a signed multiple of [Offset]
// that fans the group out symmetrically around the straight line:
//
//	n = 2: +1, -1
//	n = 3: +2,  0, -2
//
// Lanes are measured along the perpendicular of the link's own direction,
// so a pair of opposite links with lanes +1/-1 relative to the first link's
// frame ends up with the same sign in their own frames and still separates.
//
// # Geometry
//
// [Route] returns a three-point [Path]: both endpoints shifted by the lane
// offset, plus the midpoint between them that anchors the direction marker.
package route

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// Offset is the distance between neighbouring lanes of a parallel group.
const Offset = 10.0

// Path is the routed geometry of one link.
type Path struct {
	Start r2.Vec
	Mid   r2.Vec
	End   r2.Vec
}

// String formats the path as SVG path data: "M x1,y1 L mx,my L x2,y2".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, p.Start)
	b.WriteString(" L ")
	writePoint(&b, p.Mid)
	b.WriteString(" L ")
	writePoint(&b, p.End)
	return b.String()
}

func writePoint(b *strings.Builder, v r2.Vec) {
	b.WriteString(strconv.FormatFloat(v.X, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(v.Y, 'f', -1, 64))
}

// Route computes the path of a bound link from its endpoints' current
// positions. It reports false if the link has not been bound to nodes.
func Route(l *topology.Link) (Path, bool) {
	if l.Source == nil || l.Target == nil {
		return Path{}, false
	}
	src := r2.Vec{X: l.Source.X, Y: l.Source.Y}
	dst := r2.Vec{X: l.Target.X, Y: l.Target.Y}
	return Between(src, dst, l.Lane), true
}

// Between routes a segment from src to dst on the given lane.
// Coincident endpoints are never offset.
func Between(src, dst r2.Vec, lane int) Path {
	shift := LaneOffset(src, dst, lane)
	start := r2.Add(src, shift)
	end := r2.Add(dst, shift)
	return Path{
		Start: start,
		Mid:   r2.Scale(0.5, r2.Add(start, end)),
		End:   end,
	}
}

// LaneOffset returns the vector both endpoints are shifted by: the unit
// perpendicular of src→dst rotated +90°, scaled by lane·Offset.
func LaneOffset(src, dst r2.Vec, lane int) r2.Vec {
	if lane == 0 {
		return r2.Vec{}
	}
	d := r2.Sub(dst, src)
	l := r2.Norm(d)
	if l == 0 {
		return r2.Vec{}
	}
	perp := r2.Vec{X: -d.Y, Y: d.X}
	return r2.Scale(float64(lane)*Offset/l, perp)
}
