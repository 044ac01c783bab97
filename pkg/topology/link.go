package topology

// Link is an edge of the topology graph.
//
// SourceID and TargetID are always set. Source and Target are bound by the
// simulation's link force and point at the graph's own node objects.
type Link struct {
	ID       string
	SourceID string
	TargetID string

	Source *Node
	Target *Node

	Status LinkStatus

	// Position and Lane are derived from the link set by the router.
	// Lane is a signed multiple of the parallel offset, measured along the
	// perpendicular of this link's own source→target direction.
	Position Position
	Lane     int
	Lanes    int

	// Path is the geometry produced for the last frame.
	Path string
}

// Connects reports whether the link joins a and b in either direction.
func (l *Link) Connects(a, b string) bool {
	return (l.SourceID == a && l.TargetID == b) || (l.SourceID == b && l.TargetID == a)
}

// Touches reports whether id is one of the link's endpoints.
func (l *Link) Touches(id string) bool {
	return l.SourceID == id || l.TargetID == id
}

// Bind resolves the endpoint pointers through lookup.
// It reports false if either endpoint is unknown.
func (l *Link) Bind(lookup func(id string) *Node) bool {
	s, t := lookup(l.SourceID), lookup(l.TargetID)
	if s == nil || t == nil {
		return false
	}
	l.Source, l.Target = s, t
	return true
}
