package route

import "github.com/matzehuels/topolayout/pkg/topology"

type pairKey struct{ a, b string }

func keyOf(l *topology.Link) pairKey {
	if l.SourceID <= l.TargetID {
		return pairKey{l.SourceID, l.TargetID}
	}
	return pairKey{l.TargetID, l.SourceID}
}

// Classify derives Position, Lane and Lanes for every link.
// It must run whenever the link set changes.
func Classify(links []*topology.Link) {
	groups := make(map[pairKey][]*topology.Link, len(links))
	for _, l := range links {
		k := keyOf(l)
		groups[k] = append(groups[k], l)
	}

	for _, group := range groups {
		n := len(group)
		ref := group[0]
		for k, l := range group {
			l.Lanes = n
			if n == 1 {
				l.Position = topology.PositionSingle
				l.Lane = 0
				continue
			}
			if k == 0 {
				l.Position = topology.PositionPrimary
			} else {
				l.Position = topology.PositionSecondary
			}
			lane := (n - 1) - 2*k
			if l.SourceID != ref.SourceID {
				lane = -lane
			}
			l.Lane = lane
		}
	}
}

// Group returns the links joining the same unordered pair as l, in
// collection order.
func Group(l *topology.Link, links []*topology.Link) []*topology.Link {
	k := keyOf(l)
	var out []*topology.Link
	for _, other := range links {
		if keyOf(other) == k {
			out = append(out, other)
		}
	}
	return out
}

// IsShort reports whether l should use the short spring distance.
//
// For each endpoint, incident links are counted up to two; the link is short
// if either endpoint has exactly one, i.e. it is a pendant edge.
func IsShort(l *topology.Link, links []*topology.Link) bool {
	var sourceCount, targetCount int
	for _, other := range links {
		if sourceCount < 2 && other.Touches(l.SourceID) {
			sourceCount++
		}
		if targetCount < 2 && other.Touches(l.TargetID) {
			targetCount++
		}
		if sourceCount > 1 && targetCount > 1 {
			break
		}
	}
	return sourceCount == 1 || targetCount == 1
}

// MaxConnections caps ConnectionCount.
const MaxConnections = 5

// ConnectionCount returns the number of links incident to id, capped at
// MaxConnections.
func ConnectionCount(id string, links []*topology.Link) int {
	count := 0
	for _, l := range links {
		if l.Touches(id) {
			count++
		}
		if count == MaxConnections {
			break
		}
	}
	return count
}

// CollisionRadius maps a connection count to the node's collision radius.
func CollisionRadius(count int) float64 {
	switch {
	case count >= MaxConnections:
		return 120
	case count > 1:
		return 80
	default:
		return 50
	}
}

// LinkDistance returns the spring rest length of l.
func LinkDistance(l *topology.Link, links []*topology.Link) float64 {
	if IsShort(l, links) {
		return 50
	}
	return 250
}
