package topology

import (
	"strings"

	"github.com/google/uuid"
)

// Ingest converts a payload into live node and link collections.
//
// Nodes are deduplicated by trimmed IP, keeping the first occurrence; records
// with an empty IP are skipped. A link is kept only if both of its endpoints
// are present in the resulting node set. Links without an id get a random one.
func Ingest(p *Payload) ([]*Node, []*Link) {
	if p == nil {
		return nil, nil
	}

	seen := make(map[string]bool, len(p.IPs))
	nodes := make([]*Node, 0, len(p.IPs))
	for _, rec := range p.IPs {
		id := strings.TrimSpace(rec.DiscoveredIP)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		nodes = append(nodes, NodeFromRecord(rec))
	}

	links := make([]*Link, 0, len(p.Links))
	for _, rec := range p.Links {
		l := LinkFromRecord(rec)
		if !seen[l.SourceID] || !seen[l.TargetID] {
			continue
		}
		links = append(links, l)
	}
	return nodes, links
}

// LinkFromRecord builds an unbound link from a link record.
func LinkFromRecord(rec LinkRecord) *Link {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return &Link{
		ID:       id,
		SourceID: strings.TrimSpace(rec.FromIP),
		TargetID: strings.TrimSpace(rec.ToIP),
		Status:   StatusFromRecord(rec.Status),
	}
}
