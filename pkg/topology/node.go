package topology

import "math"

// Host is the inventory record attached to a discovered IP.
type Host struct {
	ID          string
	Name        string
	Description string
	HostIP      string
	TypeCode    string
	TypeName    string
	StatusCode  string
	StatusName  string
	MACAddress  string
	OSInfo      string
	Address     string
}

// Node is a vertex of the topology graph.
//
// X and Y are owned by the simulation unless the node is pinned. A node that
// has never been placed carries NaN coordinates; see [Node.Placed].
type Node struct {
	ID    string
	Index int

	X, Y   float64
	VX, VY float64

	// FX and FY are only meaningful while Fixed is set.
	FX, FY float64
	Fixed  bool

	IsNetworkDevice bool
	Interfaces      []*Node
	Host            *Host

	Kind   Kind
	Status Status
}

// NewNode returns an unplaced node with the given id.
func NewNode(id string) *Node {
	return &Node{ID: id, X: math.NaN(), Y: math.NaN()}
}

// Placed reports whether the node has a position.
func (n *Node) Placed() bool {
	return !math.IsNaN(n.X) && !math.IsNaN(n.Y)
}

// Pin fixes the node at (x, y).
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = x, y
	n.Fixed = true
}

// Unpin releases the node back to the integrator.
func (n *Node) Unpin() {
	n.FX, n.FY = 0, 0
	n.Fixed = false
}

// HasInterface reports whether id is one of the device's interfaces.
func (n *Node) HasInterface(id string) bool {
	return n.Interface(id) != nil
}

// Interface returns the interface node with the given id, or nil.
func (n *Node) Interface(id string) *Node {
	for _, iface := range n.Interfaces {
		if iface.ID == id {
			return iface
		}
	}
	return nil
}

// AddInterface appends iface unless it is already present or is the device
// itself. It reports whether the interface list changed.
func (n *Node) AddInterface(iface *Node) bool {
	if iface == nil || iface.ID == n.ID || n.HasInterface(iface.ID) {
		return false
	}
	iface.Resolve()
	n.Interfaces = append(n.Interfaces, iface)
	n.Resolve()
	return true
}

// Resolve recomputes Kind and Status from the host record and interfaces.
//
// A device starts online; any offline interface makes it offline, and any
// interface with an unknown or missing status makes it unknown unless it is
// already offline. A plain host takes the status of its host record.
func (n *Node) Resolve() {
	if n.IsNetworkDevice {
		n.Kind = RouterKind()
		n.Status = deviceStatus(n.Interfaces)
		return
	}
	if n.Host == nil {
		n.Kind = Kind{}
		n.Status = StatusUnknown
		return
	}
	n.Kind = HostKind(n.Host.TypeCode)
	n.Status = ParseStatus(n.Host.StatusCode)
}

func deviceStatus(ifaces []*Node) Status {
	status := StatusOnline
	for _, iface := range ifaces {
		s := StatusUnknown
		if iface.Host != nil {
			s = ParseStatus(iface.Host.StatusCode)
		}
		switch s {
		case StatusOffline:
			status = StatusOffline
		case StatusUnknown:
			if status != StatusOffline {
				status = StatusUnknown
			}
		}
	}
	return status
}
