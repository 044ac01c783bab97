package topology

import "strings"

// Status is the resolved reachability of a node.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusOnline
	StatusOffline
)

// ParseStatus maps an upstream status code to a Status.
// Unrecognized or empty codes resolve to StatusUnknown.
func ParseStatus(code string) Status {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "online":
		return StatusOnline
	case "offline":
		return StatusOffline
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// KindClass distinguishes routers from typed hosts.
type KindClass uint8

const (
	KindUnknown KindClass = iota
	KindRouter
	KindHost
)

// Kind is the resolved type of a node. Code is only set for KindHost.
type Kind struct {
	Class KindClass
	Code  string
}

// RouterKind is the kind of every network device.
func RouterKind() Kind { return Kind{Class: KindRouter} }

// HostKind returns the kind of a host with the given type code.
// An empty code resolves to the unknown kind.
func HostKind(code string) Kind {
	code = strings.TrimSpace(code)
	if code == "" {
		return Kind{}
	}
	return Kind{Class: KindHost, Code: code}
}

// Icon returns the icon name renderers use for the kind.
func (k Kind) Icon() string {
	switch k.Class {
	case KindRouter:
		return "router"
	case KindHost:
		return k.Code
	default:
		return "unknown"
	}
}

func (k Kind) String() string { return k.Icon() }

// LinkCode is the resolved state of a link.
type LinkCode uint8

const (
	LinkUnknown LinkCode = iota
	LinkOnline
	LinkOffline
	LinkNetwork
)

// ParseLinkCode maps an upstream link status code to a LinkCode.
func ParseLinkCode(code string) LinkCode {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "online":
		return LinkOnline
	case "offline":
		return LinkOffline
	case "network":
		return LinkNetwork
	default:
		return LinkUnknown
	}
}

func (c LinkCode) String() string {
	switch c {
	case LinkOnline:
		return "online"
	case LinkOffline:
		return "offline"
	case LinkNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// LinkStatus pairs a link state with its display name.
type LinkStatus struct {
	Code LinkCode
	Name string
}

// Position is the drawing role of a link within its endpoint pair.
type Position uint8

const (
	PositionSingle Position = iota
	PositionPrimary
	PositionSecondary
)

func (p Position) String() string {
	switch p {
	case PositionPrimary:
		return "primary"
	case PositionSecondary:
		return "secondary"
	default:
		return "single"
	}
}
