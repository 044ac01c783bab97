package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxTopologyIDLen = 256
	maxNodeIDLen     = 128
)

// ValidateTopologyID checks an identifier used to key saved layouts.
// Any printable text is accepted; blank ids and control characters are not.
func ValidateTopologyID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return New(ErrCodeInvalidTopology, "topology id cannot be empty")
	case len(id) > maxTopologyIDLen:
		return New(ErrCodeInvalidTopology, "topology id too long (max %d characters)", maxTopologyIDLen)
	case strings.ContainsFunc(id, unicode.IsControl):
		return New(ErrCodeInvalidTopology, "topology id contains control characters")
	}
	return nil
}

// nodeIDPattern admits IPv4 and IPv6 addresses (with zone or prefix length)
// and plain device names.
var nodeIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:%/-]*$`)

// ValidateNodeID checks a node id arriving over HTTP or from flags.
func ValidateNodeID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidNode, "node id cannot be empty")
	case len(id) > maxNodeIDLen:
		return New(ErrCodeInvalidNode, "node id too long (max %d characters)", maxNodeIDLen)
	case !nodeIDPattern.MatchString(id):
		return New(ErrCodeInvalidNode, "invalid node id: %q", id)
	}
	return nil
}
