package topology

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topolayout/pkg/errors"
)

// Payload formats accepted by [ReadPayload].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Payload is the discovery feed describing one topology.
type Payload struct {
	IPs   []IPRecord   `json:"ips" yaml:"ips"`
	Links []LinkRecord `json:"links" yaml:"links"`
}

// IPRecord is a discovered address, optionally backed by a host record.
type IPRecord struct {
	DiscoveredIP    string      `json:"discovered_ip" yaml:"discovered_ip"`
	Host            *HostRecord `json:"host,omitempty" yaml:"host,omitempty"`
	IsNetworkDevice bool        `json:"is_network_device,omitempty" yaml:"is_network_device,omitempty"`
	Interfaces      []IPRecord  `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
}

// HostRecord is the inventory entry for a host.
type HostRecord struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	HostIP      string      `json:"host_ip" yaml:"host_ip"`
	HostType    *CodeRecord `json:"host_type,omitempty" yaml:"host_type,omitempty"`
	Status      *CodeRecord `json:"status,omitempty" yaml:"status,omitempty"`
	MACAddress  string      `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	OSInfo      string      `json:"os_info,omitempty" yaml:"os_info,omitempty"`
	Address     string      `json:"address,omitempty" yaml:"address,omitempty"`
}

// CodeRecord is a coded value with a display name.
type CodeRecord struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// LinkRecord is a discovered channel between two addresses.
type LinkRecord struct {
	ID     string      `json:"id" yaml:"id"`
	FromIP string      `json:"from_ip" yaml:"from_ip"`
	ToIP   string      `json:"to_ip" yaml:"to_ip"`
	Status *CodeRecord `json:"status,omitempty" yaml:"status,omitempty"`
}

// ReadPayload decodes a payload from r in the given format.
func ReadPayload(r io.Reader, format string) (*Payload, error) {
	var p Payload
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode json payload")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&p); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode yaml payload")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported payload format: %q", format)
	}
	return &p, nil
}

// ReadPayloadFile reads a payload from path, picking the format from the
// file extension (.yaml/.yml or anything else as JSON).
func ReadPayloadFile(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPayload(f, FormatForPath(path))
}

// FormatForPath returns the payload format implied by a file name.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// NodeFromRecord builds a resolved node from an IP record.
func NodeFromRecord(rec IPRecord) *Node {
	n := NewNode(strings.TrimSpace(rec.DiscoveredIP))
	n.IsNetworkDevice = rec.IsNetworkDevice
	n.Host = HostFromRecord(rec.Host)
	for _, iface := range rec.Interfaces {
		n.AddInterface(NodeFromRecord(iface))
	}
	n.Resolve()
	return n
}

// HostFromRecord converts a host record. A nil record yields nil.
func HostFromRecord(rec *HostRecord) *Host {
	if rec == nil {
		return nil
	}
	h := &Host{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		HostIP:      strings.TrimSpace(rec.HostIP),
		MACAddress:  rec.MACAddress,
		OSInfo:      rec.OSInfo,
		Address:     rec.Address,
	}
	if rec.HostType != nil {
		h.TypeCode, h.TypeName = rec.HostType.Code, rec.HostType.Name
	}
	if rec.Status != nil {
		h.StatusCode, h.StatusName = rec.Status.Code, rec.Status.Name
	}
	return h
}

// StatusFromRecord converts a link status record.
func StatusFromRecord(rec *CodeRecord) LinkStatus {
	if rec == nil {
		return LinkStatus{}
	}
	return LinkStatus{Code: ParseLinkCode(rec.Code), Name: rec.Name}
}
