package errors

import (
	"strings"
	"testing"
)

func TestValidateTopologyID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "site-a", false},
		{"valid uuid", "8f14e45f-ceea-467f-a0e6-1d2b3c4d5e6f", false},
		{"valid with spaces", "Main office", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopologyID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTopologyID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTopology) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTopology)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"ipv4", "10.0.0.1", false},
		{"ipv6", "fe80::1", false},
		{"ipv6 zone", "fe80::1%eth0", false},
		{"cidr", "10.0.0.0/24", false},
		{"device name", "core-switch_01", false},

		{"empty", "", true},
		{"leading dot", ".hidden", true},
		{"space", "10.0.0.1 ", true},
		{"too long", strings.Repeat("a", 200), true},
		{"quote", `a"b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
