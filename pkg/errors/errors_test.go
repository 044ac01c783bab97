package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "plain",
			err:  New(ErrCodeNodeNotFound, "no node %q", "10.0.0.9"),
			want: `NODE_NOT_FOUND: no node "10.0.0.9"`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeStoreUnavailable, errors.New("connection refused"), "connect %s", "redis://cache:6379"),
			want: "STORE_UNAVAILABLE: connect redis://cache:6379: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("read savedTopologies: %w", errors.ErrUnsupported)
	err := Wrap(ErrCodeStoreCorrupt, cause, "decode saved layouts")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Error("errors.Is() does not reach the root cause")
	}
}

func TestCodeLookup(t *testing.T) {
	payload := New(ErrCodeInvalidPayload, "ips[2]: missing discovered_ip")
	wrapped := fmt.Errorf("load office.json: %w", payload)
	nested := Wrap(ErrCodeNetwork, New(ErrCodeTimeout, "dial"), "ping mongo")

	tests := []struct {
		name     string
		err      error
		code     Code
		wantIs   bool
		wantCode Code
	}{
		{"direct", payload, ErrCodeInvalidPayload, true, ErrCodeInvalidPayload},
		{"through fmt wrap", wrapped, ErrCodeInvalidPayload, true, ErrCodeInvalidPayload},
		{"outermost code wins", nested, ErrCodeTimeout, false, ErrCodeNetwork},
		{"plain error", errors.New("boom"), ErrCodeInternal, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.wantIs {
				t.Errorf("Is(%v) = %v, want %v", tt.code, got, tt.wantIs)
			}
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeViewNotFound, "view %s is closed", "v1"), "view v1 is closed"},
		{fmt.Errorf("settle: %w", New(ErrCodeInvalidFormat, "unknown format: bmp")), "unknown format: bmp"},
		{errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid payload", New(ErrCodeInvalidPayload, "bad"), 400},
		{"invalid node", New(ErrCodeInvalidNode, "bad"), 400},
		{"link not found", New(ErrCodeLinkNotFound, "gone"), 404},
		{"view not found", New(ErrCodeViewNotFound, "gone"), 404},
		{"store down", Wrap(ErrCodeStoreUnavailable, errors.New("dial"), "connect"), 503},
		{"timeout", New(ErrCodeTimeout, "slow"), 504},
		{"unsupported", New(ErrCodeUnsupported, "no"), 501},
		{"plain error", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
