package viewport

import "testing"

func TestClamp(t *testing.T) {
	v := Viewport{Width: 2000, Height: 750, NodeDiameter: 48}

	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"inside", 500, 300, 500, 300},
		{"top left", 10, 10, 24, 24},
		{"bottom right", 5000, 5000, 1976, 726},
		{"negative", -100, 400, 24, 400},
		{"on bound", 24, 726, 24, 726},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := v.Clamp(tt.x, tt.y)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Clamp(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestContains(t *testing.T) {
	v := Viewport{Width: 100, Height: 100, NodeDiameter: 20}
	if !v.Contains(50, 50) {
		t.Error("Contains(50, 50) = false, want true")
	}
	if v.Contains(5, 50) {
		t.Error("Contains(5, 50) = true, want false")
	}
	if cx, cy := v.Center(); cx != 50 || cy != 50 {
		t.Errorf("Center() = (%v, %v), want (50, 50)", cx, cy)
	}
}
