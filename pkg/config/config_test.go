package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/layout"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Viewport.ViewBoxWidth != layout.DefaultViewBoxWidth {
		t.Errorf("ViewBoxWidth = %v, want %v", c.Viewport.ViewBoxWidth, layout.DefaultViewBoxWidth)
	}
	if c.Simulation.FPS != DefaultFPS {
		t.Errorf("FPS = %d, want %d", c.Simulation.FPS, DefaultFPS)
	}
	if want := "sqlite:///tmp/data/topolayout/layouts.db"; c.Store.URL != want {
		t.Errorf("Store.URL = %q, want %q", c.Store.URL, want)
	}
	if c.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", c.Server.Addr, DefaultAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
[viewport]
view_box_width = 1000
node_diameter = 32

[simulation]
seed = 7
fps = 60

[store]
url = "memory:"
prefix = "lab:"

[server]
addr = "127.0.0.1:9000"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Viewport.ViewBoxWidth != 1000 || c.Viewport.NodeDiameter != 32 {
		t.Errorf("Viewport = %+v", c.Viewport)
	}
	if c.Viewport.ViewBoxHeight != layout.DefaultViewBoxHeight {
		t.Errorf("ViewBoxHeight = %v, want default", c.Viewport.ViewBoxHeight)
	}
	if c.Simulation.Seed != 7 || c.Simulation.FPS != 60 || c.Simulation.MaxTicks != layout.DefaultMaxTicks {
		t.Errorf("Simulation = %+v", c.Simulation)
	}
	if c.Store.URL != "memory:" || c.Store.Prefix != "lab:" {
		t.Errorf("Store = %+v", c.Store)
	}
	if c.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", c.Server.Addr)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[viewport\nwidth = 1"},
		{"unknown key", "[viewport]\nwidht = 10"},
		{"bad scheme", "[store]\nurl = \"ftp://host\""},
		{"fps", "[simulation]\nfps = 1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	c := Default()
	c.Viewport.Width = 1000
	lc := c.Layout("office")
	if lc.TopologyID != "office" {
		t.Errorf("TopologyID = %q, want office", lc.TopologyID)
	}
	if lc.Height != 375 {
		t.Errorf("Height = %v, want 375", lc.Height)
	}
	if err := lc.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	c := Default()
	c.Store.URL = "redis://localhost:6379/0"
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[simulation]") {
		t.Errorf("encoded config missing [simulation] table:\n%s", buf.String())
	}
	got, err := Load(writeFile(t, buf.String()))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != c {
		t.Errorf("Load(Write(c)) = %+v, want %+v", got, c)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/cfg", AppName, "config.toml"); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}

	t.Setenv("XDG_DATA_HOME", "")
	dir, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".local", "share", AppName); dir != want {
		t.Errorf("DataDir() = %q, want %q", dir, want)
	}
}
