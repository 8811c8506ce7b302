package tileview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.TileSize != DefaultTileSize {
		t.Errorf("TileSize = %d, want %d", c.TileSize, DefaultTileSize)
	}
	if c.SnapDuration != 500*time.Millisecond || c.WheelZoomDuration != 750*time.Millisecond {
		t.Errorf("durations = %v, %v", c.SnapDuration, c.WheelZoomDuration)
	}
	if c.ShaderURL != "" {
		t.Errorf("ShaderURL = %q, want embedded shader", c.ShaderURL)
	}
}

func TestParseConfigYAML(t *testing.T) {
	data := []byte(`
tile_size: 512
clear_color: [0, 0, 0.5]
image_url: https://example.com/big.png
fade_in_ms: 300
fade_easing: inOutSine
show_stats: true
`)
	c, err := ParseConfig(data, ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	if c.TileSize != 512 {
		t.Errorf("TileSize = %d, want 512", c.TileSize)
	}
	if c.ClearColor != (Color{R: 0, G: 0, B: 0.5, A: 1}) {
		t.Errorf("ClearColor = %v", c.ClearColor)
	}
	if c.ImageURL != "https://example.com/big.png" {
		t.Errorf("ImageURL = %q", c.ImageURL)
	}
	if c.FadeInDuration != 300*time.Millisecond || c.FadeEasing != "inOutSine" || !c.ShowStats {
		t.Errorf("fade = %v %q, stats = %v", c.FadeInDuration, c.FadeEasing, c.ShowStats)
	}

	// Keys missing from the file keep their defaults.
	def := DefaultConfig()
	if c.SnapDuration != def.SnapDuration || c.Overshoot != def.Overshoot || c.ScreenshotDir != def.ScreenshotDir {
		t.Errorf("defaults lost: snap %v overshoot %g dir %q", c.SnapDuration, c.Overshoot, c.ScreenshotDir)
	}
}

func TestParseConfigTOML(t *testing.T) {
	data := []byte(`
tile_size = 2048
snap_ms = 200
wheel_zoom_ms = 100
overshoot = 0.1
screenshot_dir = "out"
`)
	c, err := ParseConfig(data, ".TOML")
	if err != nil {
		t.Fatal(err)
	}
	if c.TileSize != 2048 || c.SnapDuration != 200*time.Millisecond || c.WheelZoomDuration != 100*time.Millisecond {
		t.Errorf("config = %+v", c)
	}
	if c.Overshoot != 0.1 || c.ScreenshotDir != "out" {
		t.Errorf("overshoot %g dir %q", c.Overshoot, c.ScreenshotDir)
	}
	if c.ClearColor != DefaultConfig().ClearColor {
		t.Errorf("ClearColor = %v, want default", c.ClearColor)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"unsupported format", `{}`, ".json"},
		{"bad yaml", "tile_size: [", ".yaml"},
		{"bad toml", "tile_size = ", ".toml"},
		{"short clear color", "clear_color: [1, 1]", ".yml"},
		{"unknown easing", "fade_easing: wobble", ".yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), tt.ext)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	if err := os.WriteFile(path, []byte("tile_size: 256\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.TileSize != 256 {
		t.Errorf("TileSize = %d, want 256", c.TileSize)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		size, max, want int
	}{
		{1024, 4096, 1024},
		{1000, 4096, 512},
		{8192, 4096, 4096},
		{100, 4096, MinTileSize},
		{0, 4096, DefaultTileSize},
	}
	for _, tt := range tests {
		c := Config{TileSize: tt.size}
		c.normalize(tt.max)
		if c.TileSize != tt.want {
			t.Errorf("normalize(%d, max %d) = %d, want %d", tt.size, tt.max, c.TileSize, tt.want)
		}
	}
}
