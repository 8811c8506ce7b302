package tileview

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the viewer settings. Start from DefaultConfig.
type Config struct {
	// TileSize is the tile edge in pixels. It is rounded down to a power of
	// two and clamped to [MinTileSize, backend max texture size].
	TileSize int
	// ClearColor fills the view behind the image. Alpha is ignored.
	ClearColor Color
	// ShaderURL locates the Kage program. Empty uses DefaultShader.
	ShaderURL string
	// ImageURL, when set, is loaded together with the shader during
	// initialization and shown as soon as the viewer is ready.
	ImageURL string

	// FadeInDuration is the Alpha fade for a newly set image.
	FadeInDuration time.Duration
	// FadeEasing names a gween easing for the fade (see EasingByName).
	// Empty uses EaseOutQuart.
	FadeEasing string
	// SnapDuration is used by snap-into-view after drags and gestures.
	SnapDuration time.Duration
	// WheelZoomDuration is used by wheel zoom.
	WheelZoomDuration time.Duration
	// Overshoot scales the bounce of a fling that ends out of bounds. Zero
	// disables the overshoot; the image still eases back into bounds.
	Overshoot float64

	// ShowStats draws the scale/rotation overlay.
	ShowStats bool
	// ScreenshotDir receives screenshots taken by test scripts.
	ScreenshotDir string
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		TileSize:          DefaultTileSize,
		ClearColor:        Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		FadeInDuration:    800 * time.Millisecond,
		SnapDuration:      500 * time.Millisecond,
		WheelZoomDuration: 750 * time.Millisecond,
		Overshoot:         defaultOvershootScale,
		ScreenshotDir:     "screenshots",
	}
}

// fileConfig is the on-disk form of Config. Durations are milliseconds.
type fileConfig struct {
	TileSize        int       `yaml:"tile_size" toml:"tile_size"`
	ClearColor      []float64 `yaml:"clear_color" toml:"clear_color"`
	ShaderURL       string    `yaml:"shader_url" toml:"shader_url"`
	ImageURL        string    `yaml:"image_url" toml:"image_url"`
	FadeInMillis    int       `yaml:"fade_in_ms" toml:"fade_in_ms"`
	FadeEasing      string    `yaml:"fade_easing" toml:"fade_easing"`
	SnapMillis      int       `yaml:"snap_ms" toml:"snap_ms"`
	WheelZoomMillis int       `yaml:"wheel_zoom_ms" toml:"wheel_zoom_ms"`
	Overshoot       float64   `yaml:"overshoot" toml:"overshoot"`
	ShowStats       bool      `yaml:"show_stats" toml:"show_stats"`
	ScreenshotDir   string    `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

func toFileConfig(c Config) fileConfig {
	return fileConfig{
		TileSize:        c.TileSize,
		ClearColor:      []float64{c.ClearColor.R, c.ClearColor.G, c.ClearColor.B},
		ShaderURL:       c.ShaderURL,
		ImageURL:        c.ImageURL,
		FadeInMillis:    int(c.FadeInDuration / time.Millisecond),
		FadeEasing:      c.FadeEasing,
		SnapMillis:      int(c.SnapDuration / time.Millisecond),
		WheelZoomMillis: int(c.WheelZoomDuration / time.Millisecond),
		Overshoot:       c.Overshoot,
		ShowStats:       c.ShowStats,
		ScreenshotDir:   c.ScreenshotDir,
	}
}

func (f fileConfig) config() (Config, error) {
	if len(f.ClearColor) != 3 {
		return Config{}, fmt.Errorf("%w: clear_color needs 3 components, got %d", ErrConfiguration, len(f.ClearColor))
	}
	if f.FadeEasing != "" {
		if _, ok := EasingByName(f.FadeEasing); !ok {
			return Config{}, fmt.Errorf("%w: unknown fade_easing %q", ErrConfiguration, f.FadeEasing)
		}
	}
	return Config{
		TileSize:          f.TileSize,
		ClearColor:        Color{R: f.ClearColor[0], G: f.ClearColor[1], B: f.ClearColor[2], A: 1},
		ShaderURL:         f.ShaderURL,
		ImageURL:          f.ImageURL,
		FadeInDuration:    time.Duration(f.FadeInMillis) * time.Millisecond,
		FadeEasing:        f.FadeEasing,
		SnapDuration:      time.Duration(f.SnapMillis) * time.Millisecond,
		WheelZoomDuration: time.Duration(f.WheelZoomMillis) * time.Millisecond,
		Overshoot:         f.Overshoot,
		ShowStats:         f.ShowStats,
		ScreenshotDir:     f.ScreenshotDir,
	}, nil
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file. Keys missing
// from the file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes data in the format named by ext (".yaml", ".yml" or ".toml").
func ParseConfig(data []byte, ext string) (Config, error) {
	f := toFileConfig(DefaultConfig())
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Config{}, fmt.Errorf("%w: parse yaml: %v", ErrConfiguration, err)
		}
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return Config{}, fmt.Errorf("%w: parse toml: %v", ErrConfiguration, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrConfiguration, ext)
	}
	return f.config()
}

// normalize fixes TileSize for a backend with the given max texture size.
func (c *Config) normalize(maxTexture int) {
	ts := NormalizeTileSize(c.TileSize, maxTexture)
	if ts != c.TileSize {
		Logger().Warn("tileview: adjusted tile size", "from", c.TileSize, "to", ts)
		c.TileSize = ts
	}
}
