package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/pointfield/internal/animate"
	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/magnet"
	"github.com/san-kum/pointfield/internal/popup"
	"github.com/san-kum/pointfield/internal/scene"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPreset   = "magnetic"
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultCount    = 40
	DefaultFOV      = 60.0
	DefaultDistance = 6.0
)

var ErrInvalid = errors.New("config: invalid value")

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalid }

type Config struct {
	Preset       string         `yaml:"preset,omitempty"`
	Viewport     ViewportConfig `yaml:"viewport"`
	Camera       CameraConfig   `yaml:"camera"`
	Field        FieldConfig    `yaml:"field"`
	Hover        HoverConfig    `yaml:"hover"`
	Animate      AnimateConfig  `yaml:"animate"`
	Magnet       MagnetConfig   `yaml:"magnet"`
	Popup        PopupConfig    `yaml:"popup"`
	ResizePolicy string         `yaml:"resize_policy"`
	Seed         int64          `yaml:"seed"`
	CatalogPath  string         `yaml:"catalog_path,omitempty"`
	Background   string         `yaml:"background,omitempty"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type CameraConfig struct {
	FOV      float64 `yaml:"fov"` // vertical, degrees
	Distance float64 `yaml:"distance"`
}

type FieldConfig struct {
	Count            int     `yaml:"count"`
	Interactive      []int   `yaml:"interactive"`
	MinRadius        float64 `yaml:"min_radius"`
	MaxRadius        float64 `yaml:"max_radius"`
	Height           float64 `yaml:"height"`
	BaseScale        float64 `yaml:"base_scale"`
	InteractiveScale float64 `yaml:"interactive_scale"`
	BaseColor        string  `yaml:"base_color"`
	InteractiveColor string  `yaml:"interactive_color"`
	HighlightColor   string  `yaml:"highlight_color"`
}

type HoverConfig struct {
	Tolerance  float64 `yaml:"tolerance"`
	Continuous bool    `yaml:"continuous"`
}

type AnimateConfig struct {
	Ease            float64 `yaml:"ease"`
	DirtyEpsilon    float64 `yaml:"dirty_epsilon"`
	Amplify         float64 `yaml:"amplify"`
	Wobble          bool    `yaml:"wobble"`
	WobbleAmplitude float64 `yaml:"wobble_amplitude"`
	WobbleFrequency float64 `yaml:"wobble_frequency"`
	DriftAmplitude  float64 `yaml:"drift_amplitude"`
	DriftSpeed      float64 `yaml:"drift_speed"`
}

type MagnetConfig struct {
	Enabled            bool    `yaml:"enabled"`
	Threshold          float64 `yaml:"threshold"`
	Pull               float64 `yaml:"pull"`
	Attract            float64 `yaml:"attract"`
	ReleaseInteractive float64 `yaml:"release_interactive"`
	ReleaseAmbient     float64 `yaml:"release_ambient"`
	SnapEpsilon        float64 `yaml:"snap_epsilon"`
	MaxOffset          float64 `yaml:"max_offset"`
}

// PopupConfig durations are in milliseconds.
type PopupConfig struct {
	AutoDismiss int     `yaml:"auto_dismiss_ms"`
	Enter       int     `yaml:"enter_ms"`
	Exit        int     `yaml:"exit_ms"`
	Margin      float64 `yaml:"margin"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
}

func DefaultConfig() *Config {
	a := animate.DefaultConfig()
	m := magnet.DefaultConfig()
	p := popup.DefaultConfig()
	return &Config{
		Preset:   DefaultPreset,
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Camera:   CameraConfig{FOV: DefaultFOV, Distance: DefaultDistance},
		Field: FieldConfig{
			Count:            DefaultCount,
			Interactive:      []int{1, 4, 7, 9, 12, 15, 19, 23, 27, 30, 34, 37},
			MinRadius:        1.2,
			MaxRadius:        2.4,
			Height:           0.8,
			BaseScale:        1,
			InteractiveScale: 1.8,
			BaseColor:        "#ffffff",
			InteractiveColor: "#eaff01",
			HighlightColor:   "#ff40a0",
		},
		Hover: HoverConfig{Tolerance: 14},
		Animate: AnimateConfig{
			Ease:            a.Ease,
			DirtyEpsilon:    a.DirtyEpsilon,
			Amplify:         a.Amplify,
			Wobble:          a.Wobble,
			WobbleAmplitude: a.WobbleAmplitude,
			WobbleFrequency: a.WobbleFrequency,
			DriftAmplitude:  a.DriftAmplitude,
			DriftSpeed:      a.DriftSpeed,
		},
		Magnet: MagnetConfig{
			Enabled:            m.Enabled,
			Threshold:          m.Threshold,
			Pull:               m.Pull,
			Attract:            m.Attract,
			ReleaseInteractive: m.ReleaseInteractive,
			ReleaseAmbient:     m.ReleaseAmbient,
			SnapEpsilon:        m.SnapEpsilon,
			MaxOffset:          m.MaxOffset,
		},
		Popup: PopupConfig{
			AutoDismiss: int(p.AutoDismiss / time.Millisecond),
			Enter:       int(p.EnterDuration / time.Millisecond),
			Exit:        int(p.ExitDuration / time.Millisecond),
			Margin:      p.Margin,
			Width:       p.Width,
			Height:      p.Height,
		},
		ResizePolicy: string(engine.Reproject),
		Seed:         1,
	}
}

// Load overlays the YAML file at path onto the defaults of the preset it
// names (or the default preset).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if head.Preset != "" {
		if cfg = GetPreset(head.Preset); cfg == nil {
			return nil, &ConfigError{Field: "preset", Reason: "unknown preset " + strconv.Quote(head.Preset)}
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return &ConfigError{Field: "viewport", Reason: "width and height must be positive"}
	case c.Field.Count <= 0:
		return &ConfigError{Field: "field.count", Reason: "must be positive"}
	case c.Field.MinRadius < 0 || c.Field.MaxRadius < 0 || c.Field.Height < 0:
		return &ConfigError{Field: "field", Reason: "radii and height must not be negative"}
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return &ConfigError{Field: "camera.fov", Reason: "must be in (0, 180) degrees"}
	case c.Camera.Distance <= c.Field.MaxRadius:
		return &ConfigError{Field: "camera.distance", Reason: "camera must sit outside the field"}
	case c.Hover.Tolerance < 0:
		return &ConfigError{Field: "hover.tolerance", Reason: "must not be negative"}
	case c.Animate.Ease <= 0 || c.Animate.Ease > 1:
		return &ConfigError{Field: "animate.ease", Reason: "must be in (0, 1]"}
	case !fraction(c.Magnet.Attract) || !fraction(c.Magnet.ReleaseInteractive) || !fraction(c.Magnet.ReleaseAmbient):
		return &ConfigError{Field: "magnet", Reason: "smoothing factors must be in (0, 1]"}
	case c.Magnet.Threshold < 0 || c.Magnet.MaxOffset <= 0:
		return &ConfigError{Field: "magnet", Reason: "threshold must not be negative and max_offset must be positive"}
	case c.Popup.AutoDismiss <= 0 || c.Popup.Enter < 0 || c.Popup.Exit < 0:
		return &ConfigError{Field: "popup", Reason: "durations must not be negative"}
	}
	switch engine.ResizePolicy(c.ResizePolicy) {
	case engine.Reproject, engine.Regenerate:
	default:
		return &ConfigError{Field: "resize_policy", Reason: "want reproject or regenerate, got " + strconv.Quote(c.ResizePolicy)}
	}
	for _, name := range []string{c.Field.BaseColor, c.Field.InteractiveColor, c.Field.HighlightColor} {
		if _, err := ParseColor(name); err != nil {
			return &ConfigError{Field: "field", Reason: err.Error()}
		}
	}
	return nil
}

func fraction(v float64) bool { return v > 0 && v <= 1 }

// EngineConfig converts the file layout into the engine's runtime config.
func (c *Config) EngineConfig() (engine.Config, error) {
	if err := c.Validate(); err != nil {
		return engine.Config{}, err
	}
	base, _ := ParseColor(c.Field.BaseColor)
	interactive, _ := ParseColor(c.Field.InteractiveColor)
	highlight, _ := ParseColor(c.Field.HighlightColor)

	return engine.Config{
		Width:  c.Viewport.Width,
		Height: c.Viewport.Height,
		Field: field.Config{
			Count:            c.Field.Count,
			MinRadius:        c.Field.MinRadius,
			MaxRadius:        c.Field.MaxRadius,
			Height:           c.Field.Height,
			BaseScale:        c.Field.BaseScale,
			InteractiveScale: c.Field.InteractiveScale,
			BaseColor:        base,
			InteractiveColor: interactive,
			HighlightColor:   highlight,
		},
		Interactive: append([]int(nil), c.Field.Interactive...),
		Tolerance:   c.Hover.Tolerance,
		Continuous:  c.Hover.Continuous,
		Animate: animate.Config{
			Ease:            c.Animate.Ease,
			DirtyEpsilon:    c.Animate.DirtyEpsilon,
			Amplify:         c.Animate.Amplify,
			Wobble:          c.Animate.Wobble,
			WobbleAmplitude: c.Animate.WobbleAmplitude,
			WobbleFrequency: c.Animate.WobbleFrequency,
			DriftAmplitude:  c.Animate.DriftAmplitude,
			DriftSpeed:      c.Animate.DriftSpeed,
		},
		Magnet: magnet.Config{
			Enabled:            c.Magnet.Enabled,
			Threshold:          c.Magnet.Threshold,
			Pull:               c.Magnet.Pull,
			Attract:            c.Magnet.Attract,
			ReleaseInteractive: c.Magnet.ReleaseInteractive,
			ReleaseAmbient:     c.Magnet.ReleaseAmbient,
			SnapEpsilon:        c.Magnet.SnapEpsilon,
			MaxOffset:          c.Magnet.MaxOffset,
		},
		Popup: popup.Config{
			AutoDismiss:   time.Duration(c.Popup.AutoDismiss) * time.Millisecond,
			EnterDuration: time.Duration(c.Popup.Enter) * time.Millisecond,
			ExitDuration:  time.Duration(c.Popup.Exit) * time.Millisecond,
			Margin:        c.Popup.Margin,
			Width:         c.Popup.Width,
			Height:        c.Popup.Height,
		},
		ResizePolicy: engine.ResizePolicy(c.ResizePolicy),
		Seed:         c.Seed,
	}, nil
}

// NewCamera builds the perspective camera for the configured viewport.
func (c *Config) NewCamera() *scene.Camera {
	return scene.NewCamera(c.Camera.FOV*math.Pi/180, c.Camera.Distance, c.Viewport.Width, c.Viewport.Height)
}

// Scaled returns a copy whose pixel quantities (viewport, hit tolerance,
// magnet threshold, popup geometry) are rescaled to a width x height surface.
// Hosts with coarse pixels, such as a Braille terminal canvas, use it.
func (c *Config) Scaled(width, height float64) *Config {
	out := *c
	out.Field.Interactive = append([]int(nil), c.Field.Interactive...)
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 || width <= 0 || height <= 0 {
		return &out
	}
	k := math.Min(width/c.Viewport.Width, height/c.Viewport.Height)
	out.Viewport = ViewportConfig{Width: width, Height: height}
	out.Hover.Tolerance *= k
	out.Magnet.Threshold *= k
	out.Popup.Margin *= k
	out.Popup.Width *= k
	out.Popup.Height *= k
	return &out
}

// ParseColor reads a "#rrggbb" or "rrggbb" hex color.
func ParseColor(s string) (field.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return field.Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return field.Color{}, fmt.Errorf("bad color %q", s)
	}
	return field.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
