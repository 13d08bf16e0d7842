package config

import "sort"

// Presets mirror the three page variants of the field.
var Presets = map[string]func() *Config{
	"canvas": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "canvas"
		cfg.Field.Interactive = []int{1, 8, 15, 22, 29, 36}
		cfg.Field.Height = 0.15
		cfg.Field.MinRadius = 1.8
		cfg.Field.MaxRadius = 2.6
		cfg.Hover.Tolerance = 26
		cfg.Hover.Continuous = true
		cfg.Magnet.Enabled = false
		cfg.ResizePolicy = "regenerate"
		return cfg
	},
	"points": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "points"
		cfg.Magnet.Enabled = false
		return cfg
	},
	"magnetic": func() *Config {
		return DefaultConfig()
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
