package printspec

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

type preset struct {
	Unit   string  `yaml:"unit"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Bleed  float64 `yaml:"bleed"`
	Safe   float64 `yaml:"safe"`
	Pages  int     `yaml:"pages"`
}

var presets = mustLoadPresets(presetsYAML)

func mustLoadPresets(data []byte) map[string]PrintSpec {
	out, err := loadPresets(data)
	if err != nil {
		panic(err)
	}
	return out
}

func loadPresets(data []byte) (map[string]PrintSpec, error) {
	var raw map[string]preset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	out := make(map[string]PrintSpec, len(raw))
	for name, p := range raw {
		factor := 1.0
		switch p.Unit {
		case "mm", "":
		case "in":
			factor = MMPerInch
		default:
			return nil, fmt.Errorf("preset %s: unknown unit %q", name, p.Unit)
		}
		s := PrintSpec{
			TrimWidthMM:  p.Width * factor,
			TrimHeightMM: p.Height * factor,
			BleedMM:      p.Bleed * factor,
			SafeMM:       p.Safe * factor,
			DPI:          DefaultDPI,
			Pages:        p.Pages,
		}
		s.orient("")
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

// Preset looks up a named preset.
func Preset(name string) (PrintSpec, bool) {
	s, ok := presets[name]
	return s, ok
}

// Presets lists the preset names in order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
