package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/censusstack/income-explorer/internal/models"
)

// Preset is a named parameter patch applied to a session in one step.
type Preset struct {
	Name  string            `yaml:"name"`
	Patch models.ParamPatch `yaml:"patch"`
}

// presetFile is the YAML root structure of a preset pack.
type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// PresetBook holds the builtin presets plus any loaded from a pack
// file. File entries with a builtin's name replace it.
type PresetBook struct {
	order  []string
	byName map[string]Preset
}

// NewPresetBook loads a preset pack from path on top of the builtin
// set. An empty or missing path leaves just the builtins.
func NewPresetBook(path string, logger *slog.Logger) (*PresetBook, error) {
	if logger == nil {
		logger = slog.Default()
	}

	book := &PresetBook{byName: make(map[string]Preset)}
	for _, p := range builtinPresets() {
		book.add(p)
	}

	if path == "" {
		return book, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("preset pack not found, using builtins", slog.String("path", path))
			return book, nil
		}
		return nil, fmt.Errorf("read preset pack: %w", err)
	}
	var pack presetFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse preset pack: %w", err)
	}
	for _, p := range pack.Presets {
		if p.Name == "" {
			logger.Warn("skipping unnamed preset", slog.String("path", path))
			continue
		}
		book.add(p)
	}
	logger.Debug("presets loaded", slog.Int("count", len(book.order)), slog.String("path", path))
	return book, nil
}

func (b *PresetBook) add(p Preset) {
	if _, ok := b.byName[p.Name]; !ok {
		b.order = append(b.order, p.Name)
	}
	b.byName[p.Name] = p
}

// Names returns the preset names, builtins first, pack order after.
func (b *PresetBook) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Get returns the preset by name.
func (b *PresetBook) Get(name string) (Preset, bool) {
	p, ok := b.byName[name]
	return p, ok
}

// builtinPresets are always available: "demo" highlights a narrow
// slice the way the dashboard's walkthrough button does, "defaults"
// writes every parameter back to its initial value.
func builtinPresets() []Preset {
	female := "Female"
	bachelors := "Bachelors"
	demo := Preset{
		Name: "demo",
		Patch: models.ParamPatch{
			Gender:    &female,
			Age:       &models.Range{Lo: 30, Hi: 50},
			Education: &bachelors,
		},
	}

	d := models.DefaultParams()
	defaults := Preset{
		Name: "defaults",
		Patch: models.ParamPatch{
			Gender:          &d.Gender,
			Age:             &d.Age,
			Race:            &d.Race,
			Education:       &d.Education,
			Occupation:      &d.Occupation,
			CapitalGainOnly: &d.CapitalGainOnly,
			Hours:           &d.Hours,
		},
	}
	return []Preset{demo, defaults}
}
