// Package config loads building documents from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/repair"
	"github.com/dd0wney/cluso-habitat/pkg/validation"
	"gopkg.in/yaml.v3"
)

// DefaultPalette is used for colouring when a document names none.
var DefaultPalette = []string{"red", "blue", "green", "yellow", "purple", "orange"}

// Config is a complete building document.
type Config struct {
	Name         string              `yaml:"name" validate:"required"`
	Evaluator    EvaluatorConfig     `yaml:"evaluator"`
	Palette      []string            `yaml:"palette,omitempty" validate:"omitempty,dive,required"`
	Repair       RepairConfig        `yaml:"repair"`
	Materials    []MaterialConfig    `yaml:"materials" validate:"dive"`
	NoiseSources []NoiseSourceConfig `yaml:"noise_sources" validate:"dive"`
	Spaces       []SpaceConfig       `yaml:"spaces" validate:"required,min=1,dive"`
	Walls        []WallConfig        `yaml:"walls" validate:"dive"`
}

// EvaluatorConfig configures the noise evaluator.
type EvaluatorConfig struct {
	// SideMultiplier defaults to acoustics.DefaultSideMultiplier when
	// omitted. An explicit zero would silence every wall and is rejected.
	SideMultiplier *float64 `yaml:"side_multiplier,omitempty" validate:"omitempty,gt=0"`
}

// RepairConfig configures the repair heuristic.
type RepairConfig struct {
	Seed               int64    `yaml:"seed"`
	// Floor and Margin fall back to the repair defaults when omitted;
	// zero is kept as written.
	Floor              *float64 `yaml:"floor,omitempty" validate:"omitempty,gte=0"`
	Margin             *float64 `yaml:"margin,omitempty" validate:"omitempty,gte=0"`
	PreferredMaterials []string `yaml:"preferred_materials,omitempty"`
}

// MaterialConfig declares a material.
type MaterialConfig struct {
	ID             string  `yaml:"id" validate:"required"`
	Absorption500  float64 `yaml:"absorption_500hz"`
	Absorption2000 float64 `yaml:"absorption_2000hz"`
}

// NoiseSourceConfig declares a noise source.
type NoiseSourceConfig struct {
	ID        string  `yaml:"id" validate:"required"`
	Frequency int     `yaml:"frequency" validate:"gt=0"`
	Intensity float64 `yaml:"intensity" validate:"gte=0"`
}

// SpaceConfig declares a space. Position is [x, y, z].
type SpaceConfig struct {
	ID        string     `yaml:"id" validate:"required"`
	Position  [3]float64 `yaml:"position,flow"`
	Activity  string     `yaml:"activity,omitempty"`
	Threshold *float64   `yaml:"threshold,omitempty" validate:"omitempty,gte=0"`
}

// WallConfig joins two spaces with a material.
type WallConfig struct {
	Between  [2]string `yaml:"between,flow" validate:"dive,required"`
	Material string    `yaml:"material" validate:"required"`
}

// Load reads and validates a document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes the document back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks struct tags and cross references. Problems the evaluator
// tolerates (unknown wall materials, unsupported bands) are left to
// Warnings.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	spaceIDs := make([]string, 0, len(c.Spaces))
	known := make(map[string]bool, len(c.Spaces))
	for _, s := range c.Spaces {
		spaceIDs = append(spaceIDs, s.ID)
		known[s.ID] = true
	}
	materialIDs := make([]string, 0, len(c.Materials))
	for _, m := range c.Materials {
		materialIDs = append(materialIDs, m.ID)
	}
	sourceIDs := make([]string, 0, len(c.NoiseSources))
	for _, s := range c.NoiseSources {
		sourceIDs = append(sourceIDs, s.ID)
	}

	cv := validation.NewConfigValidator("Config")
	cv.UniqueIDs("Materials", materialIDs).
		UniqueIDs("NoiseSources", sourceIDs).
		UniqueIDs("Spaces", spaceIDs)

	walls := make(map[building.WallKey]bool, len(c.Walls))
	for i, w := range c.Walls {
		field := fmt.Sprintf("Walls[%d]", i)
		cv.References(field, w.Between[:], known)
		if w.Between[0] == w.Between[1] {
			cv.Custom(field, func() error { return building.ErrSelfLoop })
			continue
		}
		key := building.NewWallKey(w.Between[0], w.Between[1])
		if walls[key] {
			cv.Custom(field, func() error { return fmt.Errorf("duplicate wall %s", key) })
		}
		walls[key] = true
	}

	return cv.Validate()
}

// Warnings lists problems that are reported but tolerated.
func (c *Config) Warnings() []string {
	var out []string
	materials := make(map[string]bool, len(c.Materials))
	for _, m := range c.Materials {
		materials[m.ID] = true
		mat := building.Material{ID: m.ID, Absorption500: m.Absorption500, Absorption2000: m.Absorption2000}
		for _, band := range building.Bands {
			if v, _ := mat.Absorption(band); v < 0 || v > 1 {
				out = append(out, fmt.Sprintf("material %s: %d Hz absorption %g outside [0, 1]", m.ID, band, v))
			}
		}
	}
	for _, s := range c.NoiseSources {
		if !building.SupportsBand(s.Frequency) {
			out = append(out, fmt.Sprintf("noise source %s: %d Hz has no absorption band", s.ID, s.Frequency))
		}
	}
	for _, w := range c.Walls {
		if !materials[w.Material] {
			out = append(out, fmt.Sprintf("wall %s|%s: unknown material %s", w.Between[0], w.Between[1], w.Material))
		}
	}
	for _, id := range c.Repair.PreferredMaterials {
		if !materials[id] {
			out = append(out, fmt.Sprintf("repair: unknown preferred material %s", id))
		}
	}
	return out
}

// Build constructs the building described by the document. Tolerated
// problems are logged as warnings.
func (c *Config) Build(logger logging.Logger) (*building.Building, error) {
	logger = logging.OrNop(logger).With(logging.Component("config"))

	b := building.New(c.Name)
	for _, m := range c.Materials {
		if err := b.AddMaterial(building.Material{ID: m.ID, Absorption500: m.Absorption500, Absorption2000: m.Absorption2000}); err != nil {
			return nil, err
		}
	}
	for _, s := range c.NoiseSources {
		if err := b.AddNoiseSource(building.NoiseSource{ID: s.ID, Frequency: s.Frequency, Intensity: s.Intensity}); err != nil {
			return nil, err
		}
	}
	for _, s := range c.Spaces {
		space := building.Space{
			ID:        s.ID,
			Position:  building.Position{X: s.Position[0], Y: s.Position[1], Z: s.Position[2]},
			Activity:  s.Activity,
			Threshold: s.Threshold,
		}
		if err := b.AddSpace(space); err != nil {
			return nil, err
		}
	}
	for _, w := range c.Walls {
		if err := b.AddWall(w.Between[0], w.Between[1], w.Material); err != nil {
			return nil, err
		}
	}

	for _, w := range c.Warnings() {
		logger.Warn(w)
	}
	stats := b.Stats()
	logger.Info("building loaded",
		logging.String("building", c.Name),
		logging.Int("spaces", stats.Spaces),
		logging.Int("walls", stats.Walls),
		logging.Int("materials", stats.Materials),
		logging.Int("noise_sources", stats.NoiseSources))
	return b, nil
}

// EvaluatorConfig returns the evaluator settings.
func (c *Config) EvaluatorConfig() acoustics.Config {
	if c.Evaluator.SideMultiplier == nil {
		return acoustics.Config{}
	}
	return acoustics.Config{SideMultiplier: *c.Evaluator.SideMultiplier}
}

// RepairConfig returns the repair settings.
func (c *Config) RepairConfig() repair.Config {
	return repair.Config{
		Seed:               c.Repair.Seed,
		Floor:              copyFloat(c.Repair.Floor),
		Margin:             copyFloat(c.Repair.Margin),
		PreferredMaterials: append([]string(nil), c.Repair.PreferredMaterials...),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// PaletteOrDefault returns the document's palette, or DefaultPalette.
func (c *Config) PaletteOrDefault() []string {
	if len(c.Palette) == 0 {
		return append([]string(nil), DefaultPalette...)
	}
	return append([]string(nil), c.Palette...)
}
