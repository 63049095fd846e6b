package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/repair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const small = `
name: small
materials:
  - id: Brick
    absorption_500hz: 0.02
    absorption_2000hz: 0.04
noise_sources:
  - id: Road
    frequency: 500
    intensity: 70
spaces:
  - id: A
    position: [1, 2, 3]
    activity: Office
    threshold: 10
  - id: B
walls:
  - between: [B, A]
    material: Brick
`

func TestParse_Small(t *testing.T) {
	cfg, err := Parse([]byte(small))
	require.NoError(t, err)

	b, err := cfg.Build(nil)
	require.NoError(t, err)

	a, ok := b.Space("A")
	require.True(t, ok)
	assert.Equal(t, building.Position{X: 1, Y: 2, Z: 3}, a.Position)
	assert.Equal(t, "Office", a.Activity)
	require.NotNil(t, a.Threshold)
	assert.Equal(t, 10.0, *a.Threshold)

	bSpace, _ := b.Space("B")
	assert.False(t, bSpace.HasThreshold())

	_, ok = b.Wall("A", "B")
	assert.True(t, ok)

	assert.Equal(t, DefaultPalette, cfg.PaletteOrDefault())
	assert.Equal(t, acoustics.Config{}, cfg.EvaluatorConfig())
	assert.Equal(t, repair.Config{}.Seed, cfg.RepairConfig().Seed)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty document"},
		{"unknown key", "name: x\ncolour: blue\nspaces: [{id: A}]", "colour"},
		{"no spaces", "name: x", "Spaces"},
		{"missing name", "spaces: [{id: A}]", "Name"},
		{"duplicate space", "name: x\nspaces: [{id: A}, {id: A}]", `duplicate id "A"`},
		{"wall to unknown space", "name: x\nspaces: [{id: A}]\nwalls: [{between: [A, Z], material: M}]", `unknown reference "Z"`},
		{"self loop", "name: x\nspaces: [{id: A}]\nwalls: [{between: [A, A], material: M}]", "itself"},
		{"duplicate wall", "name: x\nspaces: [{id: A}, {id: B}]\nwalls: [{between: [A, B], material: M}, {between: [B, A], material: M}]", "duplicate wall"},
		{"negative intensity", "name: x\nspaces: [{id: A}]\nnoise_sources: [{id: R, frequency: 500, intensity: -1}]", "Intensity"},
		{"negative threshold", "name: x\nspaces: [{id: A, threshold: -5}]", "Threshold"},
		{"zero side multiplier", "name: x\nevaluator: {side_multiplier: 0}\nspaces: [{id: A}]", "SideMultiplier"},
		{"negative margin", "name: x\nrepair: {margin: -1}\nspaces: [{id: A}]", "Margin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRepairConfig_ExplicitZero(t *testing.T) {
	cfg, err := Parse([]byte("name: x\nrepair: {floor: 0, margin: 0}\nspaces: [{id: A}]"))
	require.NoError(t, err)

	rc := cfg.RepairConfig()
	require.NotNil(t, rc.Floor)
	require.NotNil(t, rc.Margin)
	assert.Equal(t, 0.0, *rc.Floor)
	assert.Equal(t, 0.0, *rc.Margin)

	cfg, err = Parse([]byte(small))
	require.NoError(t, err)
	assert.Nil(t, cfg.RepairConfig().Floor)
	assert.Nil(t, cfg.RepairConfig().Margin)
}

func TestWarnings(t *testing.T) {
	doc := `
name: warn
repair:
  preferred_materials: [Marble]
materials:
  - id: Sponge
    absorption_500hz: 1.5
    absorption_2000hz: 0.5
noise_sources:
  - id: Drone
    frequency: 1000
    intensity: 40
spaces: [{id: A}, {id: B}]
walls:
  - between: [A, B]
    material: Concrete
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	warnings := cfg.Warnings()
	require.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], "absorption 1.5")
	assert.Contains(t, warnings[1], "1000 Hz")
	assert.Contains(t, warnings[2], "unknown material Concrete")
	assert.Contains(t, warnings[3], "Marble")

	var buf bytes.Buffer
	_, err = cfg.Build(logging.NewJSONLogger(&buf, logging.WarnLevel))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(buf.String(), `"level":"WARN"`))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "building.yaml")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", cfg.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(small))
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/habitat/building.yaml")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvLogLevel, "debug")

	env := LoadEnv()
	assert.Equal(t, "/etc/habitat/building.yaml", env.ConfigPath)
	assert.Equal(t, DefaultAddr, env.Addr)
	assert.Equal(t, logging.DebugLevel, env.LogLevel)
}
