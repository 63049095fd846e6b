package repair

import (
	"testing"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addMaterials(t *testing.T, b *building.Building) {
	t.Helper()
	require.NoError(t, b.AddMaterial(building.Material{ID: "Brick", Absorption500: 0.02, Absorption2000: 0.04}))
	require.NoError(t, b.AddMaterial(building.Material{ID: "Tile", Absorption500: 0.06, Absorption2000: 0.04}))
	require.NoError(t, b.AddMaterial(building.Material{ID: "Foam", Absorption500: 0.55, Absorption2000: 0.65}))
}

func addSources(t *testing.T, b *building.Building) {
	t.Helper()
	require.NoError(t, b.AddNoiseSource(building.NoiseSource{ID: "Plane", Frequency: 2000, Intensity: 90}))
	require.NoError(t, b.AddNoiseSource(building.NoiseSource{ID: "Road", Frequency: 500, Intensity: 70}))
	require.NoError(t, b.AddNoiseSource(building.NoiseSource{ID: "Gym", Frequency: 500, Intensity: 65}))
}

// demoBuilding mirrors the seven-room sample. Per wall with both faces
// counted: Brick 12.6, Tile 23.4, Foam 265.5.
func demoBuilding(t *testing.T) *building.Building {
	t.Helper()
	b := building.New("demo")
	addMaterials(t, b)
	addSources(t, b)

	spaces := []building.Space{
		{ID: "H1", Position: building.Position{X: 4, Y: 2}, Activity: "Shop", Threshold: building.Float(70)},
		{ID: "H2", Position: building.Position{X: 4, Y: 4}, Activity: "Bedroom", Threshold: building.Float(40)},
		{ID: "S", Position: building.Position{X: 3, Y: 3}, Activity: "Bedroom", Threshold: building.Float(35)},
		{ID: "H3", Position: building.Position{X: 4, Y: 4, Z: 4}, Activity: "Gym", Threshold: building.Float(40)},
		{ID: "H4", Position: building.Position{X: 3, Y: 2, Z: 4}, Activity: "Misc", Threshold: building.Float(65)},
		{ID: "H5", Position: building.Position{X: 4, Y: 2, Z: 4}, Activity: "Study", Threshold: building.Float(50)},
		{ID: "E", Position: building.Position{X: 3, Y: 3, Z: 4}, Activity: "Misc", Threshold: building.Float(50)},
	}
	for _, s := range spaces {
		require.NoError(t, b.AddSpace(s))
	}

	walls := [][3]string{
		{"H2", "H3", "Brick"},
		{"H1", "S", "Tile"},
		{"H1", "H5", "Brick"},
		{"S", "H4", "Brick"},
		{"S", "E", "Brick"},
		{"H4", "E", "Tile"},
		{"H5", "E", "Tile"},
		{"H3", "E", "Tile"},
	}
	for _, w := range walls {
		require.NoError(t, b.AddWall(w[0], w[1], w[2]))
	}
	return b
}

func allHabitable(t *testing.T, b *building.Building) bool {
	t.Helper()
	e := acoustics.NewEvaluator(acoustics.Config{}, nil)
	for _, res := range e.EvaluateAll(b) {
		s, _ := b.Space(res.SpaceID)
		if !acoustics.IsHabitable(res.Total, s.EffectiveThreshold()) {
			return false
		}
	}
	return true
}

func TestRepair_NoChangesNeeded(t *testing.T) {
	b := building.New("quiet")
	addMaterials(t, b)
	addSources(t, b)
	require.NoError(t, b.AddSpace(building.Space{ID: "A", Threshold: building.Float(100)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "B"}))
	require.NoError(t, b.AddWall("A", "B", "Tile"))
	before := b.Snapshot()

	report, err := NewRepairer(Config{}, nil, nil).Repair(b)
	require.NoError(t, err)

	assert.False(t, report.Changed)
	assert.Equal(t, MessageNoChanges, report.Message)
	assert.Empty(t, report.Spaces)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, before, b.Snapshot())
}

func TestRepair_MaterialSubstitution(t *testing.T) {
	b := building.New("swap")
	addMaterials(t, b)
	addSources(t, b)
	require.NoError(t, b.AddSpace(building.Space{ID: "A", Activity: "Office", Threshold: building.Float(20)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "B"}))
	require.NoError(t, b.AddWall("A", "B", "Tile"))

	report, err := NewRepairer(Config{}, nil, nil).Repair(b)
	require.NoError(t, err)
	require.True(t, report.Changed)

	entry, ok := report.Space("A")
	require.True(t, ok)
	assert.Equal(t, PhaseMaterial, entry.Phase)
	assert.Equal(t, "Brick", entry.Material)
	assert.Equal(t, []string{"Brick"}, entry.CandidatesTried)
	assert.InDelta(t, 23.4, entry.NoiseBefore, 1e-9)
	assert.InDelta(t, 12.6, entry.NoiseAfter, 1e-9)
	assert.Equal(t, []WallChange{{Wall: building.NewWallKey("A", "B"), Before: "Tile", After: "Brick"}}, entry.WallChanges)

	// Phase 1 succeeded, so activity and threshold are untouched.
	space, _ := b.Space("A")
	assert.Equal(t, "Office", space.Activity)
	assert.Equal(t, 20.0, *space.Threshold)

	wall, _ := b.Wall("A", "B")
	assert.Equal(t, "Brick", wall.MaterialID)
	assert.True(t, allHabitable(t, b))
}

func TestRepair_PreferredMaterialsFirst(t *testing.T) {
	b := building.New("preferred")
	addMaterials(t, b)
	addSources(t, b)
	require.NoError(t, b.AddSpace(building.Space{ID: "A", Threshold: building.Float(30)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "B"}))
	require.NoError(t, b.AddWall("A", "B", "Foam"))

	cfg := Config{PreferredMaterials: []string{"Marble", "Tile", "Tile"}}
	report, err := NewRepairer(cfg, nil, nil).Repair(b)
	require.NoError(t, err)

	entry, _ := report.Space("A")
	assert.Equal(t, PhaseMaterial, entry.Phase)
	assert.Equal(t, "Tile", entry.Material)
	assert.Equal(t, []string{"Tile"}, entry.CandidatesTried)
}

func TestRepair_NeighborGuard(t *testing.T) {
	b := building.New("guard")
	addMaterials(t, b)
	addSources(t, b)
	require.NoError(t, b.AddSpace(building.Space{ID: "A", Threshold: building.Float(50)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "B", Threshold: building.Float(20)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "C"}))
	require.NoError(t, b.AddWall("A", "B", "Brick"))
	require.NoError(t, b.AddWall("A", "C", "Foam"))

	// Tile alone would fix A (46.8) but push B from 12.6 to 23.4.
	report, err := NewRepairer(Config{PreferredMaterials: []string{"Tile"}}, nil, nil).Repair(b)
	require.NoError(t, err)

	entry, _ := report.Space("A")
	assert.Equal(t, PhaseMaterial, entry.Phase)
	assert.Equal(t, []string{"Tile", "Brick"}, entry.CandidatesTried)
	assert.Equal(t, "Brick", entry.Material)
	require.Len(t, entry.WallChanges, 1)
	assert.Equal(t, building.NewWallKey("A", "C"), entry.WallChanges[0].Wall)
	assert.True(t, allHabitable(t, b))
}

func TestRepair_DemoFallsBackToThresholds(t *testing.T) {
	b := demoBuilding(t)

	report, err := NewRepairer(Config{Seed: 7}, nil, nil).Repair(b)
	require.NoError(t, err)
	require.True(t, report.Changed)
	require.Len(t, report.Spaces, 2)

	s, ok := report.Space("S")
	require.True(t, ok)
	assert.Equal(t, PhaseThreshold, s.Phase)
	// S has mixed walls, so every registry material is tried first.
	assert.Equal(t, []string{"Brick", "Tile", "Foam"}, s.CandidatesTried)
	assert.InDelta(t, 48.6, s.NoiseBefore, 1e-9)
	require.NotNil(t, s.ThresholdAfter)
	assert.InDelta(t, 53.6, *s.ThresholdAfter, 1e-9)

	e, ok := report.Space("E")
	require.True(t, ok)
	assert.Equal(t, PhaseThreshold, e.Phase)
	assert.Equal(t, []string{"Brick", "Tile", "Foam"}, e.CandidatesTried)
	assert.InDelta(t, 82.8, e.NoiseBefore, 1e-9)
	require.NotNil(t, e.ThresholdAfter)
	assert.InDelta(t, 87.8, *e.ThresholdAfter, 1e-9)

	assert.ElementsMatch(t, []string{"Bedroom", "Misc"}, []string{s.ActivityAfter, e.ActivityAfter})
	assert.Equal(t, 2, report.Count(PhaseThreshold))
	assert.Empty(t, s.WallChanges)
	assert.Empty(t, e.WallChanges)
	assert.True(t, allHabitable(t, b))
}

func TestRepair_LaterSubstitutionFixesEarlierSpace(t *testing.T) {
	b := building.New("late")
	addMaterials(t, b)
	addSources(t, b)
	// X is processed first. Cork is unregistered and contributes nothing, so
	// no material fixes X on its own (Brick on both walls gives 25.2). N's
	// Brick swap then drops X to 12.6.
	require.NoError(t, b.AddSpace(building.Space{ID: "X", Activity: "Office", Threshold: building.Float(20)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "N", Activity: "Study", Threshold: building.Float(15)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "Y"}))
	require.NoError(t, b.AddWall("X", "Y", "Cork"))
	require.NoError(t, b.AddWall("X", "N", "Foam"))

	report, err := NewRepairer(Config{Seed: 3}, nil, nil).Repair(b)
	require.NoError(t, err)
	require.True(t, report.Changed)

	n, ok := report.Space("N")
	require.True(t, ok)
	assert.Equal(t, PhaseMaterial, n.Phase)
	assert.Equal(t, "Brick", n.Material)

	x, ok := report.Space("X")
	require.True(t, ok)
	assert.Equal(t, PhaseNeighbor, x.Phase)
	assert.InDelta(t, 265.5, x.NoiseBefore, 1e-9)
	assert.InDelta(t, 12.6, x.NoiseAfter, 1e-9)
	assert.Equal(t, "Office", x.ActivityAfter)
	assert.Equal(t, 20.0, *x.ThresholdAfter)
	assert.Zero(t, report.Count(PhaseThreshold))

	space, _ := b.Space("X")
	assert.Equal(t, "Office", space.Activity)
	assert.Equal(t, 20.0, *space.Threshold)
	assert.True(t, allHabitable(t, b))
}

func TestRepair_FloorApplies(t *testing.T) {
	b := building.New("floor")
	addMaterials(t, b)
	addSources(t, b)
	// Any material gives at least 12.6, so phase 1 cannot fix a threshold of 1.
	require.NoError(t, b.AddSpace(building.Space{ID: "A", Threshold: building.Float(1)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "B"}))
	require.NoError(t, b.AddWall("A", "B", "Brick"))

	report, err := NewRepairer(Config{Floor: building.Float(30), Margin: building.Float(2)}, nil, nil).Repair(b)
	require.NoError(t, err)

	entry, _ := report.Space("A")
	assert.Equal(t, PhaseThreshold, entry.Phase)
	// Brick is already on every wall, so it is not retried.
	assert.Equal(t, []string{"Tile", "Foam"}, entry.CandidatesTried)
	assert.InDelta(t, 32.0, *entry.ThresholdAfter, 1e-9)
}

func TestRepair_Idempotent(t *testing.T) {
	b := demoBuilding(t)
	r := NewRepairer(Config{Seed: 1}, nil, nil)

	first, err := r.Repair(b)
	require.NoError(t, err)
	require.True(t, first.Changed)

	second, err := r.Repair(b)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, MessageNoChanges, second.Message)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRepair_SeedIsDeterministic(t *testing.T) {
	a, err := NewRepairer(Config{Seed: 42}, nil, nil).Repair(demoBuilding(t))
	require.NoError(t, err)
	b, err := NewRepairer(Config{Seed: 42}, nil, nil).Repair(demoBuilding(t))
	require.NoError(t, err)

	for _, id := range []string{"S", "E"} {
		x, _ := a.Space(id)
		y, _ := b.Space(id)
		assert.Equal(t, x.ActivityAfter, y.ActivityAfter, id)
	}
}

func TestConfig_Defaults(t *testing.T) {
	r := NewRepairer(Config{}, nil, nil)
	assert.Equal(t, DefaultFloor, *r.Config().Floor)
	assert.Equal(t, DefaultMargin, *r.Config().Margin)
}

func TestRepair_ZeroFloorAndMargin(t *testing.T) {
	b := building.New("zero")
	addMaterials(t, b)
	addSources(t, b)
	require.NoError(t, b.AddSpace(building.Space{ID: "A", Threshold: building.Float(1)}))
	require.NoError(t, b.AddSpace(building.Space{ID: "B"}))
	require.NoError(t, b.AddWall("A", "B", "Brick"))

	r := NewRepairer(Config{Floor: building.Float(0), Margin: building.Float(0)}, nil, nil)
	assert.Equal(t, 0.0, *r.Config().Floor)
	assert.Equal(t, 0.0, *r.Config().Margin)

	report, err := r.Repair(b)
	require.NoError(t, err)

	// The raised threshold sits exactly on the noise, which still passes.
	entry, _ := report.Space("A")
	assert.Equal(t, PhaseThreshold, entry.Phase)
	assert.InDelta(t, 12.6, *entry.ThresholdAfter, 1e-9)
	assert.True(t, allHabitable(t, b))
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseUnresolved, "unresolved"},
		{PhaseMaterial, "material"},
		{PhaseNeighbor, "neighbor"},
		{PhaseThreshold, "threshold"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}
