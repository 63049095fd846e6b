package constraints

import (
	"testing"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// setupTestBuilding creates two spaces joined by a Brick wall with one road source.
func setupTestBuilding(t *testing.T, threshold *float64) *building.Building {
	t.Helper()

	b := building.New("test")
	mustNoErr(t, b.AddMaterial(building.Material{ID: "Brick", Absorption500: 0.02, Absorption2000: 0.04}))
	mustNoErr(t, b.AddNoiseSource(building.NoiseSource{ID: "Road", Frequency: 500, Intensity: 70}))
	mustNoErr(t, b.AddSpace(building.Space{ID: "A", Threshold: threshold}))
	mustNoErr(t, b.AddSpace(building.Space{ID: "B"}))
	mustNoErr(t, b.AddWall("A", "B", "Brick"))
	return b
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
}

func newHabitability() *HabitabilityConstraint {
	return &HabitabilityConstraint{Evaluator: acoustics.NewEvaluator(acoustics.Config{}, nil)}
}

// TestHabitabilityConstraint_Passing tests a space within its threshold
func TestHabitabilityConstraint_Passing(t *testing.T) {
	// Noise at A is 70 * 0.02 * 2 = 2.8
	b := setupTestBuilding(t, building.Float(3))

	violations, err := newHabitability().Validate(b)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("Expected 0 violations, got %d: %v", len(violations), violations)
	}
}

// TestHabitabilityConstraint_Failing tests a space above its threshold
func TestHabitabilityConstraint_Failing(t *testing.T) {
	b := setupTestBuilding(t, building.Float(2))

	violations, err := newHabitability().Validate(b)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(violations))
	}

	v := violations[0]
	if v.Type != NoiseExceeded || v.Severity != Error {
		t.Errorf("Unexpected violation kind: %s/%s", v.Type, v.Severity)
	}
	if v.SpaceID != "A" {
		t.Errorf("Expected violation on A, got %s", v.SpaceID)
	}
	if v.Details["threshold"] != 2.0 {
		t.Errorf("Expected threshold detail 2, got %v", v.Details["threshold"])
	}
}

// TestHabitabilityConstraint_NoEvaluator tests the misconfiguration error
func TestHabitabilityConstraint_NoEvaluator(t *testing.T) {
	b := setupTestBuilding(t, nil)

	if _, err := (&HabitabilityConstraint{}).Validate(b); err == nil {
		t.Error("Expected error without evaluator")
	}
}

// TestMaterialReferenceConstraint tests unknown wall materials
func TestMaterialReferenceConstraint(t *testing.T) {
	b := setupTestBuilding(t, nil)
	mustNoErr(t, b.AddSpace(building.Space{ID: "C"}))
	mustNoErr(t, b.AddWall("C", "B", "Concrete"))

	violations, err := (&MaterialReferenceConstraint{}).Validate(b)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Severity != Warning || v.Type != UnknownMaterialReference {
		t.Errorf("Unexpected violation kind: %s/%s", v.Type, v.Severity)
	}
	if v.Wall == nil || *v.Wall != building.NewWallKey("B", "C") {
		t.Errorf("Expected wall B|C, got %v", v.Wall)
	}
}

// TestFrequencyBandConstraint tests sources outside the supported bands
func TestFrequencyBandConstraint(t *testing.T) {
	b := setupTestBuilding(t, nil)
	mustNoErr(t, b.AddNoiseSource(building.NoiseSource{ID: "Drone", Frequency: 1000, Intensity: 40}))

	violations, err := (&FrequencyBandConstraint{}).Validate(b)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(violations))
	}
	if violations[0].SourceID != "Drone" {
		t.Errorf("Expected violation on Drone, got %s", violations[0].SourceID)
	}
}

// TestValidator_WarningsKeepResultValid tests that only errors invalidate
func TestValidator_WarningsKeepResultValid(t *testing.T) {
	b := setupTestBuilding(t, nil)
	mustNoErr(t, b.AddNoiseSource(building.NoiseSource{ID: "Drone", Frequency: 1000, Intensity: 40}))

	result, err := NewDefaultValidator(newHabitability()).Validate(b)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.Valid {
		t.Error("Expected warnings alone to keep the result valid")
	}
	if len(result.GetViolationsBySeverity(Warning)) != 1 {
		t.Errorf("Expected 1 warning, got %d", len(result.GetViolationsBySeverity(Warning)))
	}
	if result.CheckedAt.IsZero() {
		t.Error("Expected CheckedAt to be set")
	}
}

// TestValidator_MultipleConstraints tests aggregation across constraints
func TestValidator_MultipleConstraints(t *testing.T) {
	b := setupTestBuilding(t, building.Float(1))
	mustNoErr(t, b.AddSpace(building.Space{ID: "C"}))
	mustNoErr(t, b.AddWall("A", "C", "Concrete"))

	validator := NewDefaultValidator(newHabitability())
	if len(validator.GetConstraints()) != 3 {
		t.Fatalf("Expected 3 constraints, got %d", len(validator.GetConstraints()))
	}

	result, err := validator.Validate(b)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if result.Valid {
		t.Error("Expected validation to fail")
	}
	if got := len(result.GetViolationsByType(NoiseExceeded)); got != 1 {
		t.Errorf("Expected 1 NoiseExceeded, got %d", got)
	}
	if got := len(result.GetViolationsByType(UnknownMaterialReference)); got != 1 {
		t.Errorf("Expected 1 UnknownMaterialReference, got %d", got)
	}

	validator.ClearConstraints()
	result, err = validator.Validate(b)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.Valid || len(result.Violations) != 0 {
		t.Error("Expected empty validator to pass")
	}
}
