package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// MaterialReferenceConstraint reports walls naming unregistered materials.
type MaterialReferenceConstraint struct{}

// Name returns the constraint name
func (mc *MaterialReferenceConstraint) Name() string {
	return "MaterialReferenceConstraint"
}

// Validate checks every wall's material against the registry.
func (mc *MaterialReferenceConstraint) Validate(b BuildingReader) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, wall := range b.Walls() {
		if _, ok := b.Material(wall.MaterialID); ok {
			continue
		}
		key := wall.Key
		violations = append(violations, Violation{
			Type:       UnknownMaterialReference,
			Severity:   Warning,
			Wall:       &key,
			Constraint: mc.Name(),
			Message:    fmt.Sprintf("Wall %s references unknown material '%s'", key, wall.MaterialID),
			Details: map[string]any{
				"material": wall.MaterialID,
			},
		})
	}

	return violations, nil
}

// FrequencyBandConstraint reports noise sources whose frequency has no
// absorption band.
type FrequencyBandConstraint struct{}

// Name returns the constraint name
func (fc *FrequencyBandConstraint) Name() string {
	return "FrequencyBandConstraint"
}

// Validate checks every source frequency against the supported bands.
func (fc *FrequencyBandConstraint) Validate(b BuildingReader) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, src := range b.NoiseSources() {
		if building.SupportsBand(src.Frequency) {
			continue
		}
		violations = append(violations, Violation{
			Type:       UnsupportedFrequencyBand,
			Severity:   Warning,
			SourceID:   src.ID,
			Constraint: fc.Name(),
			Message:    fmt.Sprintf("Noise source %s frequency %d Hz has no absorption band", src.ID, src.Frequency),
			Details: map[string]any{
				"frequency_hz":    src.Frequency,
				"supported_bands": building.Bands,
			},
		})
	}

	return violations, nil
}
