package acoustics

import (
	"sort"

	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
)

// Evaluator sums the noise reaching a space through its walls.
type Evaluator struct {
	sideMultiplier float64
	logger         logging.Logger
}

// NewEvaluator creates an evaluator. A nil logger discards output.
func NewEvaluator(cfg Config, logger logging.Logger) *Evaluator {
	m := cfg.SideMultiplier
	if m == 0 {
		m = DefaultSideMultiplier
	}
	return &Evaluator{
		sideMultiplier: m,
		logger:         logging.OrNop(logger).With(logging.Component("acoustics")),
	}
}

// SideMultiplier returns the multiplier in effect.
func (e *Evaluator) SideMultiplier() float64 {
	return e.sideMultiplier
}

// Evaluate computes the noise total for spaceID. For every wall touching
// the space and every source, it adds intensity * absorption * multiplier.
// Walls naming unknown materials and sources without a matching band are
// skipped and reported as warnings.
//
// Terms are summed in (wall, source) key order so the total does not
// depend on map iteration order.
func (e *Evaluator) Evaluate(
	spaceID string,
	materials map[string]building.Material,
	sources map[string]building.NoiseSource,
	walls map[building.WallKey]string,
) Result {
	keys := make([]building.WallKey, 0, 4)
	for k := range walls {
		if k.Touches(spaceID) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	sourceIDs := make([]string, 0, len(sources))
	for id := range sources {
		sourceIDs = append(sourceIDs, id)
	}
	sort.Strings(sourceIDs)

	res := Result{SpaceID: spaceID}
	for _, k := range keys {
		materialID := walls[k]
		mat, ok := materials[materialID]
		if !ok {
			w := Warning{Kind: UnknownMaterialReference, SpaceID: spaceID, Wall: k, MaterialID: materialID}
			res.Warnings = append(res.Warnings, w)
			e.logger.Warn("skipping wall with unknown material",
				logging.SpaceID(spaceID), logging.Wall(k.A, k.B), logging.MaterialID(materialID))
			continue
		}

		for _, id := range sourceIDs {
			src := sources[id]
			absorption, ok := mat.Absorption(src.Frequency)
			if !ok {
				w := Warning{
					Kind:       UnsupportedFrequencyBand,
					SpaceID:    spaceID,
					Wall:       k,
					MaterialID: materialID,
					SourceID:   id,
					Frequency:  src.Frequency,
				}
				res.Warnings = append(res.Warnings, w)
				e.logger.Warn("skipping source with unsupported frequency band",
					logging.SpaceID(spaceID), logging.MaterialID(materialID),
					logging.SourceID(id), logging.Frequency(src.Frequency))
				continue
			}

			value := src.Intensity * absorption * e.sideMultiplier
			res.Contributions = append(res.Contributions, Contribution{
				Wall:       k,
				MaterialID: materialID,
				SourceID:   id,
				Intensity:  src.Intensity,
				Absorption: absorption,
				Value:      value,
			})
			res.Total += value
		}
	}

	e.logger.Debug("evaluated space",
		logging.SpaceID(spaceID), logging.Noise(res.Total), logging.Count(len(res.Contributions)))
	return res
}

// EvaluateBuilding evaluates spaceID against the building's current state.
func (e *Evaluator) EvaluateBuilding(b *building.Building, spaceID string) (Result, error) {
	if !b.HasSpace(spaceID) {
		return Result{}, building.NewError("EvaluateNoise").Space(spaceID).Cause(building.ErrSpaceNotFound).Build()
	}
	return e.Evaluate(spaceID, b.MaterialIndex(), b.SourceIndex(), b.WallIndex()), nil
}

// EvaluateAll evaluates every space in registration order.
func (e *Evaluator) EvaluateAll(b *building.Building) []Result {
	materials, sources, walls := b.MaterialIndex(), b.SourceIndex(), b.WallIndex()
	out := make([]Result, 0, len(b.SpaceIDs()))
	for _, id := range b.SpaceIDs() {
		out = append(out, e.Evaluate(id, materials, sources, walls))
	}
	return out
}
