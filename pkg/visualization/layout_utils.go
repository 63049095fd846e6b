package visualization

import "math"

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Point, width, height, padding float64) map[string]Point {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[string]Point, len(positions))
	for id, pos := range positions {
		normalized[id] = Point{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}

	return normalized
}

func defaultConfig(config *LayoutConfig) *LayoutConfig {
	if config == nil {
		config = &LayoutConfig{}
	}
	if config.Width == 0 {
		config.Width = 100
	}
	if config.Height == 0 {
		config.Height = 100
	}
	if config.Padding == 0 {
		config.Padding = 10
	}
	return config
}
