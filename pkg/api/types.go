package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/algorithms"
	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// API Request/Response Types

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Building  string         `json:"building"`
	Stats     building.Stats `json:"stats"`
	Uptime    string         `json:"uptime"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NoiseResponse is returned by GET /spaces/{id}/noise.
type NoiseResponse struct {
	SpaceID string  `json:"space_id"`
	Noise   float64 `json:"noise"`
}

// HabitableResponse is returned by GET /spaces/{id}/habitable.
type HabitableResponse struct {
	SpaceID   string   `json:"space_id"`
	Habitable bool     `json:"habitable"`
	Noise     float64  `json:"noise"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// ColoringResponse is returned by POST /coloring.
type ColoringResponse struct {
	Assignments map[string]string `json:"assignments"`
	Order       []string          `json:"order"`
	ColorsUsed  int               `json:"colors_used"`
}

func newColoringResponse(c *algorithms.Coloring) ColoringResponse {
	return ColoringResponse{
		Assignments: c.Assignments,
		Order:       c.Order,
		ColorsUsed:  c.ColorsUsed,
	}
}

// NoiseSourceRequest is the body of PUT /noise-sources/{id}. Numbers may be
// sent as JSON numbers or strings; both are validated as text.
type NoiseSourceRequest struct {
	Frequency rawNumber `json:"frequency"`
	Intensity rawNumber `json:"intensity"`
}

// rawNumber keeps the literal text of a JSON number or string.
type rawNumber string

func (n *rawNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = rawNumber(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	*n = rawNumber(data)
	return nil
}
