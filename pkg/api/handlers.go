package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/validation"
	"github.com/dd0wney/cluso-habitat/pkg/visualization"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Building:  snap.Name,
		Stats: building.Stats{
			Materials:    len(snap.Materials),
			NoiseSources: len(snap.NoiseSources),
			Spaces:       len(snap.Spaces),
			Walls:        len(snap.Walls),
		},
		Uptime: time.Since(s.startTime).String(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metricsRegistry == nil {
		s.respondError(w, http.StatusNotFound, "metrics disabled")
		return
	}
	s.metricsHandler().ServeHTTP(w, r)
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.ListSpaces())
}

func (s *Server) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	v, err := s.engine.Space(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, r, "get space", err)
		return
	}
	s.respondJSON(w, http.StatusOK, v)
}

func (s *Server) handleSpaceNoise(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	noise, err := s.engine.EvaluateNoise(id)
	if err != nil {
		s.respondErr(w, r, "evaluate noise", err)
		return
	}
	s.respondJSON(w, http.StatusOK, NoiseResponse{SpaceID: id, Noise: noise})
}

func (s *Server) handleSpaceHabitable(w http.ResponseWriter, r *http.Request) {
	v, err := s.engine.Space(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, r, "is habitable", err)
		return
	}
	s.respondJSON(w, http.StatusOK, HabitableResponse{
		SpaceID:   v.ID,
		Habitable: v.Habitable,
		Noise:     v.Noise,
		Threshold: v.Threshold,
	})
}

func (s *Server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Evaluate())
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Check()
	if err != nil {
		s.respondErr(w, r, "check", err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Snapshot())
}

// handleRender draws the building. Query: mode (habitability, gradient,
// coloring) and format (png, svg, ...).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := visualization.ParseMode(q.Get("mode"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = "png"
	}
	contentType, ok := imageContentTypes[format]
	if !ok {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported image format %q", format))
		return
	}

	scene, err := s.engine.Scene(mode)
	if err != nil {
		s.respondErr(w, r, "render", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if err := visualization.NewRenderer(nil).WriteTo(w, scene, format); err != nil {
		s.logger.Error("render failed", logging.Error(err), logging.String("format", format))
	}
}

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"eps":  "application/postscript",
}

func (s *Server) handleColoring(w http.ResponseWriter, r *http.Request) {
	var req validation.ColoringRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, "coloring", err)
		return
	}
	if err := validation.ValidateColoringRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.engine.ColorGraph(req.Palette)
	if err != nil {
		s.respondErr(w, r, "coloring", err)
		return
	}
	s.respondJSON(w, http.StatusOK, newColoringResponse(c))
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Repair()
	if err != nil {
		s.respondErr(w, r, "repair", err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Reset())
}

func (s *Server) handleUpdateNoiseSource(w http.ResponseWriter, r *http.Request) {
	var req NoiseSourceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondErr(w, r, "update noise source", err)
		return
	}

	ev, err := s.engine.UpdateNoiseSource(validation.NoiseSourceInput{
		ID:        r.PathValue("id"),
		Frequency: string(req.Frequency),
		Intensity: string(req.Intensity),
	})
	if err != nil {
		s.respondErr(w, r, "update noise source", err)
		return
	}
	s.respondJSON(w, http.StatusOK, ev)
}
