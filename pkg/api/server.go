// Package api serves the habitat engine over HTTP.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/api/middleware"
	"github.com/dd0wney/cluso-habitat/pkg/audit"
	"github.com/dd0wney/cluso-habitat/pkg/graphql"
	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/dd0wney/cluso-habitat/pkg/health"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported by GET /health.
const Version = "1.0.0"

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Logger logging.Logger
	// Metrics backs GET /metrics and the HTTP middleware. Nil disables both.
	Metrics *metrics.Registry
	CORS    *middleware.CORSConfig
	// History backs GET /history. Nil disables it.
	History *audit.AuditLogger
	// MaxBodyBytes defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// GraphQLMaxDepth defaults to graphql.DefaultMaxDepth.
	GraphQLMaxDepth int
}

// Server represents the HTTP API server
type Server struct {
	engine          *habitat.Engine
	graphqlHandler  *graphql.GraphQLHandler
	health          *health.HealthChecker
	metricsRegistry *metrics.Registry
	history         *audit.AuditLogger
	logger          logging.Logger
	cors            *middleware.CORSConfig
	maxBodyBytes    int64
	startTime       time.Time
	version         string
}

// NewServer creates a new API server
func NewServer(engine *habitat.Engine, opts Options) (*Server, error) {
	logger := logging.OrNop(opts.Logger).With(logging.Component("api"))

	schema, err := graphql.NewSchema(engine)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}
	gql := graphql.NewGraphQLHandler(schema, opts.Logger)
	if opts.GraphQLMaxDepth > 0 {
		gql.WithMaxDepth(opts.GraphQLMaxDepth)
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	return &Server{
		engine:          engine,
		graphqlHandler:  gql,
		health:          newHealthChecker(engine),
		metricsRegistry: opts.Metrics,
		history:         opts.History,
		logger:          logger,
		cors:            opts.CORS,
		maxBodyBytes:    maxBody,
		startTime:       time.Now(),
		version:         Version,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/live", s.health.LivenessHandler())
	mux.HandleFunc("GET /health/ready", s.health.ReadinessHandler())
	mux.HandleFunc("GET /health/checks", s.health.HTTPHandler())
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /spaces", s.handleListSpaces)
	mux.HandleFunc("GET /spaces/{id}", s.handleGetSpace)
	mux.HandleFunc("GET /spaces/{id}/noise", s.handleSpaceNoise)
	mux.HandleFunc("GET /spaces/{id}/habitable", s.handleSpaceHabitable)
	mux.HandleFunc("GET /evaluation", s.handleEvaluation)
	mux.HandleFunc("GET /check", s.handleCheck)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /render", s.handleRender)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /history", s.handleHistory)

	mux.HandleFunc("POST /coloring", s.handleColoring)
	mux.HandleFunc("POST /repair", s.handleRepair)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("PUT /noise-sources/{id}", s.handleUpdateNoiseSource)

	mux.Handle("/graphql", s.graphqlHandler)

	var handler http.Handler = mux
	handler = middleware.Recovery(s.logger)(handler)
	handler = middleware.BodySizeLimit(s.maxBodyBytes)(handler)
	if s.metricsRegistry != nil {
		handler = middleware.Metrics(s.metricsRegistry)(handler)
	}
	handler = middleware.CORS(s.cors)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	return handler
}

// newHealthChecker wires probes to the engine. Readiness needs a loaded
// building; habitability only shows up in the full report.
func newHealthChecker(engine *habitat.Engine) *health.HealthChecker {
	hc := health.NewHealthChecker()
	buildingCheck := health.BuildingCheck(func() (string, int, int) {
		snap := engine.Snapshot()
		return snap.Name, len(snap.Spaces), len(snap.Walls)
	})

	hc.RegisterLivenessCheck("process", health.AliveCheck())
	hc.RegisterReadinessCheck("building", buildingCheck)

	hc.RegisterCheck("building", buildingCheck)
	hc.RegisterCheck("habitability", health.HabitabilityCheck(func() ([]string, int) {
		spaces := engine.ListSpaces()
		var failing []string
		for _, sp := range spaces {
			if !sp.Habitable {
				failing = append(failing, sp.ID)
			}
		}
		return failing, len(spaces)
	}))
	hc.RegisterCheck("memory", health.MemoryCheck(health.RuntimeMemory))
	return hc
}

// metricsHandler refreshes the system gauges before each scrape.
func (s *Server) metricsHandler() http.Handler {
	inner := promhttp.HandlerFor(s.metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metricsRegistry.UpdateSystemMetrics(s.startTime)
		inner.ServeHTTP(w, r)
	})
}
