package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/api"
	"github.com/dd0wney/cluso-habitat/pkg/api/middleware"
	"github.com/dd0wney/cluso-habitat/pkg/audit"
	"github.com/dd0wney/cluso-habitat/pkg/config"
	"github.com/dd0wney/cluso-habitat/pkg/fixtures"
	"github.com/dd0wney/cluso-habitat/pkg/graphql"
	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/metrics"
	"github.com/dd0wney/cluso-habitat/pkg/server"
)

func main() {
	env := config.LoadEnv()
	addr := flag.String("addr", env.Addr, "HTTP listen address (or set HABITAT_ADDR)")
	configPath := flag.String("config", env.ConfigPath, "Building YAML file (or set HABITAT_CONFIG; default: embedded demo)")
	origins := flag.String("cors-origins", "", "Comma-separated origins allowed cross-origin access; * allows any")
	gqlDepth := flag.Int("graphql-max-depth", graphql.DefaultMaxDepth, "Maximum GraphQL selection depth")
	historySize := flag.Int("history", audit.DefaultBufferSize, "Number of building changes kept for GET /history")
	shutdownTimeout := flag.Duration("shutdown-timeout", server.DefaultShutdownTimeout, "Graceful shutdown timeout")
	flag.Parse()

	logger := logging.NewJSONLogger(os.Stdout, env.LogLevel).With(logging.Component("habitat-server"))
	logging.SetDefaultLogger(logger)

	logger.Info("habitat server starting", logging.String("version", api.Version))

	cfg, err := fixtures.LoadOrDemo(*configPath)
	if err != nil {
		logger.Error("failed to load building", logging.Path(*configPath), logging.Error(err))
		os.Exit(1)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("configuration warning", logging.String("warning", w))
	}

	reg := metrics.NewRegistry()
	engine, err := habitat.NewFromConfig(cfg, logger, reg)
	if err != nil {
		logger.Error("failed to build engine", logging.Error(err))
		os.Exit(1)
	}
	defer engine.Close()

	ev := engine.Evaluate()
	logger.Info("building loaded",
		logging.String("building", ev.Building),
		logging.Int("spaces", len(ev.Spaces)),
		logging.Int("habitable", ev.Habitable),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	history := audit.NewAuditLogger(*historySize)
	if err := audit.Record(ctx, engine, history, logger); err != nil {
		logger.Error("failed to start change history", logging.Error(err))
		os.Exit(1)
	}

	cors := middleware.DefaultCORSConfig()
	if *origins != "" {
		for _, o := range strings.Split(*origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cors.AllowedOrigins = append(cors.AllowedOrigins, o)
			}
		}
	}

	apiServer, err := api.NewServer(engine, api.Options{
		Logger:          logger,
		Metrics:         reg,
		CORS:            cors,
		History:         history,
		GraphQLMaxDepth: *gqlDepth,
	})
	if err != nil {
		logger.Error("failed to create API server", logging.Error(err))
		os.Exit(1)
	}

	srv := server.NewGracefulServer(*addr, apiServer.Handler(), logger)
	srv.SetShutdownTimeout(*shutdownTimeout)
	srv.SetConfigReloadFunc(reloadFunc(*configPath, engine, logger))

	start := time.Now()
	if err := srv.Start(); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped", logging.Duration("uptime", time.Since(start)))
}

// reloadFunc rebuilds the building from its document on SIGHUP. Evaluator,
// repair and palette settings keep their startup values.
func reloadFunc(path string, engine *habitat.Engine, logger logging.Logger) server.ConfigReloadFunc {
	logger = logging.OrNop(logger)
	return func() error {
		cfg, err := fixtures.LoadOrDemo(path)
		if err != nil {
			return err
		}
		b, err := cfg.Build(logger)
		if err != nil {
			return err
		}
		ev := engine.Replace(b)
		logger.Info("building reloaded",
			logging.String("building", ev.Building),
			logging.Int("habitable", ev.Habitable),
			logging.Int("spaces", len(ev.Spaces)),
		)
		return nil
	}
}
