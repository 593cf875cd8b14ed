package main

import (
	"io"
	"log/slog"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/scene"
	"github.com/vango-dev/vtree/pkg/middleware"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// loadConfig loads the configuration named by flags, applies the flag
// overrides and validates the result.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// treeOptions returns the reconciler options for cfg: key strategy,
// logger and the enabled observability middleware.
func treeOptions(cfg *config.Config, logger *slog.Logger) []vtree.Option {
	opts := append(cfg.TreeOptions(), vtree.WithLogger(logger))

	var mw []vtree.Middleware
	if cfg.Tracing.Enabled {
		mw = append(mw, middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}
	if cfg.Metrics.Enabled {
		mw = append(mw, middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithSubsystem(cfg.Metrics.Subsystem),
		))
	}
	if len(mw) > 0 {
		opts = append(opts, vtree.WithMiddleware(mw...))
	}
	return opts
}

// sceneLoader returns a loader using cfg's S3 settings.
func sceneLoader(cfg *config.Config) *scene.Loader {
	return &scene.Loader{
		S3Options: scene.S3Options{
			Region:    cfg.Scene.Region,
			Endpoint:  cfg.Scene.Endpoint,
			PathStyle: cfg.Scene.PathStyle,
			Anonymous: cfg.Scene.Anonymous,
		},
	}
}
