package main

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xckit/internal/api"
	"github.com/samcharles93/xckit/internal/logger"
	"github.com/samcharles93/xckit/internal/xc"
	"github.com/samcharles93/xckit/internal/xclib"
)

func serveCmd() *cli.Command {
	var (
		settings    = serveSettings{addr: "127.0.0.1:8080", rateBurst: 10, maxPoints: 1 << 20, storeSize: 256}
		readTimeout time.Duration
		watch       bool
	)

	flags := append([]cli.Flag{}, engineFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       settings.addr,
			Destination: &settings.addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.Float64Flag{
			Name:        "rate-limit",
			Usage:       "evaluation requests per second (0 = unlimited)",
			Destination: &settings.rateLimit,
		},
		&cli.Int64Flag{
			Name:        "rate-burst",
			Usage:       "evaluation request burst",
			Value:       settings.rateBurst,
			Destination: &settings.rateBurst,
		},
		&cli.Int64Flag{
			Name:        "max-points",
			Usage:       "largest grid accepted per request (0 = unbounded)",
			Value:       settings.maxPoints,
			Destination: &settings.maxPoints,
		},
		&cli.Int64Flag{
			Name:        "store-size",
			Usage:       "evaluation results kept for retrieval",
			Value:       settings.storeSize,
			Destination: &settings.storeSize,
		},
		&cli.BoolFlag{
			Name:        "watch-config",
			Usage:       "reload log level and rate limit when the config file changes",
			Value:       true,
			Destination: &watch,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the evaluation REST API",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyEngineConfig(cmd, cfg, nil, nil)
			applyServeConfig(cmd, cfg, &settings)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			server := api.NewServer(api.Config{
				Engine:    xc.New(int(workers), log),
				Catalog:   xclib.Builtin,
				Store:     api.NewResultStore(int(settings.storeSize)),
				Limiter:   api.NewLimiter(settings.rateLimit, int(settings.rateBurst)),
				Log:       log,
				Registry:  reg,
				MaxPoints: int(settings.maxPoints),
			})

			if path := activeConfigPath(); watch && path != "" {
				w, err := watchConfig(ctx, path, log, func(c Config) {
					reloadConfig(cmd, c, server, log)
				})
				if err != nil {
					log.Warn("config watch disabled", "path", path, "error", err)
				} else {
					defer func() { _ = w.Close() }()
				}
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", settings.addr, "rate_limit", settings.rateLimit, "max_points", settings.maxPoints)
			sc := echo.StartConfig{
				Address: settings.addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

func activeConfigPath() string {
	if configFile != "" {
		return configFile
	}
	return configPath()
}

// reloadConfig applies the reloadable subset of c: log level and rate limit.
// Flags given on the command line keep precedence.
func reloadConfig(cmd *cli.Command, c Config, server *api.Server, log logger.Logger) {
	if c.LogLevel != "" && !cmd.IsSet("log-level") && !debug {
		level, err := logger.ParseLevel(c.LogLevel)
		if err != nil {
			log.Warn("ignoring log level from config", "error", err)
		} else {
			levelVar.Set(level)
		}
	}
	var perSecond float64
	var burst int
	if c.RateLimit != nil && !cmd.IsSet("rate-limit") {
		perSecond = *c.RateLimit
	}
	if c.RateBurst != nil && !cmd.IsSet("rate-burst") {
		burst = int(*c.RateBurst)
	}
	server.SetRateLimit(perSecond, burst)
	log.Info("config reloaded", "log_level", levelVar.Level().String())
}

// watchConfig calls apply with the parsed config whenever path is written or
// replaced. The parent directory is watched so editors that rename over the
// file are seen.
func watchConfig(ctx context.Context, path string, log logger.Logger, apply func(Config)) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	clean := filepath.Clean(path)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != clean || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				c, err := LoadConfig(path)
				if err != nil {
					log.Warn("config reload failed", "path", path, "error", err)
					continue
				}
				apply(c)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", "error", err)
			}
		}
	}()
	return w, nil
}
