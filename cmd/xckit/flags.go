package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xckit/internal/logger"
)

var (
	workers    int64
	logLevel   string
	logFormat  string
	debug      bool
	configFile string

	// levelVar is shared with every logger so serve can change the level on
	// config reload.
	levelVar = new(slog.LevelVar)
	cfg      Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, console, json)",
			Value:       "auto",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Sources:     cli.EnvVars(envConfig),
			Destination: &configFile,
		},
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"j"},
			Usage:       "point blocks evaluated concurrently (0 = GOMAXPROCS)",
			Destination: &workers,
		},
	}
}

// setup loads the config file and installs the process logger.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = configPath()
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	cfg = loaded
	applyGlobalConfig(cmd, cfg)

	if debug {
		logLevel = "debug"
	}
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	format, err := logger.ParseFormat(logFormat)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	levelVar.Set(level)
	log := logger.New(os.Stderr, logger.Options{Format: format, Level: levelVar})
	return logger.WithContext(ctx, log), nil
}
