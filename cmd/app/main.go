package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/0x0FACED/go-hull/pkg/config"
	"github.com/0x0FACED/go-hull/pkg/logger"
)

const (
	flagConfig      = "config"
	flagAddr        = "addr"
	flagLogFile     = "log-file"
	flagLogLevel    = "log-level"
	flagDebounce    = "debounce"
	flagConcurrency = "concurrency"
	flagPoints      = "points"
	flagWatch       = "watch"
	flagOut         = "out"
	flagName        = "name"
)

func main() {
	app := &cli.App{
		Name:  "go-hull",
		Usage: "convex hulls of anchor point clouds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"HULL_CONFIG"},
			},
			&cli.StringFlag{
				Name:    flagLogFile,
				Usage:   "also write the log to this file (rotated)",
				EnvVars: []string{"HULL_LOG_FILE"},
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"HULL_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			exportCommand(),
			batchCommand(),
		},
	}

	// Ctrl+C гасит сервер и прерывает batch
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "go-hull:", err)
		os.Exit(1)
	}
}

// loadConfig собирает конфиг: значения по умолчанию, затем YAML файл, затем
// флаги и переменные окружения.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet(flagAddr) {
		cfg.Addr = c.String(flagAddr)
	}
	if c.IsSet(flagLogFile) {
		cfg.LogFile = c.String(flagLogFile)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.IsSet(flagDebounce) {
		cfg.Debounce = c.Duration(flagDebounce)
	}
	if c.IsSet(flagConcurrency) {
		cfg.Concurrency = c.Int(flagConcurrency)
	}
	if c.IsSet(flagPoints) {
		cfg.PointsFile = c.String(flagPoints)
	}
	if c.IsSet(flagWatch) {
		cfg.Watch = c.Bool(flagWatch)
	}

	return cfg, errors.Wrap(cfg.Validate(), "invalid config")
}

// newLogger пишет в stderr и, если задан, в файл. Буфер в памяти нужен
// только странице serve.
func newLogger(cfg config.Config, buffered bool) (*logger.ZapLogger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	opts := []logger.Option{logger.WithLevel(level), logger.WithConsole(os.Stderr)}
	if !buffered {
		opts = append(opts, logger.WithoutBuffer())
	}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile))
	}
	return logger.New(opts...), nil
}
