package main

import (
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-hull/pkg/objexport"
	"github.com/0x0FACED/go-hull/pkg/quickhull"
)

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "build the hulls of many anchor CSVs in parallel, one OBJ per file",
		ArgsUsage: "<anchors.csv>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagOut,
				Aliases: []string{"o"},
				Usage:   "output directory, next to each input when empty",
			},
			&cli.IntFlag{
				Name:  flagConcurrency,
				Usage: "hulls built at once, 0 for GOMAXPROCS",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("batch needs at least one CSV file", 2)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer log.Sync()

			inputs := c.Args().Slice()
			clouds := make([][]r3.Vector, len(inputs))
			for i, input := range inputs {
				if clouds[i], err = readPoints(input, log); err != nil {
					return err
				}
			}

			hulls, err := quickhull.ComputeAll(c.Context, clouds,
				quickhull.WithConcurrency(cfg.Concurrency),
				quickhull.WithHullOptions(quickhull.WithLogger(log)))
			if err != nil {
				return err
			}

			var errs error
			for i, input := range inputs {
				out := outputPath(input, c.String(flagOut))
				if err := writeOBJ(out, objectName(input), hulls[i]); err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				log.Info("[app] hull written",
					zap.String("input", input),
					zap.String("output", out),
					zap.Int("faces", hulls[i].FaceCount()))
			}
			return errs
		},
	}
}

func outputPath(input, dir string) string {
	name := objectName(input) + ".obj"
	if dir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(dir, name)
}

func writeOBJ(path, name string, hull *quickhull.Hull) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return objexport.Write(f, name, hull.Mesh())
}
