package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-hull/pkg/anchor"
	"github.com/0x0FACED/go-hull/pkg/logger"
	"github.com/0x0FACED/go-hull/pkg/objexport"
	"github.com/0x0FACED/go-hull/pkg/quickhull"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "build the hull of an anchor CSV and write it as OBJ",
		ArgsUsage: "<anchors.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagOut,
				Aliases: []string{"o"},
				Usage:   "output file, stdout when empty",
			},
			&cli.StringFlag{
				Name:  flagName,
				Usage: "object name, the input file name when empty",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("export needs exactly one CSV file", 2)
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

			input := c.Args().First()
			pts, err := readPoints(input, log)
			if err != nil {
				return err
			}

			hull, err := quickhull.Compute(pts, quickhull.WithLogger(log))
			if err != nil {
				return errors.Wrapf(err, "hull of %s", input)
			}

			name := c.String(flagName)
			if name == "" {
				name = objectName(input)
			}

			var out io.Writer = os.Stdout
			if path := c.String(flagOut); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return errors.Wrap(err, "create output")
				}
				defer f.Close()
				out = f
			}
			return objexport.Write(out, name, hull.Mesh())
		},
	}
}

// readPoints loads an anchor CSV and returns the cloud to build the hull of.
// Bad rows are logged and skipped.
func readPoints(path string, log *logger.ZapLogger) ([]r3.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open anchors")
	}
	defer f.Close()

	anchors := anchor.NewCollection()
	if _, err := anchors.ReadCSV(f); err != nil {
		log.Warn("[app] skipped bad rows", zap.String("file", path), zap.Error(err))
	}

	pts := anchors.Points()
	log.Debug("[app] points read",
		zap.String("file", path),
		zap.Int("anchors", anchors.Len()),
		zap.Int("points", len(pts)))
	return pts, nil
}

func objectName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
