package anchor

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// CSVHeader is written as the first line of every export.
const CSVHeader = "# x, y, z, enabled, mirrorX, mirrorY, mirrorZ, radialMirrorX, radialMirrorY, radialMirrorZ, radialMirrorO"

// ErrBadRecord marks a CSV row that could not be turned into a point.
var ErrBadRecord = errors.New("bad anchor record")

// WriteCSV writes the header then one row per point, in insertion order.
func (c *Collection) WriteCSV(w io.Writer) error {
	if _, err := io.WriteString(w, CSVHeader+"\n"); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	cw := csv.NewWriter(w)
	for _, p := range c.List() {
		if err := cw.Write(record(p)); err != nil {
			return errors.Wrapf(err, "write anchor %s", p.ID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func record(p *Point) []string {
	row := []string{
		formatFloat(p.Position.X),
		formatFloat(p.Position.Y),
		formatFloat(p.Position.Z),
		strconv.FormatBool(p.Enabled),
	}
	for _, m := range Mirrors {
		row = append(row, strconv.FormatBool(p.mirrors[m]))
	}
	return row
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ReadCSV adds one point per row to the collection. Lines starting with #
// are skipped. Only the coordinates are required: a missing enabled column
// means enabled, missing mirror columns mean off. Bad rows are skipped and
// reported together once the whole input has been read; the good rows are
// added either way.
func (c *Collection) ReadCSV(r io.Reader) ([]*Point, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var (
		added []*Point
		errs  error
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// the reader can't resync after a syntax error
			return added, multierr.Append(errs, errors.Wrap(err, "read csv"))
		}

		line, _ := cr.FieldPos(0)
		pos, flags, err := parseRecord(row)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "line %d", line))
			continue
		}

		p := c.Add(pos)
		c.Update(p.ID, func(p *Point) {
			p.Enabled = flags[0]
			for i, m := range Mirrors {
				p.mirrors[m] = flags[i+1]
			}
		})
		added = append(added, p)
	}
	return added, errs
}

// parseRecord returns the position and the enabled flag followed by the
// seven mirror flags.
func parseRecord(row []string) (r3.Vector, [1 + mirrorCount]bool, error) {
	var flags [1 + mirrorCount]bool
	flags[0] = true

	if len(row) < 3 || len(row) > len(flags)+3 {
		return r3.Vector{}, flags, errors.Wrapf(ErrBadRecord, "%d fields", len(row))
	}

	var coords [3]float64
	for i := range coords {
		f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return r3.Vector{}, flags, errors.Wrapf(ErrBadRecord, "coordinate %d: %v", i, err)
		}
		coords[i] = f
	}

	for i, field := range row[3:] {
		b, err := strconv.ParseBool(strings.TrimSpace(field))
		if err != nil {
			return r3.Vector{}, flags, errors.Wrapf(ErrBadRecord, "flag %d: %q", i, field)
		}
		flags[i] = b
	}

	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, flags, nil
}
