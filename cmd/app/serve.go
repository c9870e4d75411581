package main

import (
	"context"
	"fmt"
	"html/template"
	"math"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-hull/pkg/anchor"
	"github.com/0x0FACED/go-hull/pkg/config"
	"github.com/0x0FACED/go-hull/pkg/hullview"
	"github.com/0x0FACED/go-hull/pkg/logger"
	"github.com/0x0FACED/go-hull/pkg/quickhull"
	"github.com/0x0FACED/go-hull/static"
)

var anchorsTmpl = template.Must(template.New("anchors").Parse(static.Anchors))

var mirrorsByName = lo.KeyBy(anchor.Mirrors[:], func(m anchor.Mirror) string { return m.String() })

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the preview page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagAddr,
				Usage:   "listen address",
				EnvVars: []string{"HULL_ADDR"},
			},
			&cli.StringFlag{
				Name:    flagPoints,
				Aliases: []string{"p"},
				Usage:   "anchor CSV loaded at startup",
				EnvVars: []string{"HULL_POINTS"},
			},
			&cli.BoolFlag{
				Name:  flagWatch,
				Usage: "reload the anchor CSV when it changes",
			},
			&cli.DurationFlag{
				Name:  flagDebounce,
				Usage: "delay before a rebuild after the CSV changes",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg, true)
			if err != nil {
				return err
			}
			defer log.Sync()

			return newServer(cfg, log).run(c.Context)
		},
	}
}

type server struct {
	cfg     config.Config
	log     *logger.ZapLogger
	anchors *anchor.Collection
	view    *hullview.View
}

func newServer(cfg config.Config, log *logger.ZapLogger) *server {
	anchors := anchor.NewCollection()
	s := &server{
		cfg:     cfg,
		log:     log,
		anchors: anchors,
	}
	s.view = hullview.New(anchors,
		hullview.WithLogger(log),
		hullview.WithDebounce(cfg.Debounce),
		hullview.OnBuilt(func(hull *quickhull.Hull, err error) {
			if err == nil && hull != nil {
				log.Info("[app] hull rebuilt after reload", zap.Int("faces", hull.FaceCount()))
			}
		}))
	return s
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.pageHandler)
	mux.HandleFunc("/hull.obj", s.objHandler)
	mux.HandleFunc("/anchors.csv", s.csvHandler)
	return mux
}

func (s *server) run(ctx context.Context) error {
	if s.cfg.PointsFile != "" {
		if err := s.reload(); err != nil {
			return err
		}
		s.view.UpdateAnchorPoints()
		s.view.BuildConvexHull()
	}

	if s.cfg.Watch {
		watcher, err := s.watch(ctx)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("[app] server started", zap.String("addr", s.cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen")
	}
	return nil
}

// reload заменяет все точки содержимым PointsFile.
func (s *server) reload() error {
	f, err := os.Open(s.cfg.PointsFile)
	if err != nil {
		return errors.Wrap(err, "open points file")
	}
	defer f.Close()

	s.anchors.DeleteAll()
	added, err := s.anchors.ReadCSV(f)
	if err != nil {
		// плохие строки пропущены, остальные точки уже добавлены
		s.log.Warn("[app] points file has bad rows", zap.Error(err))
	}
	s.log.Info("[app] points loaded",
		zap.String("file", s.cfg.PointsFile),
		zap.Int("anchors", len(added)))
	return nil
}

// watch следит за каталогом файла: редакторы часто пишут новый файл и
// переименовывают его поверх старого.
func (s *server) watch(ctx context.Context) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "new watcher")
	}

	target := filepath.Clean(s.cfg.PointsFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "watch points file")
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := s.reload(); err != nil {
					s.log.Error("[app] reload failed", zap.Error(err))
					continue
				}
				s.view.Rebuild()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Error("[app] watcher error", zap.Error(err))
			}
		}
	}()

	return watcher, nil
}

// http обработчик страницы с оболочкой и формами для точек
func (s *server) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.log.ClearLogs()
		if err := s.apply(r); err != nil {
			s.log.Error("[app] action failed", zap.Error(err))
		}
		// старая оболочка не должна пережить неудачную сборку
		s.view.UpdateAnchorPoints()
		s.view.DeleteConvexHull()
		s.view.BuildConvexHull()
	}

	scatter := hullToEcharts(s.anchors.Markers(), s.view.Hull())

	fmt.Fprintln(w, static.Part1)

	if err := scatter.Render(w); err != nil {
		s.log.Error("[app] chart render failed", zap.Error(err))
	}

	if err := anchorsTmpl.Execute(w, anchorRows(s.anchors.List())); err != nil {
		s.log.Error("[app] anchors render failed", zap.Error(err))
	}

	fmt.Fprintln(w, static.Part2)

	// Вставляем логи в HTML
	fmt.Fprintln(w, s.log.HTML())

	fmt.Fprintln(w, static.Part3)
}

// apply выполняет действие формы.
func (s *server) apply(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parse form")
	}

	switch action := r.FormValue("action"); action {
	case "add":
		pos, err := parseVector(r.FormValue("x"), r.FormValue("y"), r.FormValue("z"))
		if err != nil {
			return err
		}
		p := s.anchors.Add(pos)
		s.anchors.Update(p.ID, func(p *anchor.Point) {
			for _, name := range r.Form["mirror"] {
				if m, ok := mirrorsByName[name]; ok {
					p.SetMirror(m, true)
				}
			}
		})
		s.log.Info("[app] anchor added", zap.String("id", p.ID), zap.Any("position", pos))

	case "random":
		count, err := strconv.Atoi(r.FormValue("count"))
		if err != nil || count <= 0 {
			return errors.Errorf("bad count %q", r.FormValue("count"))
		}
		radius, err := strconv.ParseFloat(r.FormValue("radius"), 64)
		if err != nil || radius <= 0 {
			return errors.Errorf("bad radius %q", r.FormValue("radius"))
		}
		for _, p := range randomPoints(count, radius) {
			s.anchors.Add(p)
		}
		s.log.Info("[app] random anchors added", zap.Int("count", count), zap.Float64("radius", radius))

	case "toggle":
		id := r.FormValue("id")
		if !s.anchors.Update(id, func(p *anchor.Point) { p.Enable(!p.Enabled) }) {
			return errors.Errorf("no anchor %q", id)
		}

	case "delete":
		id := r.FormValue("id")
		if s.anchors.Delete(id) == nil {
			return errors.Errorf("no anchor %q", id)
		}

	case "clear":
		s.anchors.DeleteAll()
		s.log.Info("[app] all anchors deleted")

	default:
		return errors.Errorf("unknown action %q", action)
	}
	return nil
}

func (s *server) objHandler(w http.ResponseWriter, r *http.Request) {
	obj := s.view.ExportOBJ()
	if obj == nil {
		http.Error(w, "no hull", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="hull.obj"`)
	w.Write(obj)
}

func (s *server) csvHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="anchors.csv"`)
	if err := s.anchors.WriteCSV(w); err != nil {
		s.log.Error("[app] csv export failed", zap.Error(err))
	}
}

func parseVector(xs, ys, zs string) (r3.Vector, error) {
	var c [3]float64
	for i, s := range []string{xs, ys, zs} {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return r3.Vector{}, errors.Errorf("bad coordinate %q", s)
		}
		c[i] = f
	}
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}, nil
}

// Генерируем случайные точки в шаре радиуса radius
func randomPoints(n int, radius float64) []r3.Vector {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	points := make([]r3.Vector, 0, n)
	for len(points) < n {
		p := r3.Vector{
			X: (2*rng.Float64() - 1) * radius,
			Y: (2*rng.Float64() - 1) * radius,
			Z: (2*rng.Float64() - 1) * radius,
		}
		if p.Norm() <= radius {
			points = append(points, p)
		}
	}
	return points
}

type anchorRow struct {
	ID      string
	Color   string
	X, Y, Z string
	Mirrors string
	Enabled bool
}

func anchorRows(points []*anchor.Point) []anchorRow {
	return lo.Map(points, func(p *anchor.Point, _ int) anchorRow {
		mirrors := lo.Filter(anchor.Mirrors[:], func(m anchor.Mirror, _ int) bool { return p.Mirrored(m) })
		return anchorRow{
			ID:    p.ID,
			Color: anchor.Color(p.ID),
			X:     strconv.FormatFloat(p.Position.X, 'g', 6, 64),
			Y:     strconv.FormatFloat(p.Position.Y, 'g', 6, 64),
			Z:     strconv.FormatFloat(p.Position.Z, 'g', 6, 64),
			Mirrors: strings.Join(lo.Map(mirrors, func(m anchor.Mirror, _ int) string {
				return m.String()
			}), " "),
			Enabled: p.Enabled,
		}
	})
}
