// Package hullview keeps the hull of an anchor collection up to date.
package hullview

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-hull/pkg/anchor"
	"github.com/0x0FACED/go-hull/pkg/logger"
	"github.com/0x0FACED/go-hull/pkg/objexport"
	"github.com/0x0FACED/go-hull/pkg/quickhull"
)

const DefaultDebounce = 200 * time.Millisecond

// minPoints is the smallest cloud QuickHull accepts.
const minPoints = 4

type View struct {
	collection *anchor.Collection
	logger     *logger.ZapLogger
	name       string
	debounced  func(f func())
	onBuilt    func(*quickhull.Hull, error)

	mu     sync.Mutex
	cached []r3.Vector
	hull   *quickhull.Hull
	err    error
}

type options struct {
	logger   *logger.ZapLogger
	name     string
	debounce time.Duration
	onBuilt  func(*quickhull.Hull, error)
}

type Option func(*options)

func WithLogger(l *logger.ZapLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName sets the object name used by ExportOBJ.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithDebounce sets how long Rebuild waits for calls to settle.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// OnBuilt is called after every debounced rebuild, from the rebuild
// goroutine.
func OnBuilt(fn func(*quickhull.Hull, error)) Option {
	return func(o *options) { o.onBuilt = fn }
}

func New(c *anchor.Collection, opts ...Option) *View {
	o := options{
		logger:   logger.Nop(),
		name:     objexport.DefaultName,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &View{
		collection: c,
		logger:     o.logger,
		name:       o.name,
		debounced:  debounce.New(o.debounce),
		onBuilt:    o.onBuilt,
	}
}

// UpdateAnchorPoints refreshes the cached points from the collection.
func (v *View) UpdateAnchorPoints() []r3.Vector {
	pts := v.collection.Points()

	v.mu.Lock()
	v.cached = pts
	v.mu.Unlock()

	v.logger.Debug("[view] anchor points updated", zap.Int("points", len(pts)))
	return append([]r3.Vector(nil), pts...)
}

// AnchorPoints returns a copy of the cached points.
func (v *View) AnchorPoints() []r3.Vector {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]r3.Vector(nil), v.cached...)
}

// BuildConvexHull computes the hull of the cached points, loading them first
// if the cache is empty. With fewer than 4 points it logs a warning and
// returns a nil hull and no error. The previous hull is kept on failure.
func (v *View) BuildConvexHull() (*quickhull.Hull, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.cached) == 0 {
		v.cached = v.collection.Points()
	}
	if len(v.cached) < minPoints {
		v.logger.Warn("[view] at least 4 points are required to build a hull",
			zap.Int("points", len(v.cached)))
		return nil, nil
	}

	hull, err := quickhull.Compute(v.cached, quickhull.WithLogger(v.logger))
	v.err = err
	if err != nil {
		v.logger.Error("[view] hull build failed", zap.Error(err))
		return nil, err
	}

	v.hull = hull
	v.logger.Info("[view] hull built",
		zap.Int("faces", hull.FaceCount()),
		zap.Int("vertices", hull.VertexCount()))
	return hull, nil
}

// Rebuild schedules a refresh of the cache followed by a build. Calls made
// within the debounce window collapse into one build.
func (v *View) Rebuild() {
	v.debounced(func() {
		v.UpdateAnchorPoints()
		hull, err := v.BuildConvexHull()
		if v.onBuilt != nil {
			v.onBuilt(hull, err)
		}
	})
}

// Hull returns the last hull built, nil if there is none.
func (v *View) Hull() *quickhull.Hull {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hull
}

// Err returns the error of the last build attempt.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *View) DeleteConvexHull() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hull = nil
	v.err = nil
}

// ExportOBJ renders the current hull, nil when there is none.
func (v *View) ExportOBJ() []byte {
	hull := v.Hull()
	if hull == nil {
		return nil
	}
	return objexport.Marshal(v.name, hull.Mesh())
}
