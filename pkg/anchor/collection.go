package anchor

import (
	"sync"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Marker is one emitted position tagged with the anchor it came from.
type Marker struct {
	ID       string
	Position r3.Vector
}

// Collection holds anchor points by id, in insertion order. It is safe for
// concurrent use as long as points are changed through Update.
type Collection struct {
	mu     sync.RWMutex
	ids    []string
	points map[string]*Point
}

func NewCollection() *Collection {
	return &Collection{points: make(map[string]*Point)}
}

// Add stores a new enabled point at pos under a fresh id.
func (c *Collection) Add(pos r3.Vector) *Point {
	p := NewPoint(uuid.NewString(), pos)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, p.ID)
	c.points[p.ID] = p
	return p
}

func (c *Collection) Get(id string) (*Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.points[id]
	return p, ok
}

// Update runs fn on the point with the given id under the write lock.
func (c *Collection) Update(id string, fn func(p *Point)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.points[id]
	if !ok {
		return false
	}
	fn(p)
	return true
}

// Delete removes the point and hands it back, nil if the id is unknown.
func (c *Collection) Delete(id string) *Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.points[id]
	if !ok {
		return nil
	}
	delete(c.points, id)
	c.ids = lo.Without(c.ids, id)
	return p
}

func (c *Collection) DeleteAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = nil
	c.points = make(map[string]*Point)
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// List returns the points in insertion order.
func (c *Collection) List() []*Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Map(c.ids, func(id string, _ int) *Point { return c.points[id] })
}

// Markers expands every enabled point into its variants.
func (c *Collection) Markers() []Marker {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Marker
	for _, id := range c.ids {
		p := c.points[id]
		if !p.Enabled {
			continue
		}
		for _, v := range p.Variants() {
			out = append(out, Marker{ID: id, Position: v})
		}
	}
	return out
}

// Points is the input of a hull build: the variants of every enabled point,
// with exact duplicates removed. A point lying on a mirror plane emits the
// same position twice, only the first one is kept.
func (c *Collection) Points() []r3.Vector {
	return lo.Uniq(lo.Map(c.Markers(), func(m Marker, _ int) r3.Vector { return m.Position }))
}
