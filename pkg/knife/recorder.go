package knife

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/edgeknife/pkg/geom"
)

// Recorder accumulates the knife path in its surface's local space.
//
// Consecutive points are never closer than the configured threshold; the first
// point is always accepted. Every accepted point and every reset asks the surface
// to repaint.
type Recorder struct {
	surface   Surface
	points    []orb.Point
	threshold float64
}

// NewRecorder returns an empty recorder drawing on s.
func NewRecorder(s Surface, opts Options) *Recorder {
	opts = opts.withDefaults()
	return &Recorder{surface: s, threshold: opts.threshold()}
}

// Reset discards all points.
func (r *Recorder) Reset() {
	r.points = r.points[:0]
	r.surface.MarkDirtyRepaint()
}

// RecordPoint converts a world-space position into the surface's local space and
// appends it unless it lies within the threshold of the last point. It reports
// whether the point was kept.
func (r *Recorder) RecordPoint(world orb.Point) bool {
	local := geom.Convert(nil, r.surface, world)
	if n := len(r.points); n > 0 && planar.DistanceSquared(r.points[n-1], local) < r.threshold {
		return false
	}
	r.points = append(r.points, local)
	r.surface.MarkDirtyRepaint()
	return true
}

// Len returns the number of recorded points.
func (r *Recorder) Len() int { return len(r.points) }

// Points returns a copy of the recorded path, in local space.
func (r *Recorder) Points() orb.LineString {
	return append(orb.LineString(nil), r.points...)
}

// BoundingBox returns the bound of the recorded points in local space.
// ok is false when nothing has been recorded.
func (r *Recorder) BoundingBox() (b orb.Bound, ok bool) {
	return geom.BoundOf(r.points)
}

// Space returns the space the points are expressed in.
func (r *Recorder) Space() geom.Space { return r.surface }

// Crossings resolves the recorded path against g. See [Crossings].
func (r *Recorder) Crossings(g Graph) []Crossing {
	return CollectCrossings(Crossings(r.points, r.surface, g))
}
