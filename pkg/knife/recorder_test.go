package knife

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
)

func TestRecorder_Decimation(t *testing.T) {
	tests := []struct {
		name       string
		decimation Decimation
		next       orb.Point
		wantKept   bool
	}{
		{"legacy below", DecimateLegacy, orb.Point{2, 0}, false},
		{"legacy at threshold", DecimateLegacy, orb.Point{2, 2}, true},
		{"legacy above", DecimateLegacy, orb.Point{3, 0}, true},
		{"squared below", DecimateSquared, orb.Point{7, 0}, false},
		{"squared at threshold", DecimateSquared, orb.Point{8, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder(newFakeSurface(geom.Identity()), Options{Decimation: tt.decimation})
			if !r.RecordPoint(orb.Point{0, 0}) {
				t.Fatal("first point must always be kept")
			}
			if got := r.RecordPoint(tt.next); got != tt.wantKept {
				t.Errorf("RecordPoint(%v) = %v, want %v", tt.next, got, tt.wantKept)
			}
			want := 1
			if tt.wantKept {
				want = 2
			}
			if r.Len() != want {
				t.Errorf("Len() = %d, want %d", r.Len(), want)
			}
		})
	}
}

func TestRecorder_SubThresholdIsIdempotent(t *testing.T) {
	s := newFakeSurface(geom.Identity())
	r := NewRecorder(s, DefaultOptions())
	r.RecordPoint(orb.Point{10, 10})
	repaints := s.repaints

	for i := 0; i < 5; i++ {
		r.RecordPoint(orb.Point{11, 10})
	}

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if s.repaints != repaints {
		t.Errorf("repaints = %d, want %d", s.repaints, repaints)
	}
}

func TestRecorder_ConvertsToLocalSpace(t *testing.T) {
	r := NewRecorder(newFakeSurface(geom.Translate(100, 50)), DefaultOptions())
	r.RecordPoint(orb.Point{110, 60})

	pts := r.Points()
	if len(pts) != 1 || pts[0] != (orb.Point{10, 10}) {
		t.Errorf("Points() = %v, want [[10 10]]", pts)
	}
}

func TestRecorder_ResetRequestsRepaint(t *testing.T) {
	s := newFakeSurface(geom.Identity())
	r := NewRecorder(s, DefaultOptions())
	r.RecordPoint(orb.Point{0, 0})
	r.RecordPoint(orb.Point{20, 0})
	if s.repaints != 2 {
		t.Fatalf("repaints = %d, want 2", s.repaints)
	}

	r.Reset()

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if s.repaints != 3 {
		t.Errorf("repaints = %d, want 3", s.repaints)
	}
}

func TestRecorder_BoundingBox(t *testing.T) {
	r := NewRecorder(newFakeSurface(geom.Identity()), DefaultOptions())
	if _, ok := r.BoundingBox(); ok {
		t.Error("BoundingBox() ok on empty path")
	}

	r.RecordPoint(orb.Point{5, -3})
	r.RecordPoint(orb.Point{-2, 9})
	r.RecordPoint(orb.Point{8, 4})

	b, ok := r.BoundingBox()
	if !ok {
		t.Fatal("BoundingBox() not ok")
	}
	want := orb.Bound{Min: orb.Point{-2, -3}, Max: orb.Point{8, 9}}
	if b != want {
		t.Errorf("BoundingBox() = %v, want %v", b, want)
	}
}

func TestRecorder_PointsIsCopy(t *testing.T) {
	r := NewRecorder(newFakeSurface(geom.Identity()), DefaultOptions())
	r.RecordPoint(orb.Point{1, 1})
	pts := r.Points()
	pts[0] = orb.Point{99, 99}

	if got := r.Points()[0]; got != (orb.Point{1, 1}) {
		t.Errorf("recorder mutated through Points(): %v", got)
	}
}
