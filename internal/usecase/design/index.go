package design

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"lineplan/internal/domain/design"
	"lineplan/internal/infra/geo"
)

// SpatialIndex is the Spatial Index (S2): a read-only, request-scoped
// set of indices over the pole/line/building collections normalized by
// S1. It is built once per request and never mutated afterward (§4.2).
//
// Roads are deliberately not indexed here. The Road Graph Builder (S4)
// needs a segment index that reflects edges as they are split by each
// attachment within one Build call (internal/infra/geo/graph.go's
// AttachPoint), so it keeps its own live index over the graph's current
// edges rather than this request-scoped snapshot of the raw geometry,
// which would go stale after the first split. See DESIGN.md.
type SpatialIndex struct {
	Poles     *geo.PointIndex
	Lines     *geo.SegmentIndex
	poleByID  map[string]*design.Pole
	buildings []*design.Building
}

func BuildSpatialIndex(poles []*design.Pole, lines []*design.Line, buildings []*design.Building) *SpatialIndex {
	idx := &SpatialIndex{
		Poles:     geo.NewPointIndex(100),
		Lines:     geo.NewSegmentIndex(50),
		poleByID:  make(map[string]*design.Pole, len(poles)),
		buildings: buildings,
	}

	poleItems := make([]geo.PointItem, 0, len(poles))
	for _, p := range poles {
		poleItems = append(poleItems, geo.PointItem{ID: p.ID, Position: p.Position})
		idx.poleByID[p.ID] = p
	}
	idx.Poles.Build(poleItems)

	var lineSegs []geo.Segment
	for _, l := range lines {
		for i := 0; i+1 < len(l.Geometry); i++ {
			lineSegs = append(lineSegs, geo.Segment{SourceID: l.ID, Index: i, A: l.Geometry[i], B: l.Geometry[i+1]})
		}
	}
	idx.Lines.Build(lineSegs)

	return idx
}

// Pole resolves a pole id back to its normalized entity.
func (idx *SpatialIndex) Pole(id string) (*design.Pole, bool) {
	p, ok := idx.poleByID[id]
	return p, ok
}

// PolesWithinRadius implements §4.3's radius filter.
func (idx *SpatialIndex) PolesWithinRadius(pt orb.Point, radius float64) []*design.Pole {
	items := idx.Poles.WithinRadius(pt, radius)
	out := make([]*design.Pole, 0, len(items))
	for _, it := range items {
		if pole, ok := idx.poleByID[it.ID]; ok {
			out = append(out, pole)
		}
	}
	return out
}

// BuildingAt returns the Building whose polygon strictly contains pt, if
// any (§4.7 avoidance check). Buildings are few enough per request that
// a direct scan with a bounding-box prefilter suffices; see DESIGN.md.
func (idx *SpatialIndex) BuildingAt(pt orb.Point) (*design.Building, bool) {
	for _, b := range idx.buildings {
		if !b.Geometry.Bound().Contains(pt) {
			continue
		}
		if polygonContainsStrict(b.Geometry, pt) {
			return b, true
		}
	}
	return nil, false
}

func polygonContainsStrict(poly orb.Polygon, pt orb.Point) bool {
	if len(poly) == 0 {
		return false
	}
	// planar.RingContains counts boundary points as inside; a point on the
	// outer ring is not strictly contained.
	outer := poly[0]
	for i := range outer {
		a, b := outer[i], outer[(i+1)%len(outer)]
		cross := (b[0]-a[0])*(pt[1]-a[1]) - (b[1]-a[1])*(pt[0]-a[0])
		if cross == 0 &&
			pt[0] >= math.Min(a[0], b[0]) && pt[0] <= math.Max(a[0], b[0]) &&
			pt[1] >= math.Min(a[1], b[1]) && pt[1] <= math.Max(a[1], b[1]) {
			return false
		}
	}
	if !planar.RingContains(outer, pt) {
		return false
	}
	for _, hole := range poly[1:] {
		if planar.RingContains(hole, pt) {
			return false
		}
	}
	return true
}
