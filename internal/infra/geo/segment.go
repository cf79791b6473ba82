package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Segment is one edge of a Road or Line polyline, carried with enough
// context for the caller (crossing prefilter, road attachment) to act on
// a hit without a second lookup.
type Segment struct {
	SourceID string // Road.ID or Line.ID this segment belongs to
	Index    int    // position of this segment within the source polyline
	A, B     orb.Point
}

// SegmentIndex buckets segments into a uniform grid by their bounding
// box, supporting both bbox-overlap queries (§4.6 crossing prefilter) and
// nearest-segment queries (§4.4 consumer/candidate attachment).
type SegmentIndex struct {
	segments []Segment
	grid     map[gridKey][]int
	cellSize float64
	minX     float64
	minY     float64
}

func NewSegmentIndex(cellSize float64) *SegmentIndex {
	if cellSize <= 0 {
		cellSize = 50.0
	}
	return &SegmentIndex{grid: make(map[gridKey][]int), cellSize: cellSize}
}

func (s *SegmentIndex) Build(segments []Segment) {
	s.segments = segments
	s.grid = make(map[gridKey][]int)
	if len(segments) == 0 {
		return
	}

	s.minX, s.minY = math.MaxFloat64, math.MaxFloat64
	for _, seg := range segments {
		s.minX = math.Min(s.minX, math.Min(seg.A[0], seg.B[0]))
		s.minY = math.Min(s.minY, math.Min(seg.A[1], seg.B[1]))
	}

	for idx, seg := range segments {
		for _, key := range s.cellsCovering(seg) {
			s.grid[key] = append(s.grid[key], idx)
		}
	}
}

func (s *SegmentIndex) cellOf(x, y float64) gridKey {
	return gridKey{
		cx: int(math.Floor((x - s.minX) / s.cellSize)),
		cy: int(math.Floor((y - s.minY) / s.cellSize)),
	}
}

func (s *SegmentIndex) cellsCovering(seg Segment) []gridKey {
	loKey := s.cellOf(math.Min(seg.A[0], seg.B[0]), math.Min(seg.A[1], seg.B[1]))
	hiKey := s.cellOf(math.Max(seg.A[0], seg.B[0]), math.Max(seg.A[1], seg.B[1]))

	var keys []gridKey
	for cx := loKey.cx; cx <= hiKey.cx; cx++ {
		for cy := loKey.cy; cy <= hiKey.cy; cy++ {
			keys = append(keys, gridKey{cx: cx, cy: cy})
		}
	}
	return keys
}

// QueryBBox returns every segment whose own bounding box overlaps rect.
// Completeness, not ordering, is the contract (§4.2).
func (s *SegmentIndex) QueryBBox(rect orb.Bound) []Segment {
	loKey := s.cellOf(rect.Min[0], rect.Min[1])
	hiKey := s.cellOf(rect.Max[0], rect.Max[1])

	seen := make(map[int]bool)
	var out []Segment
	for cx := loKey.cx; cx <= hiKey.cx; cx++ {
		for cy := loKey.cy; cy <= hiKey.cy; cy++ {
			for _, idx := range s.grid[gridKey{cx: cx, cy: cy}] {
				if seen[idx] {
					continue
				}
				seen[idx] = true
				seg := s.segments[idx]
				segBound := orb.MultiPoint{seg.A, seg.B}.Bound()
				if segBound.Intersects(rect) {
					out = append(out, seg)
				}
			}
		}
	}
	return out
}

// NearestSegmentResult is the outcome of a nearest-segment query: the
// segment itself, the perpendicular foot on that segment, and whether the
// foot lies strictly inside the segment (as opposed to at an endpoint).
type NearestSegmentResult struct {
	Segment     Segment
	Foot        orb.Point
	Distance    float64
	FootStrict  bool
}

// Nearest finds the segment whose perpendicular distance to pt is
// smallest, scanning all segments within expanding grid rings. maxDist
// bounds the search; a miss returns ok=false.
func (s *SegmentIndex) Nearest(pt orb.Point, maxDist float64) (NearestSegmentResult, bool) {
	if len(s.segments) == 0 {
		return NearestSegmentResult{}, false
	}

	best := NearestSegmentResult{Distance: math.MaxFloat64}
	found := false
	center := s.cellOf(pt[0], pt[1])
	ringSpan := int(math.Ceil(maxDist/s.cellSize)) + 1

	considered := make(map[int]bool)
	for ring := 0; ring <= ringSpan; ring++ {
		for _, idx := range ringCells(s.grid, center, ring) {
			if considered[idx] {
				continue
			}
			considered[idx] = true

			seg := s.segments[idx]
			foot, dist, strict := pointToSegment(pt, seg.A, seg.B)
			if dist > maxDist {
				continue
			}
			if dist < best.Distance {
				best = NearestSegmentResult{Segment: seg, Foot: foot, Distance: dist, FootStrict: strict}
				found = true
			}
		}
	}

	return best, found
}

func ringCells(grid map[gridKey][]int, center gridKey, ring int) []int {
	if ring == 0 {
		return grid[center]
	}
	var out []int
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			if absInt(dx) != ring && absInt(dy) != ring {
				continue
			}
			out = append(out, grid[gridKey{cx: center.cx + dx, cy: center.cy + dy}]...)
		}
	}
	return out
}

// pointToSegment returns the perpendicular foot of pt on segment [a,b],
// the distance to it, and whether the foot lies strictly between a and b
// (as opposed to clamped to an endpoint).
func pointToSegment(pt, a, b orb.Point) (foot orb.Point, distance float64, strict bool) {
	abx, aby := b[0]-a[0], b[1]-a[1]
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return a, math.Hypot(pt[0]-a[0], pt[1]-a[1]), false
	}

	t := ((pt[0]-a[0])*abx + (pt[1]-a[1])*aby) / lenSq
	strict = t > 0 && t < 1
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	foot = orb.Point{a[0] + t*abx, a[1] + t*aby}
	distance = math.Hypot(pt[0]-foot[0], pt[1]-foot[1])
	return foot, distance, strict
}

// SegmentsIntersectStrict reports whether two open segments share a point
// interior to both (§4.6 "strictly crosses"). A shared endpoint between
// the two segments does not count as a strict crossing.
func SegmentsIntersectStrict(p1, p2, p3, p4 orb.Point) (orb.Point, bool) {
	d1x, d1y := p2[0]-p1[0], p2[1]-p1[1]
	d2x, d2y := p4[0]-p3[0], p4[1]-p3[1]

	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return orb.Point{}, false // parallel or collinear: no transverse crossing
	}

	t := ((p3[0]-p1[0])*d2y - (p3[1]-p1[1])*d2x) / denom
	u := ((p3[0]-p1[0])*d1y - (p3[1]-p1[1])*d1x) / denom

	const eps = 1e-9
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return orb.Point{}, false // touches at or beyond an endpoint, not a strict interior crossing
	}

	return orb.Point{p1[0] + t*d1x, p1[1] + t*d1y}, true
}
