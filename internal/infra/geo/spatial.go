// Package geo provides the request-scoped spatial index, road graph, and
// shortest-path engine shared by the design pipeline's stages (§4.2, §4.4,
// §4.5). Every type here is built fresh per request and discarded at
// request end; nothing is safe for reuse across requests.
package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

type gridKey struct {
	cx int
	cy int
}

// PointItem is anything a PointIndex can locate: a Pole, or any other
// point feature keyed by a stable id.
type PointItem struct {
	ID       string
	Position orb.Point
}

// PointIndex is a uniform-grid nearest-neighbor index over point
// features, built once per request (§4.2). Coordinates are assumed to be
// in the same metric plane as the rest of the pipeline, so cell size is
// given directly in metres rather than converted from degrees.
type PointIndex struct {
	items    []PointItem
	grid     map[gridKey][]int
	cellSize float64
	minX     float64
	minY     float64
	maxX     float64
	maxY     float64
}

// NewPointIndex creates an empty index. cellSize should be on the order
// of the expected query radius so ring expansion terminates quickly.
func NewPointIndex(cellSize float64) *PointIndex {
	if cellSize <= 0 {
		cellSize = 50.0
	}
	return &PointIndex{grid: make(map[gridKey][]int), cellSize: cellSize}
}

func (p *PointIndex) Build(items []PointItem) {
	p.items = items
	p.grid = make(map[gridKey][]int)
	if len(items) == 0 {
		return
	}

	p.minX, p.maxX = items[0].Position[0], items[0].Position[0]
	p.minY, p.maxY = items[0].Position[1], items[0].Position[1]
	for _, it := range items {
		p.minX = math.Min(p.minX, it.Position[0])
		p.maxX = math.Max(p.maxX, it.Position[0])
		p.minY = math.Min(p.minY, it.Position[1])
		p.maxY = math.Max(p.maxY, it.Position[1])
	}

	for idx, it := range items {
		key := p.keyOf(it.Position)
		p.grid[key] = append(p.grid[key], idx)
	}
}

func (p *PointIndex) keyOf(pt orb.Point) gridKey {
	return gridKey{
		cx: int(math.Floor((pt[0] - p.minX) / p.cellSize)),
		cy: int(math.Floor((pt[1] - p.minY) / p.cellSize)),
	}
}

func (p *PointIndex) maxRing() int {
	xCells := int(math.Ceil((p.maxX - p.minX) / p.cellSize))
	yCells := int(math.Ceil((p.maxY - p.minY) / p.cellSize))
	if xCells > yCells {
		return xCells + 1
	}
	return yCells + 1
}

// Nearest returns the single closest item, or false if the index is empty.
func (p *PointIndex) Nearest(pt orb.Point) (PointItem, bool) {
	result := p.NearestK(pt, 1)
	if len(result) == 0 {
		return PointItem{}, false
	}
	return result[0], true
}

// NearestK returns up to k items sorted by ascending distance to pt.
func (p *PointIndex) NearestK(pt orb.Point, k int) []PointItem {
	if len(p.items) == 0 || k <= 0 {
		return nil
	}

	center := p.keyOf(pt)
	type cand struct {
		idx    int
		distSq float64
	}
	var candidates []cand

	for ring := 0; ring <= p.maxRing(); ring++ {
		for _, idx := range p.ringIndices(center, ring) {
			d := distSq(pt, p.items[idx].Position)
			candidates = append(candidates, cand{idx: idx, distSq: d})
		}

		if len(candidates) >= k && ring > 0 {
			sort.Slice(candidates, func(i, j int) bool { return candidates[i].distSq < candidates[j].distSq })
			kth := candidates[min(k, len(candidates))-1].distSq
			if p.minRingDistSq(ring+1) >= kth {
				break
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].distSq < candidates[j].distSq })
	out := make([]PointItem, 0, min(k, len(candidates)))
	for i := 0; i < len(candidates) && i < k; i++ {
		out = append(out, p.items[candidates[i].idx])
	}
	return out
}

// WithinRadius returns every item whose distance to pt is <= radius.
// Order is not specified but the result is complete (§4.2 contract).
func (p *PointIndex) WithinRadius(pt orb.Point, radius float64) []PointItem {
	if len(p.items) == 0 {
		return nil
	}
	center := p.keyOf(pt)
	ringSpan := int(math.Ceil(radius/p.cellSize)) + 1
	radiusSq := radius * radius

	var out []PointItem
	for ring := 0; ring <= ringSpan; ring++ {
		for _, idx := range p.ringIndices(center, ring) {
			if distSq(pt, p.items[idx].Position) <= radiusSq {
				out = append(out, p.items[idx])
			}
		}
	}
	return out
}

func (p *PointIndex) ringIndices(center gridKey, ring int) []int {
	if ring == 0 {
		return p.grid[center]
	}

	var out []int
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			if absInt(dx) != ring && absInt(dy) != ring {
				continue
			}
			out = append(out, p.grid[gridKey{cx: center.cx + dx, cy: center.cy + dy}]...)
		}
	}
	return out
}

func (p *PointIndex) minRingDistSq(ring int) float64 {
	d := float64(ring-1) * p.cellSize
	if d < 0 {
		d = 0
	}
	return d * d
}

func distSq(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
