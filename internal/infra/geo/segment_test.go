package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestSegmentIndex_Nearest(t *testing.T) {
	segs := []Segment{
		{SourceID: "road-1", Index: 0, A: orb.Point{0, 0}, B: orb.Point{100, 0}},
		{SourceID: "road-2", Index: 0, A: orb.Point{0, 100}, B: orb.Point{100, 100}},
	}

	idx := NewSegmentIndex(50)
	idx.Build(segs)

	hit, ok := idx.Nearest(orb.Point{50, 5}, 20)
	assert.True(t, ok)
	assert.Equal(t, "road-1", hit.Segment.SourceID)
	assert.True(t, hit.FootStrict)
	assert.InDelta(t, 5.0, hit.Distance, 1e-9)
}

func TestSegmentIndex_Nearest_BeyondMaxDist(t *testing.T) {
	segs := []Segment{
		{SourceID: "road-1", Index: 0, A: orb.Point{0, 0}, B: orb.Point{100, 0}},
	}

	idx := NewSegmentIndex(50)
	idx.Build(segs)

	_, ok := idx.Nearest(orb.Point{50, 500}, 20)
	assert.False(t, ok)
}

func TestSegmentIndex_Nearest_EndpointClamp(t *testing.T) {
	segs := []Segment{
		{SourceID: "road-1", Index: 0, A: orb.Point{0, 0}, B: orb.Point{100, 0}},
	}

	idx := NewSegmentIndex(50)
	idx.Build(segs)

	hit, ok := idx.Nearest(orb.Point{-10, 0}, 20)
	assert.True(t, ok)
	assert.False(t, hit.FootStrict)
	assert.Equal(t, orb.Point{0, 0}, hit.Foot)
}

func TestSegmentIndex_QueryBBox(t *testing.T) {
	segs := []Segment{
		{SourceID: "road-1", Index: 0, A: orb.Point{0, 0}, B: orb.Point{10, 0}},
		{SourceID: "road-2", Index: 0, A: orb.Point{1000, 1000}, B: orb.Point{1010, 1000}},
	}

	idx := NewSegmentIndex(50)
	idx.Build(segs)

	hits := idx.QueryBBox(orb.Bound{Min: orb.Point{-5, -5}, Max: orb.Point{15, 5}})
	assert.Len(t, hits, 1)
	assert.Equal(t, "road-1", hits[0].SourceID)
}

func TestSegmentsIntersectStrict(t *testing.T) {
	tests := []struct {
		name        string
		p1, p2      orb.Point
		p3, p4      orb.Point
		wantCrosses bool
	}{
		{
			name: "transverse crossing",
			p1:   orb.Point{0, 0}, p2: orb.Point{10, 10},
			p3: orb.Point{0, 10}, p4: orb.Point{10, 0},
			wantCrosses: true,
		},
		{
			name: "parallel lines",
			p1:   orb.Point{0, 0}, p2: orb.Point{10, 0},
			p3: orb.Point{0, 5}, p4: orb.Point{10, 5},
			wantCrosses: false,
		},
		{
			name: "shared endpoint only",
			p1:   orb.Point{0, 0}, p2: orb.Point{10, 0},
			p3: orb.Point{10, 0}, p4: orb.Point{10, 10},
			wantCrosses: false,
		},
		{
			name: "disjoint segments",
			p1:   orb.Point{0, 0}, p2: orb.Point{1, 0},
			p3: orb.Point{5, 5}, p4: orb.Point{6, 6},
			wantCrosses: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, crosses := SegmentsIntersectStrict(tc.p1, tc.p2, tc.p3, tc.p4)
			assert.Equal(t, tc.wantCrosses, crosses)
		})
	}
}
