package design

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"lineplan/internal/domain/design"
)

func TestPoleAllocator_Allocate_FastTrackSkipsPoles(t *testing.T) {
	idx := BuildSpatialIndex(nil, nil, nil)
	path := []orb.Point{{0, 0}, {30, 0}}

	alloc := NewPoleAllocator(40, 5, 50)
	poles, ok := alloc.Allocate(idx, path, 30, true)

	assert.True(t, ok)
	assert.Empty(t, poles)
}

func TestPoleAllocator_Allocate_PlacesPolesAtInterval(t *testing.T) {
	idx := BuildSpatialIndex(nil, nil, nil)
	path := []orb.Point{{0, 0}, {100, 0}}

	alloc := NewPoleAllocator(40, 5, 50)
	poles, ok := alloc.Allocate(idx, path, 100, false)

	assert.True(t, ok)
	assert.Len(t, poles, 2)
	assert.InDelta(t, 40.0, poles[0][0], 1e-9)
	assert.InDelta(t, 80.0, poles[1][0], 1e-9)
}

func TestPoleAllocator_Allocate_NudgesOutOfBuilding(t *testing.T) {
	buildings := []*design.Building{
		{ID: "b1", Geometry: orb.Polygon{{{38, -5}, {42, -5}, {42, 5}, {38, 5}, {38, -5}}}},
	}
	idx := BuildSpatialIndex(nil, nil, buildings)
	path := []orb.Point{{0, 0}, {100, 0}}

	alloc := NewPoleAllocator(40, 5, 50)
	poles, ok := alloc.Allocate(idx, path, 100, false)

	assert.True(t, ok)
	assert.Len(t, poles, 2)
	assert.NotEqual(t, 40.0, poles[0][0])
}

func TestPoleAllocator_Allocate_RejectsUnnudgeableOverlap(t *testing.T) {
	buildings := []*design.Building{
		{ID: "b1", Geometry: orb.Polygon{{{0, -5}, {100, -5}, {100, 5}, {0, 5}, {0, -5}}}},
	}
	idx := BuildSpatialIndex(nil, nil, buildings)
	path := []orb.Point{{0, 0}, {100, 0}}

	alloc := NewPoleAllocator(40, 5, 50)
	_, ok := alloc.Allocate(idx, path, 100, false)

	assert.False(t, ok)
}
