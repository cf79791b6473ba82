package design

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"lineplan/internal/domain/design"
	"lineplan/internal/infra/geo"
)

func TestPathfinder_FindPath_FastTrack(t *testing.T) {
	pf := NewPathfinder(400)
	candidate := design.Candidate{
		Pole:        &design.Pole{ID: "p1", Position: orb.Point{30, 40}},
		IsFastTrack: true,
	}

	result := pf.FindPath(nil, nil, orb.Point{0, 0}, 0, candidate, 0)

	assert.True(t, result.Reachable)
	assert.True(t, result.FastTrack)
	assert.InDelta(t, 50.0, result.TotalLength, 1e-9)
}

func TestPathfinder_FindPath_ThroughGraph(t *testing.T) {
	g := geo.NewRoadGraph(0.01, 40, 12500)
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}})
	astar := geo.NewAStar(g)

	consumerAttach, ok := g.AttachPoint(orb.Point{10, 5}, design.NodeConsumer, 20)
	assert.True(t, ok)
	candidateAttach, ok := g.AttachPoint(orb.Point{90, 5}, design.NodePoleAttach, 20)
	assert.True(t, ok)

	pf := NewPathfinder(400)
	candidate := design.Candidate{Pole: &design.Pole{ID: "p1", Position: orb.Point{90, 5}}}

	result := pf.FindPath(g, astar, orb.Point{10, 5}, consumerAttach.NodeID, candidate, candidateAttach.NodeID)

	assert.True(t, result.Reachable)
	assert.False(t, result.FastTrack)
	assert.Greater(t, result.TotalLength, 0.0)
}

func TestPathfinder_FindPath_Unreachable(t *testing.T) {
	g := geo.NewRoadGraph(0.01, 40, 12500)
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}})
	g.AddRoadPolyline("r2", []orb.Point{{1000, 1000}, {1100, 1000}})
	astar := geo.NewAStar(g)

	consumerAttach, ok := g.AttachPoint(orb.Point{10, 5}, design.NodeConsumer, 20)
	assert.True(t, ok)
	candidateAttach, ok := g.AttachPoint(orb.Point{1050, 1005}, design.NodePoleAttach, 20)
	assert.True(t, ok)

	pf := NewPathfinder(400)
	candidate := design.Candidate{Pole: &design.Pole{ID: "p1", Position: orb.Point{1050, 1005}}}

	result := pf.FindPath(g, astar, orb.Point{10, 5}, consumerAttach.NodeID, candidate, candidateAttach.NodeID)

	assert.False(t, result.Reachable)
}
