package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"lineplan/internal/domain/design"
)

func TestAStar_ShortestPath_Simple(t *testing.T) {
	g := NewRoadGraph(0.01, 40, 12500)
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}, {200, 0}})

	source := g.getOrCreateNode(orb.Point{0, 0}, design.NodeRoadVertex)
	target := g.getOrCreateNode(orb.Point{200, 0}, design.NodeRoadVertex)

	astar := NewAStar(g)
	result := astar.ShortestPath(source, target, 1000)

	assert.True(t, result.Reachable)
	assert.InDelta(t, 200.0, result.TotalLength, 1e-6)
	assert.Equal(t, []design.NodeID{source, g.getOrCreateNode(orb.Point{100, 0}, design.NodeRoadVertex), target}, result.Nodes)
}

func TestAStar_ShortestPath_OverMaxDistance(t *testing.T) {
	g := NewRoadGraph(0.01, 40, 12500)
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {1000, 0}})

	source := g.getOrCreateNode(orb.Point{0, 0}, design.NodeRoadVertex)
	target := g.getOrCreateNode(orb.Point{1000, 0}, design.NodeRoadVertex)

	astar := NewAStar(g)
	result := astar.ShortestPath(source, target, 50)

	assert.False(t, result.Reachable)
}

func TestAStar_ShortestPath_Unreachable(t *testing.T) {
	g := NewRoadGraph(0.01, 40, 12500)
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}})
	g.AddRoadPolyline("r2", []orb.Point{{1000, 1000}, {1100, 1000}})

	source := g.getOrCreateNode(orb.Point{0, 0}, design.NodeRoadVertex)
	target := g.getOrCreateNode(orb.Point{1000, 1000}, design.NodeRoadVertex)

	astar := NewAStar(g)
	result := astar.ShortestPath(source, target, 10000)

	assert.False(t, result.Reachable)
}

func TestAStar_HeuristicCache_IsSymmetricDistance(t *testing.T) {
	g := NewRoadGraph(0.01, 40, 12500)
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {30, 40}})

	a := g.getOrCreateNode(orb.Point{0, 0}, design.NodeRoadVertex)
	b := g.getOrCreateNode(orb.Point{30, 40}, design.NodeRoadVertex)

	astar := NewAStar(g)
	assert.InDelta(t, 50.0, astar.heuristic(a, b), 1e-9)
	assert.InDelta(t, 50.0, astar.heuristic(a, b), 1e-9) // second call hits the cache
}
