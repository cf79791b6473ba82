package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"lineplan/internal/domain/design"
)

func newTestGraph() *RoadGraph {
	return NewRoadGraph(0.01, 40, 12500)
}

func TestRoadGraph_AddRoadPolyline_DedupesSharedVertex(t *testing.T) {
	g := newTestGraph()
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}})
	g.AddRoadPolyline("r2", []orb.Point{{100, 0}, {100, 100}})

	shared := g.getOrCreateNode(orb.Point{100, 0}, design.NodeRoadVertex)
	assert.Equal(t, 2, g.Degree(shared))
}

func TestRoadGraph_StitchDisconnected(t *testing.T) {
	g := newTestGraph()
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}})
	g.AddRoadPolyline("r2", []orb.Point{{105, 0}, {200, 0}})

	g.StitchDisconnected(10)

	a := g.getOrCreateNode(orb.Point{100, 0}, design.NodeRoadVertex)
	b := g.getOrCreateNode(orb.Point{105, 0}, design.NodeRoadVertex)
	assert.True(t, g.connected(a, b))
}

func TestRoadGraph_AttachPoint_SplitsSegment(t *testing.T) {
	g := newTestGraph()
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}})

	attach, ok := g.AttachPoint(orb.Point{50, 5}, design.NodeConsumer, 20)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, attach.PerpendicularDist, 1e-9)

	node, ok := g.Node(attach.NodeID)
	assert.True(t, ok)
	assert.Equal(t, design.NodeConsumer, node.Origin)
	assert.Equal(t, 1, g.Degree(attach.NodeID))
}

func TestRoadGraph_AttachPoint_BeyondMaxAttach(t *testing.T) {
	g := newTestGraph()
	g.AddRoadPolyline("r1", []orb.Point{{0, 0}, {100, 0}})

	_, ok := g.AttachPoint(orb.Point{50, 500}, design.NodeConsumer, 20)
	assert.False(t, ok)
}

func TestEdgeWeight_MonotoneInLength(t *testing.T) {
	short := EdgeWeight(10, 40, 12500)
	long := EdgeWeight(100, 40, 12500)
	assert.Greater(t, long, short)
	assert.GreaterOrEqual(t, short, 10.0)
}
