package design

import (
	"github.com/paulmach/orb"

	"lineplan/internal/domain/design"
	"lineplan/internal/infra/geo"
)

// GraphBuilder is the Road Graph Builder (S4).
type GraphBuilder struct {
	quantizeEpsilonM float64
	poleIntervalM    float64
	poleCostShare    float64
	snapToleranceM   float64
	maxAttachM       float64
}

func NewGraphBuilder(quantizeEpsilonM, poleIntervalM, poleCostShare, snapToleranceM, maxAttachM float64) *GraphBuilder {
	return &GraphBuilder{
		quantizeEpsilonM: quantizeEpsilonM,
		poleIntervalM:    poleIntervalM,
		poleCostShare:    poleCostShare,
		snapToleranceM:   snapToleranceM,
		maxAttachM:       maxAttachM,
	}
}

// BuildResult is S4's output: the graph plus the node each attached
// point resolved to.
type BuildResult struct {
	Graph        *geo.RoadGraph
	ConsumerNode design.NodeID
	// CandidateNodes maps a candidate's pole id to its attachment node.
	// A candidate absent from this map had no road within maxAttachM and
	// is dropped from further consideration (§4.4).
	CandidateNodes map[string]design.NodeID
}

// Build implements §4.4 end to end: node/edge construction from road
// polylines, disconnected-road stitching, and consumer/candidate
// attachment.
func (b *GraphBuilder) Build(roads []*design.Road, consumer orb.Point, candidates []design.Candidate) (*BuildResult, bool) {
	graph := geo.NewRoadGraph(b.quantizeEpsilonM, b.poleIntervalM, b.poleCostShare)

	for _, road := range roads {
		graph.AddRoadPolyline(road.ID, road.Geometry)
	}
	graph.StitchDisconnected(b.snapToleranceM)

	consumerAttach, ok := graph.AttachPoint(consumer, design.NodeConsumer, b.maxAttachM)
	if !ok {
		return nil, false
	}

	candidateNodes := make(map[string]design.NodeID, len(candidates))
	for _, c := range candidates {
		attach, ok := graph.AttachPoint(c.Pole.Position, design.NodePoleAttach, b.maxAttachM)
		if !ok {
			continue // dropped per §4.4: no road within MaxAttach
		}
		candidateNodes[c.Pole.ID] = attach.NodeID
	}

	return &BuildResult{
		Graph:          graph,
		ConsumerNode:   consumerAttach.NodeID,
		CandidateNodes: candidateNodes,
	}, true
}
