package design

import (
	"github.com/paulmach/orb"

	"lineplan/internal/domain/design"
	"lineplan/internal/infra/geo"
)

// Pathfinder is the Pathfinder (S5).
type Pathfinder struct {
	maxDistanceM float64
}

func NewPathfinder(maxDistanceM float64) *Pathfinder {
	return &Pathfinder{maxDistanceM: maxDistanceM}
}

// FindPath implements §4.5: fast-track candidates get a direct segment,
// everything else is routed through the graph with A*. Candidates are
// processed in the priority order the Selector already produced; callers
// may run this per-candidate concurrently (see §6's OneToMany-derived
// worker pool), so FindPath is safe to call from multiple goroutines
// against the same (read-only) graph.
func (pf *Pathfinder) FindPath(graph *geo.RoadGraph, astar *geo.AStar, consumer orb.Point, consumerNode design.NodeID, candidate design.Candidate, candidateNode design.NodeID) design.PathResult {
	if candidate.IsFastTrack {
		return design.PathResult{
			Candidate:   &candidate,
			Polyline:    []orb.Point{consumer, candidate.Pole.Position},
			TotalLength: planarDistance(consumer, candidate.Pole.Position),
			TotalWeight: planarDistance(consumer, candidate.Pole.Position),
			Reachable:   true,
			FastTrack:   true,
		}
	}

	search := astar.ShortestPath(consumerNode, candidateNode, pf.maxDistanceM)
	if !search.Reachable {
		return design.PathResult{Candidate: &candidate, Reachable: false}
	}

	polyline := make([]orb.Point, 0, len(search.Nodes))
	for _, id := range search.Nodes {
		node, ok := graph.Node(id)
		if !ok {
			return design.PathResult{Candidate: &candidate, Reachable: false}
		}
		polyline = append(polyline, node.Position)
	}

	return design.PathResult{
		Candidate:   &candidate,
		Polyline:    polyline,
		TotalLength: search.TotalLength,
		TotalWeight: search.TotalWeight,
		Reachable:   true,
		FastTrack:   false,
	}
}
