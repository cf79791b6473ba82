package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"lineplan/internal/domain/design"
)

// EdgeWeight is the routing cost for a straight-line span of the given
// length (§4.4): monotone in length, so Euclidean distance remains an
// admissible A* heuristic.
func EdgeWeight(length, poleInterval, poleCostShare float64) float64 {
	return length + (length/poleInterval)*poleCostShare
}

type edgeRecord struct {
	design.RoadEdge
	deleted bool
}

// RoadGraph is the per-request routing graph built by the Road Graph
// Builder (S4). Nodes are keyed by quantized coordinate so that vertices
// shared by adjacent road polylines collapse to one node (§4.4, §9).
type RoadGraph struct {
	nodes      map[design.NodeID]design.RoadNode
	adjacency  map[design.NodeID][]int // indices into edges
	edges      []edgeRecord
	pointIndex map[string]design.NodeID
	nextID     int64
	quantize   float64
	poleInterval  float64
	poleCostShare float64
}

func NewRoadGraph(quantizeEpsilon, poleInterval, poleCostShare float64) *RoadGraph {
	return &RoadGraph{
		nodes:         make(map[design.NodeID]design.RoadNode),
		adjacency:     make(map[design.NodeID][]int),
		pointIndex:    make(map[string]design.NodeID),
		quantize:      quantizeEpsilon,
		poleInterval:  poleInterval,
		poleCostShare: poleCostShare,
	}
}

func (g *RoadGraph) quantizedKey(p orb.Point) string {
	qx := math.Round(p[0]/g.quantize) * g.quantize
	qy := math.Round(p[1]/g.quantize) * g.quantize
	return fmt.Sprintf("%.6f,%.6f", qx, qy)
}

// getOrCreateNode collapses vertices within the quantization epsilon to
// the same NodeID (§4.4 "Nodes").
func (g *RoadGraph) getOrCreateNode(p orb.Point, origin design.NodeOrigin) design.NodeID {
	key := g.quantizedKey(p)
	if id, ok := g.pointIndex[key]; ok {
		return id
	}

	g.nextID++
	id := design.NodeID(g.nextID)
	g.nodes[id] = design.RoadNode{ID: id, Position: p, Origin: origin}
	g.pointIndex[key] = id
	return id
}

func (g *RoadGraph) addEdge(a, b design.NodeID, roadID string, length float64) int {
	idx := len(g.edges)
	g.edges = append(g.edges, edgeRecord{RoadEdge: design.RoadEdge{
		NodeA:  a,
		NodeB:  b,
		Length: length,
		Weight: EdgeWeight(length, g.poleInterval, g.poleCostShare),
		RoadID: roadID,
	}})
	g.adjacency[a] = append(g.adjacency[a], idx)
	g.adjacency[b] = append(g.adjacency[b], idx)
	return idx
}

func (g *RoadGraph) removeEdge(idx int) {
	g.edges[idx].deleted = true
}

// AddRoadPolyline inserts one undirected edge per consecutive vertex pair
// of a road's centerline (§4.4 "Edges").
func (g *RoadGraph) AddRoadPolyline(roadID string, pts []orb.Point) {
	if len(pts) < 2 {
		return
	}
	prev := g.getOrCreateNode(pts[0], design.NodeRoadVertex)
	for i := 1; i < len(pts); i++ {
		cur := g.getOrCreateNode(pts[i], design.NodeRoadVertex)
		length := planarDistance(pts[i-1], pts[i])
		if length > 0 {
			g.addEdge(prev, cur, roadID, length)
		}
		prev = cur
	}
}

// StitchDisconnected inserts a synthetic edge between any two
// road-endpoint nodes that lie within snapTolerance of each other but
// are not already connected by an edge (§4.4 "Disconnected-road
// stitching").
func (g *RoadGraph) StitchDisconnected(snapTolerance float64) {
	ids := g.endpointNodeIDs()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			if g.connected(a, b) {
				continue
			}
			dist := planarDistance(g.nodes[a].Position, g.nodes[b].Position)
			if dist > 0 && dist <= snapTolerance {
				g.addEdge(a, b, "", dist)
			}
		}
	}
}

// endpointNodeIDs returns every node that terminates at least one edge
// with degree 1 among its incident road edges — i.e. a plausible road
// endpoint rather than a mid-polyline vertex. Approximated here as every
// node with fewer than 2 live incident edges.
func (g *RoadGraph) endpointNodeIDs() []design.NodeID {
	var out []design.NodeID
	for id := range g.nodes {
		if g.liveDegree(id) <= 1 {
			out = append(out, id)
		}
	}
	return out
}

func (g *RoadGraph) liveDegree(id design.NodeID) int {
	n := 0
	for _, idx := range g.adjacency[id] {
		if !g.edges[idx].deleted {
			n++
		}
	}
	return n
}

func (g *RoadGraph) connected(a, b design.NodeID) bool {
	for _, idx := range g.adjacency[a] {
		e := g.edges[idx]
		if e.deleted {
			continue
		}
		if e.NodeA == b || e.NodeB == b {
			return true
		}
	}
	return false
}

// AttachResult is returned by AttachPoint.
type AttachResult struct {
	NodeID             design.NodeID
	PerpendicularDist  float64
}

// AttachPoint implements the consumer/candidate attachment rule of §4.4:
// find the nearest road segment within maxAttach, split it at the
// perpendicular foot if the foot lies strictly inside the segment, then
// add a new node at pt connected to the foot with a short edge.
func (g *RoadGraph) AttachPoint(pt orb.Point, origin design.NodeOrigin, maxAttach float64) (AttachResult, bool) {
	idx := NewSegmentIndex(math.Max(maxAttach, 10))
	idx.Build(g.liveSegments())

	hit, ok := idx.Nearest(pt, maxAttach)
	if !ok {
		return AttachResult{}, false
	}

	footNode := g.resolveFoot(hit)
	attachNode := g.getOrCreateNode(pt, origin)
	if attachNode != footNode {
		g.addEdge(attachNode, footNode, hit.Segment.SourceID, hit.Distance)
	}

	return AttachResult{NodeID: attachNode, PerpendicularDist: hit.Distance}, true
}

// resolveFoot returns the node id at the perpendicular foot of a
// nearest-segment hit, splitting the underlying edge first if the foot
// lies strictly inside it.
func (g *RoadGraph) resolveFoot(hit NearestSegmentResult) design.NodeID {
	a := g.getOrCreateNode(hit.Segment.A, design.NodeRoadVertex)
	b := g.getOrCreateNode(hit.Segment.B, design.NodeRoadVertex)

	if !hit.FootStrict {
		if planarDistance(hit.Foot, hit.Segment.A) <= planarDistance(hit.Foot, hit.Segment.B) {
			return a
		}
		return b
	}

	edgeIdx := g.findEdge(a, b, hit.Segment.SourceID)
	if edgeIdx < 0 {
		// Edge already split by a prior attachment along the same road;
		// fall back to creating the foot as its own node.
		return g.getOrCreateNode(hit.Foot, design.NodeRoadSplit)
	}

	length := g.edges[edgeIdx].Length
	roadID := g.edges[edgeIdx].RoadID
	g.removeEdge(edgeIdx)

	footNode := g.getOrCreateNode(hit.Foot, design.NodeRoadSplit)
	d1 := planarDistance(hit.Segment.A, hit.Foot)
	d2 := length - d1
	if d2 < 0 {
		d2 = planarDistance(hit.Foot, hit.Segment.B)
	}
	g.addEdge(a, footNode, roadID, d1)
	g.addEdge(footNode, b, roadID, d2)

	return footNode
}

func (g *RoadGraph) findEdge(a, b design.NodeID, roadID string) int {
	for _, idx := range g.adjacency[a] {
		e := g.edges[idx]
		if e.deleted || e.RoadID != roadID {
			continue
		}
		if (e.NodeA == a && e.NodeB == b) || (e.NodeA == b && e.NodeB == a) {
			return idx
		}
	}
	return -1
}

func (g *RoadGraph) liveSegments() []Segment {
	segs := make([]Segment, 0, len(g.edges))
	for i, e := range g.edges {
		if e.deleted {
			continue
		}
		segs = append(segs, Segment{
			SourceID: e.RoadID,
			Index:    i,
			A:        g.nodes[e.NodeA].Position,
			B:        g.nodes[e.NodeB].Position,
		})
	}
	return segs
}

// Node returns the node record for id.
func (g *RoadGraph) Node(id design.NodeID) (design.RoadNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Neighbors returns every live edge incident to id.
func (g *RoadGraph) Neighbors(id design.NodeID) []design.RoadEdge {
	out := make([]design.RoadEdge, 0, len(g.adjacency[id]))
	for _, idx := range g.adjacency[id] {
		if !g.edges[idx].deleted {
			out = append(out, g.edges[idx].RoadEdge)
		}
	}
	return out
}

// Degree reports the number of live edges incident to id, used by
// callers checking the §4.4 "at least one incident edge" invariant.
func (g *RoadGraph) Degree(id design.NodeID) int {
	return g.liveDegree(id)
}

func planarDistance(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}
