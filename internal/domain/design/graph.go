package design

import "github.com/paulmach/orb"

// NodeID identifies a RoadNode within a single request's RoadGraph. Ids
// are never reused across requests and carry no meaning outside one graph.
type NodeID int64

// RoadNode is a synthetic graph node produced while building the routing
// graph for one request (§4.4).
type RoadNode struct {
	ID       NodeID
	Position orb.Point
	Origin   NodeOrigin
}

// RoadEdge is undirected; Node order (A, B) is not meaningful beyond
// giving a stable storage direction.
type RoadEdge struct {
	NodeA    NodeID
	NodeB    NodeID
	Length   float64 // straight-line length in metres
	Weight   float64 // routing cost, see §4.4
	RoadID   string
}
