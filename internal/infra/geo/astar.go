package geo

import (
	"container/heap"
	"sync"

	"lineplan/internal/domain/design"
)

// PathSearchResult is the A* engine's raw output, prior to any
// domain-level fast-track or crossing handling.
type PathSearchResult struct {
	Nodes       []design.NodeID
	TotalLength float64
	TotalWeight float64
	Reachable   bool
}

// AStar runs shortest-weighted-path search over a RoadGraph using the
// Euclidean distance between nodes as an admissible heuristic (§4.5):
// edge weight is length plus a non-negative pole-cost term, so weight is
// never less than the straight-line length the heuristic estimates.
//
// graph is read-only once built, so a single AStar is shared across the
// orchestrator's per-candidate worker pool (routeCandidates). heuristicCache
// is not: it is memoized lazily on first use, so cacheMu guards it against
// the concurrent ShortestPath calls that pool makes.
type AStar struct {
	graph          *RoadGraph
	cacheMu        sync.RWMutex
	heuristicCache map[heuristicKey]float64
}

type heuristicKey struct {
	from design.NodeID
	to   design.NodeID
}

func NewAStar(g *RoadGraph) *AStar {
	return &AStar{graph: g, heuristicCache: make(map[heuristicKey]float64)}
}

func (a *AStar) heuristic(from, to design.NodeID) float64 {
	key := heuristicKey{from: from, to: to}

	a.cacheMu.RLock()
	v, ok := a.heuristicCache[key]
	a.cacheMu.RUnlock()
	if ok {
		return v
	}

	fromNode, _ := a.graph.Node(from)
	toNode, _ := a.graph.Node(to)
	d := planarDistance(fromNode.Position, toNode.Position)

	a.cacheMu.Lock()
	a.heuristicCache[key] = d
	a.cacheMu.Unlock()
	return d
}

type searchNode struct {
	id        design.NodeID
	gWeight   float64
	gLength   float64
	fScore    float64
	heapIndex int
}

type nodeQueue []*searchNode

func (q nodeQueue) Len() int { return len(q) }

// Less implements the tie-break rule of §4.5: ties in f-score are broken
// by node id order so the search is reproducible across runs.
func (q nodeQueue) Less(i, j int) bool {
	if q[i].fScore != q[j].fScore {
		return q[i].fScore < q[j].fScore
	}
	return q[i].id < q[j].id
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].heapIndex = i
	q[j].heapIndex = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*searchNode)
	n.heapIndex = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.heapIndex = -1
	*q = old[:n-1]
	return node
}

// ShortestPath runs A* from source to target. If the accumulated length
// to any settled node exceeds maxDistance before the target is reached,
// the search abandons and returns Reachable=false (§4.5 "Early
// termination").
func (a *AStar) ShortestPath(source, target design.NodeID, maxDistance float64) PathSearchResult {
	if _, ok := a.graph.Node(source); !ok {
		return PathSearchResult{}
	}
	if _, ok := a.graph.Node(target); !ok {
		return PathSearchResult{}
	}

	gWeight := map[design.NodeID]float64{source: 0}
	gLength := map[design.NodeID]float64{source: 0}
	cameFrom := map[design.NodeID]design.NodeID{}
	visited := map[design.NodeID]bool{}

	pq := make(nodeQueue, 0)
	heap.Init(&pq)
	heap.Push(&pq, &searchNode{id: source, gWeight: 0, gLength: 0, fScore: a.heuristic(source, target)})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*searchNode)
		if visited[current.id] {
			continue
		}
		visited[current.id] = true

		if current.gLength > maxDistance {
			return PathSearchResult{Reachable: false}
		}

		if current.id == target {
			return PathSearchResult{
				Nodes:       reconstructPath(cameFrom, source, target),
				TotalLength: current.gLength,
				TotalWeight: current.gWeight,
				Reachable:   true,
			}
		}

		for _, edge := range a.graph.Neighbors(current.id) {
			neighbor := otherEnd(edge, current.id)
			if visited[neighbor] {
				continue
			}

			candidateWeight := current.gWeight + edge.Weight
			candidateLength := current.gLength + edge.Length
			if existing, ok := gWeight[neighbor]; ok && candidateWeight >= existing {
				continue
			}

			gWeight[neighbor] = candidateWeight
			gLength[neighbor] = candidateLength
			cameFrom[neighbor] = current.id
			heap.Push(&pq, &searchNode{
				id:      neighbor,
				gWeight: candidateWeight,
				gLength: candidateLength,
				fScore:  candidateWeight + a.heuristic(neighbor, target),
			})
		}
	}

	return PathSearchResult{Reachable: false}
}

func otherEnd(e design.RoadEdge, from design.NodeID) design.NodeID {
	if e.NodeA == from {
		return e.NodeB
	}
	return e.NodeA
}

func reconstructPath(cameFrom map[design.NodeID]design.NodeID, source, target design.NodeID) []design.NodeID {
	path := []design.NodeID{target}
	cur := target
	for cur != source {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}

	// reverse into source->target order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
