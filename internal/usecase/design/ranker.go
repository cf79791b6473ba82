package design

import (
	"sort"

	"lineplan/internal/domain/design"
)

// Ranker is the Route Ranker (S10).
type Ranker struct {
	maxRoutes int
}

func NewRanker(maxRoutes int) *Ranker {
	return &Ranker{maxRoutes: maxRoutes}
}

// Rank implements §4.10: ascending sort by (cost_index, total_distance,
// start_pole_id), 1-based ranks, truncated at maxRoutes.
func (r *Ranker) Rank(routes []design.RouteResult) []design.RouteResult {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].CostIndex != routes[j].CostIndex {
			return routes[i].CostIndex < routes[j].CostIndex
		}
		if routes[i].TotalDistance != routes[j].TotalDistance {
			return routes[i].TotalDistance < routes[j].TotalDistance
		}
		return routes[i].StartPoleID < routes[j].StartPoleID
	})

	if len(routes) > r.maxRoutes {
		routes = routes[:r.maxRoutes]
	}

	for i := range routes {
		routes[i].Rank = i + 1
	}

	return routes
}
