package design

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lineplan/internal/domain/design"
)

func TestRanker_Rank_SortsByCostThenDistanceThenPoleID(t *testing.T) {
	routes := []design.RouteResult{
		{StartPoleID: "b", CostIndex: 5000, TotalDistance: 100},
		{StartPoleID: "a", CostIndex: 5000, TotalDistance: 50},
		{StartPoleID: "c", CostIndex: 3000, TotalDistance: 200},
	}

	ranker := NewRanker(10)
	ranked := ranker.Rank(routes)

	assert.Equal(t, []string{"c", "a", "b"}, []string{ranked[0].StartPoleID, ranked[1].StartPoleID, ranked[2].StartPoleID})
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRanker_Rank_TruncatesAtMaxRoutes(t *testing.T) {
	routes := make([]design.RouteResult, 0, 5)
	for i := 0; i < 5; i++ {
		routes = append(routes, design.RouteResult{StartPoleID: string(rune('a' + i)), CostIndex: int64(i)})
	}

	ranker := NewRanker(3)
	ranked := ranker.Rank(routes)

	assert.Len(t, ranked, 3)
}
