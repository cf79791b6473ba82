package design

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"lineplan/internal/domain/design"
)

func TestSelector_Select_FiltersByPhaseAndRadius(t *testing.T) {
	poles := []*design.Pole{
		{ID: "lv-near", Position: orb.Point{10, 0}, HasLV: true},
		{ID: "hv-far", Position: orb.Point{1000, 0}, HasHV: true},
		{ID: "three-phase", Position: orb.Point{20, 0}, HasHVThreePhase: true},
	}
	idx := BuildSpatialIndex(poles, nil, nil)

	selector := NewSelector(400, 50)
	candidates := selector.Select(idx, orb.Point{0, 0}, design.PhaseSingle)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Pole.ID)
	}
	assert.Contains(t, ids, "lv-near")
	assert.NotContains(t, ids, "hv-far") // outside MaxDistance
}

func TestSelector_Select_PrioritizesLVOverHVForSinglePhase(t *testing.T) {
	poles := []*design.Pole{
		{ID: "hv", Position: orb.Point{10, 0}, HasHV: true},
		{ID: "lv", Position: orb.Point{10, 5}, HasLV: true},
	}
	idx := BuildSpatialIndex(poles, nil, nil)

	selector := NewSelector(400, 50)
	candidates := selector.Select(idx, orb.Point{0, 0}, design.PhaseSingle)

	assert.NotEmpty(t, candidates)
	assert.Equal(t, "lv", candidates[0].Pole.ID)
}

func TestSelector_Select_FastTrackFlag(t *testing.T) {
	poles := []*design.Pole{
		{ID: "close", Position: orb.Point{10, 0}, HasLV: true},
		{ID: "distant", Position: orb.Point{200, 0}, HasLV: true},
	}
	idx := BuildSpatialIndex(poles, nil, nil)

	selector := NewSelector(400, 50)
	candidates := selector.Select(idx, orb.Point{0, 0}, design.PhaseSingle)

	for _, c := range candidates {
		if c.Pole.ID == "close" {
			assert.True(t, c.IsFastTrack)
		}
		if c.Pole.ID == "distant" {
			assert.False(t, c.IsFastTrack)
		}
	}
}

func TestSelector_Select_NoMatchingPhase(t *testing.T) {
	poles := []*design.Pole{
		{ID: "hv-only", Position: orb.Point{10, 0}, HasHV: true},
	}
	idx := BuildSpatialIndex(poles, nil, nil)

	selector := NewSelector(400, 50)
	candidates := selector.Select(idx, orb.Point{0, 0}, design.PhaseThree)

	assert.Empty(t, candidates)
}
