package design

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"lineplan/internal/domain/design"
)

// Selector is the Candidate Selector (S3).
type Selector struct {
	maxDistanceM    float64
	fastTrackLimitM float64
}

func NewSelector(maxDistanceM, fastTrackLimitM float64) *Selector {
	return &Selector{maxDistanceM: maxDistanceM, fastTrackLimitM: fastTrackLimitM}
}

// Select implements §4.3: phase matching, radius filter, fast-track
// flagging, and priority ordering. An empty result means the caller
// should surface StatusNoCandidate.
func (s *Selector) Select(idx *SpatialIndex, consumer orb.Point, phase design.PhaseClass) []design.Candidate {
	nearby := idx.PolesWithinRadius(consumer, s.maxDistanceM)

	var candidates []design.Candidate
	for _, pole := range nearby {
		if !phaseMatches(pole, phase) {
			continue
		}

		dist := planarDistance(consumer, pole.Position)
		candidate := design.Candidate{
			Pole:        pole,
			Distance:    dist,
			IsFastTrack: dist <= s.fastTrackLimitM,
		}
		candidate.Priority = priority(phase, pole, dist)
		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		return candidates[i].Distance < candidates[j].Distance
	})

	return candidates
}

// phaseMatches implements §4.3's phase-matching rule.
func phaseMatches(pole *design.Pole, phase design.PhaseClass) bool {
	switch phase {
	case design.PhaseThree:
		return pole.HasHVThreePhase
	case design.PhaseSingle:
		return pole.HasLV || pole.HasHV
	default:
		return false
	}
}

// priority implements §4.3's priority scoring: a lower score sorts
// first. base is the integer floor of the Euclidean distance.
func priority(phase design.PhaseClass, pole *design.Pole, distance float64) int {
	base := int(math.Floor(distance))

	switch phase {
	case design.PhaseSingle:
		if pole.HasLV {
			return base - 100
		}
		if pole.HasHV {
			return base + 50
		}
	case design.PhaseThree:
		if pole.HasHVThreePhase {
			return base - 100
		}
		if pole.HasHV {
			return base - 50
		}
	}

	return base
}

func planarDistance(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}
