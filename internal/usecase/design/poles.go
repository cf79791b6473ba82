package design

import (
	"math"

	"github.com/paulmach/orb"
)

// PoleAllocator is the Pole Allocator (S7).
type PoleAllocator struct {
	poleIntervalM   float64
	poleNudgeM      float64
	fastTrackLimitM float64
}

func NewPoleAllocator(poleIntervalM, poleNudgeM, fastTrackLimitM float64) *PoleAllocator {
	return &PoleAllocator{poleIntervalM: poleIntervalM, poleNudgeM: poleNudgeM, fastTrackLimitM: fastTrackLimitM}
}

// Allocate implements §4.7: new poles at k*PoleInterval along the path,
// nudged out of any Building polygon they'd otherwise fall inside. ok is
// false when a candidate position cannot be nudged clear within budget
// and the whole path must be rejected.
func (a *PoleAllocator) Allocate(idx *SpatialIndex, path []orb.Point, totalLength float64, fastTrack bool) ([]orb.Point, bool) {
	if fastTrack && totalLength <= a.fastTrackLimitM {
		return nil, true
	}

	count := int(math.Floor(totalLength / a.poleIntervalM))
	poles := make([]orb.Point, 0, count)

	for k := 1; k <= count; k++ {
		target := float64(k) * a.poleIntervalM
		pos, ok := pointAtArcLength(path, target)
		if !ok {
			continue
		}

		resolved, ok := a.avoidBuildings(idx, path, pos, target)
		if !ok {
			return nil, false
		}
		poles = append(poles, resolved)
	}

	return poles, true
}

// avoidBuildings implements §4.7's avoidance rule: slide the candidate
// along the polyline by up to poleNudgeM in either direction.
func (a *PoleAllocator) avoidBuildings(idx *SpatialIndex, path []orb.Point, pos orb.Point, arcLength float64) (orb.Point, bool) {
	if _, inside := idx.BuildingAt(pos); !inside {
		return pos, true
	}

	const step = 0.5
	for nudge := step; nudge <= a.poleNudgeM; nudge += step {
		for _, delta := range [2]float64{nudge, -nudge} {
			candidateLength := arcLength + delta
			if candidateLength < 0 {
				continue
			}
			candidate, ok := pointAtArcLength(path, candidateLength)
			if !ok {
				continue
			}
			if _, inside := idx.BuildingAt(candidate); !inside {
				return candidate, true
			}
		}
	}

	return orb.Point{}, false
}

// pointAtArcLength walks the polyline and interpolates on the enclosing
// segment for the given arc-length position (§4.7).
func pointAtArcLength(path []orb.Point, target float64) (orb.Point, bool) {
	if target < 0 {
		return orb.Point{}, false
	}

	var walked float64
	for i := 0; i+1 < len(path); i++ {
		segLen := planarDistance(path[i], path[i+1])
		if walked+segLen >= target {
			remaining := target - walked
			if segLen == 0 {
				return path[i], true
			}
			t := remaining / segLen
			return orb.Point{
				path[i][0] + t*(path[i+1][0]-path[i][0]),
				path[i][1] + t*(path[i+1][1]-path[i][1]),
			}, true
		}
		walked += segLen
	}

	return orb.Point{}, false
}
