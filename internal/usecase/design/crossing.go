package design

import (
	"github.com/paulmach/orb"

	"lineplan/internal/domain/design"
	"lineplan/internal/infra/geo"
)

// CrossingValidator is the Crossing Validator (S6).
type CrossingValidator struct{}

func NewCrossingValidator() *CrossingValidator {
	return &CrossingValidator{}
}

// CrossingRejection names the first Line a path strictly crosses.
type CrossingRejection struct {
	LineID   string
	LineType design.LineType
}

// Validate implements §4.6: the path is rejected at the first strict
// interior crossing with an existing Line. Candidate lines are
// prefiltered by the path's bounding box via the Spatial Index (S2).
func (v *CrossingValidator) Validate(idx *SpatialIndex, lines []*design.Line, path []orb.Point) (*CrossingRejection, bool) {
	if len(path) < 2 {
		return nil, true
	}

	pathBound := orb.MultiPoint(path).Bound()
	lineByID := make(map[string]*design.Line, len(lines))
	for _, l := range lines {
		lineByID[l.ID] = l
	}

	hits := idx.Lines.QueryBBox(pathBound)
	checked := make(map[string]bool)
	for _, seg := range hits {
		if checked[seg.SourceID] {
			continue
		}

		line, ok := lineByID[seg.SourceID]
		if !ok {
			continue
		}

		if rejection, crosses := crossesLine(path, line); crosses {
			return rejection, false
		}
		checked[seg.SourceID] = true
	}

	return nil, true
}

func crossesLine(path []orb.Point, line *design.Line) (*CrossingRejection, bool) {
	for i := 0; i+1 < len(path); i++ {
		for j := 0; j+1 < len(line.Geometry); j++ {
			if _, hit := geo.SegmentsIntersectStrict(path[i], path[i+1], line.Geometry[j], line.Geometry[j+1]); hit {
				return &CrossingRejection{LineID: line.ID, LineType: line.LineType}, true
			}
		}
	}
	return nil, false
}
