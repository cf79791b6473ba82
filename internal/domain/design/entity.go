package design

import "github.com/paulmach/orb"

// Pole is an existing utility pole. Immutable once produced by the
// Feature Normalizer (S1).
type Pole struct {
	ID                    string
	Position              orb.Point
	VoltageClass          VoltageClass
	PhaseClass            PhaseClass
	PoleKindCode          string // raw code, preserved for diagnostics
	HasHV                 bool
	HasLV                 bool
	HasHVThreePhase       bool
	IsThreePhaseConnected bool
}

// Line is an existing overhead wire span, either surveyed directly or
// derived synthetically from a Transformer's annotation text.
type Line struct {
	ID           string
	Geometry     orb.LineString
	FromPoleID   string // may be empty: not every line resolves both endpoints
	ToPoleID     string
	LineType     LineType
	PhaseClass   PhaseClass
	WireSpec     string
	VoltageValue float64 // kV; zero means "not supplied"
}

// Transformer is a point facility that may carry annotation text from
// which a synthetic low-voltage Line is derived (§4.1).
type Transformer struct {
	ID             string
	Position       orb.Point
	CapacityKVA    float64
	AnnotationText string
	FromPoleID     string
	ToPoleID       string
}

// RoadClass is used only for display filtering, never for routing weight.
type RoadClass string

const (
	RoadPrimary RoadClass = "PRIMARY"
	RoadSide    RoadClass = "SIDE"
	RoadAlley   RoadClass = "ALLEY"
)

// Road is an existing centerline used to build the routing graph (§4.4).
type Road struct {
	ID         string
	Geometry   orb.LineString
	Class      RoadClass
}

// Building is a forbidden-crossing polygon for new-pole placement (§4.7).
type Building struct {
	ID       string
	Geometry orb.Polygon
}

// Railway and River are informational overlays only; the core does not
// route around them or use them in any constraint.
type Railway struct {
	ID       string
	Geometry orb.LineString
}

type River struct {
	ID       string
	Geometry orb.LineString
}

// Consumer is the transient per-request input coordinate and requested
// service phase.
type Consumer struct {
	Position orb.Point
	Phase    PhaseClass
}
