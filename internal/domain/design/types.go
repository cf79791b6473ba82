package design

// VoltageClass is the decoded voltage classification of a Pole or Line.
type VoltageClass string

const (
	VoltageHV      VoltageClass = "HV"
	VoltageLV      VoltageClass = "LV"
	VoltageUnknown VoltageClass = "UNKNOWN"
)

// PhaseClass is the decoded service-phase classification of a Pole or Line.
type PhaseClass string

const (
	PhaseSingle  PhaseClass = "SINGLE"
	PhaseThree   PhaseClass = "THREE"
	PhaseUnknown PhaseClass = "UNKNOWN"
)

// LineType mirrors VoltageClass but is kept distinct since a Line's type
// drives crossing diagnostics independently of any Pole it touches.
type LineType string

const (
	LineHV LineType = "HV"
	LineLV LineType = "LV"
)

// PoleKind is the raw pole-form code, preserved for diagnostics after
// normalization has derived VoltageClass/PhaseClass from it.
type PoleKind string

const (
	PoleKindSupport PoleKind = "G" // guy/support pole, excluded from the candidate set entirely
	PoleKindService PoleKind = "SERVICE"
	PoleKindUnknown PoleKind = "UNKNOWN"
)

// NodeOrigin records why a RoadNode exists, for diagnostics and for the
// attachment invariants checked in §4.4.
type NodeOrigin string

const (
	NodeRoadVertex NodeOrigin = "ROAD_VERTEX"
	NodeRoadSplit  NodeOrigin = "ROAD_SPLIT"
	NodeConsumer   NodeOrigin = "CONSUMER"
	NodePoleAttach NodeOrigin = "POLE_ATTACH"
)

// Status is the request-level outcome of the Orchestrator (S11). It is a
// normal return value, never an error: see internal/domain/design/errors.go.
type Status string

const (
	StatusSuccess      Status = "Success"
	StatusNoCandidate  Status = "NoCandidate"
	StatusNoRoadAccess Status = "NoRoadAccess"
	StatusNoRoute      Status = "NoRoute"
	StatusOverDistance Status = "OverDistance"
	StatusTimeout      Status = "Timeout"
	StatusCancelled    Status = "Cancelled"
	StatusInternalError Status = "InternalError"
)
