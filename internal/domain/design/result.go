package design

import "github.com/paulmach/orb"

// PathResult is the Pathfinder's (S5) output for one candidate, prior to
// crossing validation and pole allocation.
type PathResult struct {
	Candidate   *Candidate
	Polyline    []orb.Point
	TotalLength float64
	TotalWeight float64
	Reachable   bool
	FastTrack   bool
}

// VoltageDropResult is the Voltage Drop Calculator's (S9) output.
type VoltageDropResult struct {
	DistanceM        float64
	LoadKW           float64
	VoltageDropV     float64
	VoltageDropPct   float64
	IsAcceptable     bool
	LimitPercent     float64
	WireSpec         string
}

// CostBreakdown is the itemised output of the Cost Estimator (S8).
type CostBreakdown struct {
	MaterialCost float64
	LaborCost    float64
	OverheadCost float64
	ProfitCost   float64
	TotalCost    float64
	CostIndex    int64

	WireCost float64
	PoleCost float64
}

// RouteResult is one ranked, priced, validated route (S10/S11 output).
type RouteResult struct {
	Rank               int
	TotalCost          float64
	CostIndex          int64
	TotalDistance      float64
	StartPoleID        string
	StartPoleCoord     orb.Point
	NewPolesCount      int
	PathCoordinates    []orb.Point
	NewPoleCoordinates []orb.Point
	WireCost           float64
	PoleCost           float64
	LaborCost          float64
	OverheadCost       float64
	ProfitCost         float64
	PoleSpec           string
	WireSpec           string
	SourceVoltageType  VoltageClass
	SourcePhaseType    int // 1 or 3
	VoltageDrop        VoltageDropResult
}

// Diagnostics accumulates non-fatal drops and rejections across a request,
// surfaced alongside the final status rather than logged only.
type Diagnostics struct {
	DroppedFeatures  map[string]int // keyed by feature kind
	RejectedCandidates []RejectedCandidate
}

// RejectedCandidate records why a candidate never produced a RouteResult.
type RejectedCandidate struct {
	PoleID string
	Reason string
	LineID string // populated when Reason is a crossing rejection
}

// Result is the Orchestrator's (S11) complete per-request output.
type Result struct {
	Status           Status
	RequestSpec      string // "SINGLE" or "THREE"
	ConsumerCoord    orb.Point
	Routes           []RouteResult
	ProcessingTimeMS int64
	Diagnostics      Diagnostics
	ErrorMessage     string
	CorrelationID    string // populated only for StatusInternalError
}
