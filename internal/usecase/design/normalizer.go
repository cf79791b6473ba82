// Package design implements the geospatial wiring design pipeline's
// stages (S1–S11). The stage types hold only configuration: NewOrchestrator
// builds them once and every request reuses them. The per-request
// structures (SpatialIndex, the RoadGraph and AStar of a BuildResult) are
// built fresh inside each Orchestrator.Process call and are not shared
// across requests — see §5.
package design

import (
	"log/slog"
	"strings"

	"github.com/paulmach/orb"

	"lineplan/internal/domain/design"
)

// raw field names, grounded on the GIS source's coded-attribute schema.
const (
	fieldGID          = "GID"
	fieldPoleID       = "POLE_ID"
	fieldFtrIdn       = "FTR_IDN"
	fieldGeometry     = "GEOM"
	fieldPoleFormCD   = "POLE_FORM_CD"
	fieldFacStatCD    = "FAC_STAT_CD"
	fieldRemoveYN     = "REMOVE_YN"
	fieldPhaseCD      = "PHAR_CLCD"
	fieldPrwrKndCD    = "PRWR_KND_CD"
	fieldVoltVal      = "VOLT_VAL"
	fieldLowerFacGID  = "LWER_FAC_GID"
	fieldUpperFacGID  = "UPPO_FAC_GID"
	fieldTextAnnxn    = "TEXT_GIS_ANNXN"
	fieldCrossSectCD  = "SECT_CD"
	fieldCapacityKVA  = "CAPA_KVA"
	fieldRoadType     = "ROAD_TYPE"
	fieldBldgID       = "BLDG_ID"
)

const poleFormSupport = "G"

var removedFacilityStatusCodes = map[string]bool{
	"D":  true,
	"R":  true,
	"DD": true,
	"RR": true,
}

// lvConductorKinds are PRWR_KND_CD values that mark a line as LV
// outright, ahead of any numeric voltage fallback.
var lvConductorKinds = map[string]bool{
	"LV": true,
	"L":  true,
	"저압": true,
}

const poleLineLinkMaxDistanceM = 15.0
const lvOverheadMarkerA = "OW"
const lvOverheadMarkerB = "WO "

// NormalizeResult is the Feature Normalizer's (S1) output: typed
// entities plus the per-kind drop counters required by §7's data-level
// error class.
type NormalizeResult struct {
	Poles        []*design.Pole
	Lines        []*design.Line
	Transformers []*design.Transformer
	Roads        []*design.Road
	Buildings    []*design.Building
	Railways     []*design.Railway
	Rivers       []*design.River

	Dropped map[string]int
}

// Normalizer is the Feature Normalizer (S1).
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

func (n *Normalizer) Normalize(batch design.FeatureBatch) *NormalizeResult {
	result := &NormalizeResult{Dropped: make(map[string]int)}

	poleByID := make(map[string]*design.Pole)
	for _, raw := range batch.Poles {
		pole, ok := n.normalizePole(raw)
		if !ok {
			result.Dropped["pole"]++
			continue
		}
		if _, dup := poleByID[pole.ID]; dup {
			result.Dropped["pole"]++
			continue
		}
		poleByID[pole.ID] = pole
		result.Poles = append(result.Poles, pole)
	}

	for _, raw := range batch.Lines {
		line, ok := n.normalizeLine(raw)
		if !ok {
			result.Dropped["line"]++
			continue
		}
		result.Lines = append(result.Lines, line)
	}

	for _, raw := range batch.Transformers {
		transformer, ok := n.normalizeTransformer(raw)
		if !ok {
			result.Dropped["transformer"]++
			continue
		}
		result.Transformers = append(result.Transformers, transformer)

		if syntheticLine, ok := n.deriveLVLine(transformer, poleByID); ok {
			result.Lines = append(result.Lines, syntheticLine)
		}
	}

	for _, raw := range batch.Roads {
		road, ok := n.normalizeRoad(raw)
		if !ok {
			result.Dropped["road"]++
			continue
		}
		result.Roads = append(result.Roads, road)
	}

	for _, raw := range batch.Buildings {
		building, ok := n.normalizeBuilding(raw)
		if !ok {
			result.Dropped["building"]++
			continue
		}
		result.Buildings = append(result.Buildings, building)
	}

	for _, raw := range batch.Railways {
		if geom, id, ok := n.lineGeometry(raw); ok {
			result.Railways = append(result.Railways, &design.Railway{ID: id, Geometry: geom})
		} else {
			result.Dropped["railway"]++
		}
	}

	for _, raw := range batch.Rivers {
		if geom, id, ok := n.lineGeometry(raw); ok {
			result.Rivers = append(result.Rivers, &design.River{ID: id, Geometry: geom})
		} else {
			result.Dropped["river"]++
		}
	}

	n.linkLinesToPoles(result.Lines, poleByID)
	annotatePoleAdjacency(poleByID, result.Lines)

	if n.logger != nil {
		n.logger.Debug("feature normalization complete",
			"poles", len(result.Poles), "lines", len(result.Lines),
			"roads", len(result.Roads), "buildings", len(result.Buildings),
			"dropped", result.Dropped)
	}

	return result
}

func (n *Normalizer) normalizePole(raw design.RawFeature) (*design.Pole, bool) {
	id := rawID(raw)
	if id == "" {
		return nil, false
	}

	if raw.Str(fieldPoleFormCD) == poleFormSupport {
		return nil, false
	}
	if removedFacilityStatusCodes[strings.ToUpper(raw.Str(fieldFacStatCD))] {
		return nil, false
	}
	if raw.Bool(fieldRemoveYN) {
		return nil, false
	}

	point, ok := pointGeometry(raw)
	if !ok {
		return nil, false
	}

	// A positive numeric voltage value is authoritative; otherwise the
	// class is finalized by annotatePoleAdjacency once lines are known.
	voltageClass := design.VoltageUnknown
	if v, ok := raw.Float(fieldVoltVal); ok && v > 0 {
		voltageClass = design.VoltageLV
		if v >= 1000 {
			voltageClass = design.VoltageHV
		}
	}

	return &design.Pole{
		ID:           id,
		Position:     point,
		PhaseClass:   decodePhase(raw.Str(fieldPhaseCD)),
		PoleKindCode: raw.Str(fieldPoleFormCD),
		VoltageClass: voltageClass,
	}, true
}

func (n *Normalizer) normalizeLine(raw design.RawFeature) (*design.Line, bool) {
	id := rawID(raw)
	if id == "" {
		return nil, false
	}
	if removedFacilityStatusCodes[strings.ToUpper(raw.Str(fieldFacStatCD))] {
		return nil, false
	}
	if raw.Bool(fieldRemoveYN) {
		return nil, false
	}

	geom, ok := lineStringGeometry(raw)
	if !ok || len(geom) < 2 {
		return nil, false
	}

	lineType, voltageValue := decodeVoltage(raw)

	return &design.Line{
		ID:           id,
		Geometry:     geom,
		FromPoleID:   raw.Str(fieldLowerFacGID),
		ToPoleID:     raw.Str(fieldUpperFacGID),
		LineType:     lineType,
		PhaseClass:   decodePhase(raw.Str(fieldPhaseCD)),
		WireSpec:     decodeWireSpec(raw),
		VoltageValue: voltageValue,
	}, true
}

func (n *Normalizer) normalizeTransformer(raw design.RawFeature) (*design.Transformer, bool) {
	id := rawID(raw)
	if id == "" {
		return nil, false
	}

	point, ok := pointGeometry(raw)
	if !ok {
		return nil, false
	}

	capacity, _ := raw.Float(fieldCapacityKVA)

	return &design.Transformer{
		ID:             id,
		Position:       point,
		CapacityKVA:    capacity,
		AnnotationText: raw.Str(fieldTextAnnxn),
		FromPoleID:     raw.Str(fieldLowerFacGID),
		ToPoleID:       raw.Str(fieldUpperFacGID),
	}, true
}

// deriveLVLine implements §4.1's transformer-annotation-derived LV line:
// scan the annotation for an overhead-wire marker, and if both endpoint
// poles resolve, emit a synthetic Line joining them.
func (n *Normalizer) deriveLVLine(t *design.Transformer, poleByID map[string]*design.Pole) (*design.Line, bool) {
	text := strings.ToUpper(t.AnnotationText)
	if !strings.Contains(text, lvOverheadMarkerA) && !strings.Contains(text, lvOverheadMarkerB) {
		return nil, false
	}

	from, fromOK := poleByID[t.FromPoleID]
	to, toOK := poleByID[t.ToPoleID]
	if !fromOK || !toOK {
		return nil, false
	}

	return &design.Line{
		ID:         t.ID + "-lv",
		Geometry:   orb.LineString{from.Position, to.Position},
		FromPoleID: from.ID,
		ToPoleID:   to.ID,
		LineType:   design.LineLV,
		PhaseClass: design.PhaseSingle,
	}, true
}

func (n *Normalizer) normalizeRoad(raw design.RawFeature) (*design.Road, bool) {
	id := rawID(raw)
	geom, ok := lineStringGeometry(raw)
	if id == "" || !ok || len(geom) < 2 {
		return nil, false
	}

	class := design.RoadSide
	switch strings.ToUpper(raw.Str(fieldRoadType)) {
	case "PRIMARY", "1":
		class = design.RoadPrimary
	case "ALLEY", "3":
		class = design.RoadAlley
	}

	return &design.Road{ID: id, Geometry: geom, Class: class}, true
}

func (n *Normalizer) normalizeBuilding(raw design.RawFeature) (*design.Building, bool) {
	id := raw.Str(fieldBldgID)
	if id == "" {
		id = rawID(raw)
	}
	poly, ok := polygonGeometry(raw)
	if id == "" || !ok {
		return nil, false
	}

	return &design.Building{ID: id, Geometry: poly}, true
}

func (n *Normalizer) lineGeometry(raw design.RawFeature) (orb.LineString, string, bool) {
	id := rawID(raw)
	geom, ok := lineStringGeometry(raw)
	if id == "" || !ok || len(geom) < 2 {
		return nil, "", false
	}
	return geom, id, true
}

// linkLinesToPoles resolves each Line's endpoint pole refs only when the
// Line's endpoint coordinate actually lies within poleLineLinkMaxDistanceM
// of the referenced Pole (§4.1.a) — the reference field is present but
// sometimes geometrically stale in the source.
func (n *Normalizer) linkLinesToPoles(lines []*design.Line, poleByID map[string]*design.Pole) {
	for _, line := range lines {
		if pole, ok := poleByID[line.FromPoleID]; ok && !withinLinkDistance(line.Geometry[0], pole.Position) {
			line.FromPoleID = ""
		}
		if pole, ok := poleByID[line.ToPoleID]; ok && !withinLinkDistance(line.Geometry[len(line.Geometry)-1], pole.Position) {
			line.ToPoleID = ""
		}
	}
}

func withinLinkDistance(a, b orb.Point) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx+dy*dy <= poleLineLinkMaxDistanceM*poleLineLinkMaxDistanceM
}

// annotatePoleAdjacency implements §4.1's has_hv/has_lv/has_hv_three_phase
// derivation and finalizes VoltageClass for poles left Unknown by the raw
// voltage field.
func annotatePoleAdjacency(poleByID map[string]*design.Pole, lines []*design.Line) {
	for _, line := range lines {
		for _, poleID := range [2]string{line.FromPoleID, line.ToPoleID} {
			pole, ok := poleByID[poleID]
			if !ok {
				continue
			}
			switch line.LineType {
			case design.LineHV:
				pole.HasHV = true
				if line.PhaseClass == design.PhaseThree {
					pole.HasHVThreePhase = true
				}
			case design.LineLV:
				pole.HasLV = true
			}
		}
	}

	for _, pole := range poleByID {
		pole.IsThreePhaseConnected = pole.HasHVThreePhase
		if pole.VoltageClass != design.VoltageUnknown {
			continue
		}
		switch {
		case pole.HasHV || pole.PoleKindCode == "H":
			pole.VoltageClass = design.VoltageHV
		case pole.HasLV:
			pole.VoltageClass = design.VoltageLV
		}
	}
}

// decodePhase implements §4.1's phase-code decoding: any combination
// covering all of A, B, C is THREE; any single letter is SINGLE; anything
// else is UNKNOWN. Case-insensitive and order-independent.
func decodePhase(raw string) design.PhaseClass {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" {
		return design.PhaseUnknown
	}

	hasA := strings.ContainsRune(upper, 'A')
	hasB := strings.ContainsRune(upper, 'B')
	hasC := strings.ContainsRune(upper, 'C')
	if hasA && hasB && hasC {
		return design.PhaseThree
	}
	if len(upper) == 1 && upper[0] >= 'A' && upper[0] <= 'Z' {
		return design.PhaseSingle
	}
	return design.PhaseUnknown
}

// decodeVoltage implements §4.1's voltage decoding: a positive numeric
// voltage value is authoritative, then an explicit LV conductor-kind
// code, and only then the HV default for unmarked distribution lines.
func decodeVoltage(raw design.RawFeature) (design.LineType, float64) {
	if v, ok := raw.Float(fieldVoltVal); ok && v > 0 {
		if v >= 1000 {
			return design.LineHV, v / 1000.0
		}
		return design.LineLV, v / 1000.0
	}

	if lvConductorKinds[strings.ToUpper(strings.TrimSpace(raw.Str(fieldPrwrKndCD)))] {
		v, _ := raw.Float(fieldVoltVal)
		return design.LineLV, v / 1000.0
	}

	// Distribution lines default to 22.9kV HV when neither the
	// conductor-kind code nor a positive voltage value disambiguates them.
	return design.LineHV, 0
}

// decodeWireSpec implements §4.1's wire-spec decoding: conductor-kind
// code combined with cross-section code produces a canonical spec string
// such as "ACSR-95" or "OW-22".
func decodeWireSpec(raw design.RawFeature) string {
	kind := strings.ToUpper(strings.TrimSpace(raw.Str(fieldPrwrKndCD)))
	section := strings.TrimSpace(raw.Str(fieldCrossSectCD))
	if kind == "" || section == "" {
		return ""
	}
	return kind + "-" + section
}

func rawID(raw design.RawFeature) string {
	if id := raw.Str(fieldGID); id != "" {
		return id
	}
	if id := raw.Str(fieldPoleID); id != "" {
		return id
	}
	return raw.Str(fieldFtrIdn)
}

func pointGeometry(raw design.RawFeature) (orb.Point, bool) {
	v, ok := raw[fieldGeometry]
	if !ok {
		return orb.Point{}, false
	}
	switch g := v.(type) {
	case orb.Point:
		return g, true
	case orb.LineString:
		if len(g) > 0 {
			return g[0], true
		}
	}
	return orb.Point{}, false
}

func lineStringGeometry(raw design.RawFeature) (orb.LineString, bool) {
	v, ok := raw[fieldGeometry]
	if !ok {
		return nil, false
	}
	if g, ok := v.(orb.LineString); ok {
		return g, true
	}
	return nil, false
}

func polygonGeometry(raw design.RawFeature) (orb.Polygon, bool) {
	v, ok := raw[fieldGeometry]
	if !ok {
		return nil, false
	}
	if g, ok := v.(orb.Polygon); ok {
		return g, true
	}
	return nil, false
}
