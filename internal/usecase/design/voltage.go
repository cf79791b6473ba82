package design

import (
	"math"

	"lineplan/config"
	"lineplan/internal/domain/design"
)

const (
	nominalVoltageLVSingle = 220.0
	nominalVoltageLVThree  = 380.0
	nominalVoltageHV       = 22900.0
)

// VoltageDropCalculator is the Voltage Drop Calculator (S9).
type VoltageDropCalculator struct {
	resistanceOhmPerKm map[string]float64
	limitLV            float64
	limitHV            float64
}

func NewVoltageDropCalculator(wire config.WireConfig, limitLV, limitHV float64) *VoltageDropCalculator {
	return &VoltageDropCalculator{resistanceOhmPerKm: wire.ResistanceOhmPerKm, limitLV: limitLV, limitHV: limitHV}
}

// Calculate implements §4.9's K(wire_spec)-based drop formula.
func (v *VoltageDropCalculator) Calculate(lengthM, loadKW float64, wireSpec string, voltageClass design.VoltageClass, phase design.PhaseClass) design.VoltageDropResult {
	nominalV, phaseFactor := nominalVoltage(voltageClass, phase)
	k := v.kConstant(wireSpec, phase)

	loadA := loadKW * 1000.0 / (nominalV * phaseFactor)
	dropV := k * loadA * lengthM
	dropPercent := dropV / nominalV * 100.0

	limit := v.limitLV
	if voltageClass == design.VoltageHV {
		limit = v.limitHV
	}

	return design.VoltageDropResult{
		DistanceM:      lengthM,
		LoadKW:         loadKW,
		VoltageDropV:   dropV,
		VoltageDropPct: dropPercent,
		IsAcceptable:   dropPercent <= limit,
		LimitPercent:   limit,
		WireSpec:       wireSpec,
	}
}

// kConstant implements §4.9: resistance doubled for the single-phase
// return conductor, or scaled by √3 for three-phase, converted from the
// table's Ω/km to Ω/m.
func (v *VoltageDropCalculator) kConstant(wireSpec string, phase design.PhaseClass) float64 {
	resistancePerM := v.resistanceOhmPerKm[wireSpec] / 1000.0
	if phase == design.PhaseThree {
		return resistancePerM * math.Sqrt(3)
	}
	return resistancePerM * 2
}

func nominalVoltage(voltageClass design.VoltageClass, phase design.PhaseClass) (nominalV, phaseFactor float64) {
	if voltageClass == design.VoltageHV {
		if phase == design.PhaseThree {
			return nominalVoltageHV, math.Sqrt(3)
		}
		return nominalVoltageHV, 1
	}
	if phase == design.PhaseThree {
		return nominalVoltageLVThree, math.Sqrt(3)
	}
	return nominalVoltageLVSingle, 1
}
