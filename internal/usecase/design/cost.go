package design

import (
	"math"

	"lineplan/config"
	"lineplan/internal/domain/design"
)

// CostEstimator is the Cost Estimator (S8).
type CostEstimator struct {
	pricing      config.PricingConfig
	overheadRate float64
	profitRate   float64
}

func NewCostEstimator(pricing config.PricingConfig, overheadRate, profitRate float64) *CostEstimator {
	return &CostEstimator{pricing: pricing, overheadRate: overheadRate, profitRate: profitRate}
}

// SpecSelection is S8's pole/wire spec selection output, also consumed
// by the Voltage Drop Calculator (S9) for its K(wire_spec) lookup.
type SpecSelection struct {
	PoleSpec string
	WireSpec string
}

// SelectSpec implements §4.8.a: pole spec from voltage class, wire spec
// from voltage class + estimated load, picking the smallest table tier
// that covers the load.
func (c *CostEstimator) SelectSpec(voltageClass design.VoltageClass, loadKW float64) SpecSelection {
	if voltageClass == design.VoltageHV {
		return SpecSelection{PoleSpec: "STEEL-10M", WireSpec: acsrTierForLoad(loadKW)}
	}
	return SpecSelection{PoleSpec: "CONCRETE-10M", WireSpec: owTierForLoad(loadKW)}
}

func acsrTierForLoad(loadKW float64) string {
	switch {
	case loadKW <= 50:
		return "ACSR-58"
	case loadKW <= 150:
		return "ACSR-95"
	default:
		return "ACSR-160"
	}
}

func owTierForLoad(loadKW float64) string {
	if loadKW <= 10 {
		return "OW-22"
	}
	return "OW-38"
}

func (c *CostEstimator) unitWireCost(wireSpec string) float64 {
	switch wireSpec {
	case "ACSR-58":
		return c.pricing.WireACSR58
	case "ACSR-95":
		return c.pricing.WireACSR95
	case "ACSR-160":
		return c.pricing.WireACSR160
	case "OW-22":
		return c.pricing.WireOW22
	case "OW-38":
		return c.pricing.WireOW38
	default:
		return c.pricing.WireOW22
	}
}

func (c *CostEstimator) unitPoleCost(poleSpec string) float64 {
	switch poleSpec {
	case "STEEL-10M":
		return c.pricing.PoleSteel10m
	case "CONCRETE-12M":
		return c.pricing.PoleConcrete12m
	default:
		return c.pricing.PoleConcrete10m
	}
}

// Estimate implements §4.8's itemised cost formula.
func (c *CostEstimator) Estimate(pathLength float64, newPoleCount int, spec SpecSelection) design.CostBreakdown {
	poleCost := float64(newPoleCount) * c.unitPoleCost(spec.PoleSpec)
	wireCost := pathLength * c.unitWireCost(spec.WireSpec)
	fittingsCount := float64(newPoleCount + 1) // one set per span: new poles plus one
	fittingsCost := fittingsCount * (c.pricing.InsulatorLP + c.pricing.ArmTie + c.pricing.Clamp + c.pricing.Connector)

	material := poleCost + wireCost + fittingsCost

	laborFittings := fittingsCount * c.pricing.LaborInsulator
	labor := c.pricing.LaborBase +
		float64(newPoleCount)*c.pricing.LaborPoleInstall +
		pathLength*c.pricing.LaborWireStretch +
		laborFittings

	overhead := c.overheadRate * (material + labor)
	profit := c.profitRate * (material + labor + overhead)
	total := material + labor + overhead + profit

	return design.CostBreakdown{
		MaterialCost: material,
		LaborCost:    labor,
		OverheadCost: overhead,
		ProfitCost:   profit,
		TotalCost:    total,
		CostIndex:    int64(math.Round(total/1000.0) * 1000),
		WireCost:     wireCost,
		PoleCost:     poleCost,
	}
}
