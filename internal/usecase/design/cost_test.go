package design

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lineplan/config"
	"lineplan/internal/domain/design"
)

func testPricing() config.PricingConfig {
	return config.DefaultDesignConfig().Pricing
}

func TestCostEstimator_SelectSpec(t *testing.T) {
	c := NewCostEstimator(testPricing(), 0.05, 0.05)

	hv := c.SelectSpec(design.VoltageHV, 80)
	assert.Equal(t, "STEEL-10M", hv.PoleSpec)
	assert.Equal(t, "ACSR-95", hv.WireSpec)

	lv := c.SelectSpec(design.VoltageLV, 5)
	assert.Equal(t, "CONCRETE-10M", lv.PoleSpec)
	assert.Equal(t, "OW-22", lv.WireSpec)
}

func TestCostEstimator_Estimate_SumsToTotal(t *testing.T) {
	c := NewCostEstimator(testPricing(), 0.05, 0.05)
	spec := SpecSelection{PoleSpec: "CONCRETE-10M", WireSpec: "OW-22"}

	breakdown := c.Estimate(120, 3, spec)

	sum := breakdown.MaterialCost + breakdown.LaborCost + breakdown.OverheadCost + breakdown.ProfitCost
	assert.InDelta(t, sum, breakdown.TotalCost, 1e-6)
	assert.Greater(t, breakdown.TotalCost, 0.0)
}

func TestCostEstimator_Estimate_CostIndexRoundsToNearestThousand(t *testing.T) {
	c := NewCostEstimator(testPricing(), 0.05, 0.05)
	spec := SpecSelection{PoleSpec: "CONCRETE-10M", WireSpec: "OW-22"}

	breakdown := c.Estimate(100, 2, spec)

	assert.Equal(t, int64(0), breakdown.CostIndex%1000)
}
