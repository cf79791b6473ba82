package design

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lineplan/config"
	"lineplan/internal/domain/design"
)

func TestVoltageDropCalculator_Calculate_WithinLimitForShortRun(t *testing.T) {
	cfg := config.DefaultDesignConfig()
	calc := NewVoltageDropCalculator(cfg.Wire, cfg.LimitVoltageDropLVPercent, cfg.LimitVoltageDropHVPercent)

	result := calc.Calculate(20, 3, "OW-22", design.VoltageLV, design.PhaseSingle)

	assert.True(t, result.IsAcceptable)
	assert.Equal(t, 6.0, result.LimitPercent)
}

func TestVoltageDropCalculator_Calculate_ExceedsLimitForLongRun(t *testing.T) {
	cfg := config.DefaultDesignConfig()
	calc := NewVoltageDropCalculator(cfg.Wire, cfg.LimitVoltageDropLVPercent, cfg.LimitVoltageDropHVPercent)

	result := calc.Calculate(390, 10, "OW-22", design.VoltageLV, design.PhaseSingle)

	assert.False(t, result.IsAcceptable)
}

func TestVoltageDropCalculator_Calculate_ThreePhaseUsesLowerFactor(t *testing.T) {
	cfg := config.DefaultDesignConfig()
	calc := NewVoltageDropCalculator(cfg.Wire, cfg.LimitVoltageDropLVPercent, cfg.LimitVoltageDropHVPercent)

	single := calc.Calculate(100, 10, "OW-22", design.VoltageLV, design.PhaseSingle)
	three := calc.Calculate(100, 10, "OW-22", design.VoltageLV, design.PhaseThree)

	assert.Less(t, three.VoltageDropPct, single.VoltageDropPct)
}

func TestVoltageDropCalculator_Calculate_HVUsesHVLimit(t *testing.T) {
	cfg := config.DefaultDesignConfig()
	calc := NewVoltageDropCalculator(cfg.Wire, cfg.LimitVoltageDropLVPercent, cfg.LimitVoltageDropHVPercent)

	result := calc.Calculate(200, 50, "ACSR-95", design.VoltageHV, design.PhaseThree)

	assert.Equal(t, 3.0, result.LimitPercent)
}

func TestVoltageDropCalculator_Calculate_HVThreePhaseAppliesSqrt3PhaseFactor(t *testing.T) {
	cfg := config.DefaultDesignConfig()
	calc := NewVoltageDropCalculator(cfg.Wire, cfg.LimitVoltageDropLVPercent, cfg.LimitVoltageDropHVPercent)

	single := calc.Calculate(200, 50, "ACSR-95", design.VoltageHV, design.PhaseSingle)
	three := calc.Calculate(200, 50, "ACSR-95", design.VoltageHV, design.PhaseThree)

	// Same HV nominal voltage for both phases, so the single-phase return-
	// conductor doubling and the three-phase sqrt(3) scaling net out to
	// exactly half the drop, not the unscaled single-phase value.
	assert.Less(t, three.VoltageDropPct, single.VoltageDropPct)
	assert.InDelta(t, single.VoltageDropPct/2, three.VoltageDropPct, 1e-9)
}
