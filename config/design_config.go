package config

// DesignConfig holds every constant enumerated in §6 of the design
// pipeline specification, plus the pricing and wire-constant tables it
// delegates to. It is loaded the same way as the rest of Config — one
// YAML section, overridable by environment variables — and treated as
// process-wide immutable configuration for the life of the process
// (no per-request mutation, per the concurrency model).
type DesignConfig struct {
	// MaxDistanceM is the hard cap on consumer-to-source routed length.
	MaxDistanceM float64 `json:"maxDistanceM" yaml:"maxDistanceM"`

	// FastTrackLimitM is the direct-segment eligibility distance.
	FastTrackLimitM float64 `json:"fastTrackLimitM" yaml:"fastTrackLimitM"`

	// PoleIntervalM is the new-pole spacing along an accepted path.
	PoleIntervalM float64 `json:"poleIntervalM" yaml:"poleIntervalM"`

	// SnapToleranceM is the road-endpoint merge distance.
	SnapToleranceM float64 `json:"snapToleranceM" yaml:"snapToleranceM"`

	// MaxAttachM is the consumer/pole to road maximum perpendicular distance.
	MaxAttachM float64 `json:"maxAttachM" yaml:"maxAttachM"`

	// PoleNudgeM is the building-avoidance slide budget for new poles.
	PoleNudgeM float64 `json:"poleNudgeM" yaml:"poleNudgeM"`

	// MaxRoutes truncates the ranked route output.
	MaxRoutes int `json:"maxRoutes" yaml:"maxRoutes"`

	// LimitVoltageDropLVPercent is the LV voltage-drop acceptance limit.
	LimitVoltageDropLVPercent float64 `json:"limitVoltageDropLvPercent" yaml:"limitVoltageDropLvPercent"`

	// LimitVoltageDropHVPercent is the HV voltage-drop acceptance limit.
	LimitVoltageDropHVPercent float64 `json:"limitVoltageDropHvPercent" yaml:"limitVoltageDropHvPercent"`

	// OverheadRate is the overhead cost multiplier.
	OverheadRate float64 `json:"overheadRate" yaml:"overheadRate"`

	// ProfitRate is the profit cost multiplier.
	ProfitRate float64 `json:"profitRate" yaml:"profitRate"`

	// RequestTimeout is the orchestrator's per-request wall-clock deadline.
	RequestTimeout string `json:"requestTimeout" yaml:"requestTimeout"`

	// PoleCostShare is the amortised cost of one new pole folded into edge
	// weight (§4.4): weight = length + (length / PoleIntervalM) * PoleCostShare.
	// It is its own constant, independent of the unit pole prices in Pricing.
	PoleCostShare float64 `json:"poleCostShare" yaml:"poleCostShare"`

	// QuantizeEpsilonM is the coordinate-quantization tolerance used to
	// collapse coincident road-polyline vertices into one graph node.
	QuantizeEpsilonM float64 `json:"quantizeEpsilonM" yaml:"quantizeEpsilonM"`

	// DefaultLoadKW is used by the Voltage Drop Calculator (§4.9) and the
	// Cost Estimator's spec-selection (§4.8) when the caller supplies no
	// explicit load.
	DefaultLoadKW float64 `json:"defaultLoadKw" yaml:"defaultLoadKw"`

	// DefaultPowerFactor is loaded with the rest of the configuration; the
	// Voltage Drop Calculator's load-current estimate does not use it.
	DefaultPowerFactor float64 `json:"defaultPowerFactor" yaml:"defaultPowerFactor"`

	Pricing PricingConfig `json:"pricing" yaml:"pricing"`
	Wire    WireConfig    `json:"wire" yaml:"wire"`
}

// PricingConfig is the itemised cost table consumed by the Cost
// Estimator (§4.8). Values are currency units per the deployment's
// convention; the pipeline itself is unit-agnostic.
type PricingConfig struct {
	PoleConcrete10m float64 `json:"poleConcrete10m" yaml:"poleConcrete10m"`
	PoleConcrete12m float64 `json:"poleConcrete12m" yaml:"poleConcrete12m"`
	PoleSteel10m    float64 `json:"poleSteel10m" yaml:"poleSteel10m"`

	WireACSR58  float64 `json:"wireAcsr58" yaml:"wireAcsr58"`
	WireACSR95  float64 `json:"wireAcsr95" yaml:"wireAcsr95"`
	WireACSR160 float64 `json:"wireAcsr160" yaml:"wireAcsr160"`
	WireOW22    float64 `json:"wireOw22" yaml:"wireOw22"`
	WireOW38    float64 `json:"wireOw38" yaml:"wireOw38"`

	InsulatorLP       float64 `json:"insulatorLp" yaml:"insulatorLp"`
	ArmTie            float64 `json:"armTie" yaml:"armTie"`
	Clamp             float64 `json:"clamp" yaml:"clamp"`
	Connector         float64 `json:"connector" yaml:"connector"`

	LaborBase          float64 `json:"laborBase" yaml:"laborBase"`
	LaborPoleInstall   float64 `json:"laborPoleInstall" yaml:"laborPoleInstall"`
	LaborWireStretch   float64 `json:"laborWireStretch" yaml:"laborWireStretch"`
	LaborInsulator     float64 `json:"laborInsulator" yaml:"laborInsulator"`
}

// WireConfig is the per-spec resistance table that §4.9's K(wire_spec)
// is derived from.
type WireConfig struct {
	ResistanceOhmPerKm map[string]float64 `json:"resistanceOhmPerKm" yaml:"resistanceOhmPerKm"`
}

// DefaultDesignConfig returns the configuration documented in spec.md §6,
// used as compiled-in defaults when no YAML override is supplied.
func DefaultDesignConfig() *DesignConfig {
	return &DesignConfig{
		MaxDistanceM:              400.0,
		FastTrackLimitM:           50.0,
		PoleIntervalM:             40.0,
		SnapToleranceM:            10.0,
		MaxAttachM:                100.0,
		PoleNudgeM:                5.0,
		MaxRoutes:                 10,
		LimitVoltageDropLVPercent: 6.0,
		LimitVoltageDropHVPercent: 3.0,
		OverheadRate:              0.05,
		ProfitRate:                0.05,
		RequestTimeout:            "60s",
		PoleCostShare:             12500.0,
		QuantizeEpsilonM:          0.01,
		DefaultLoadKW:             3.0,
		DefaultPowerFactor:        0.9,
		Pricing: PricingConfig{
			PoleConcrete10m:  350000,
			PoleConcrete12m:  450000,
			PoleSteel10m:     800000,
			WireACSR58:       6500,
			WireACSR95:       8500,
			WireACSR160:      12000,
			WireOW22:         5500,
			WireOW38:         7000,
			InsulatorLP:      45000,
			ArmTie:           35000,
			Clamp:            15000,
			Connector:        8000,
			LaborBase:        200000,
			LaborPoleInstall: 250000,
			LaborWireStretch: 15000,
			LaborInsulator:   20000,
		},
		Wire: WireConfig{
			ResistanceOhmPerKm: map[string]float64{
				"ACSR-58":  0.595,
				"ACSR-95":  0.363,
				"ACSR-160": 0.215,
				"OW-22":    0.827,
				"OW-38":    0.480,
			},
		},
	}
}
