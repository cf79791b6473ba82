package design

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"lineplan/config"
	"lineplan/internal/domain/design"
	"lineplan/internal/infra/geo"
)

// Orchestrator is the Orchestrator (S11): it drives every stage in
// order, aggregates diagnostics, and emits exactly one Status (§4.11).
//
// A single call to Process is one logical worker per §5: every mutable
// structure it touches (SpatialIndex, RoadGraph, AStar's heuristic
// cache) is built fresh inside the call, so concurrent calls against
// the same Orchestrator share nothing and never need to coordinate.
type Orchestrator struct {
	cfg        *config.DesignConfig
	logger     *slog.Logger
	validate   *validator.Validate
	normalizer *Normalizer
	selector   *Selector
	builder    *GraphBuilder
	pathfinder *Pathfinder
	crossing   *CrossingValidator
	allocator  *PoleAllocator
	cost       *CostEstimator
	voltage    *VoltageDropCalculator
	ranker     *Ranker
}

// Params is the fx constructor-injection struct for Orchestrator,
// following the Params convention used throughout internal/usecase/impl.
type Params struct {
	fx.In

	Config *config.DesignConfig
	Logger *slog.Logger
}

func NewOrchestrator(p Params) *Orchestrator {
	cfg := p.Config
	if cfg == nil {
		cfg = config.DefaultDesignConfig()
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	validate := validator.New()
	if err := validate.RegisterValidation("finite", validateFinite); err != nil {
		panic(err)
	}

	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		validate:   validate,
		normalizer: NewNormalizer(logger),
		selector:   NewSelector(cfg.MaxDistanceM, cfg.FastTrackLimitM),
		builder:    NewGraphBuilder(cfg.QuantizeEpsilonM, cfg.PoleIntervalM, cfg.PoleCostShare, cfg.SnapToleranceM, cfg.MaxAttachM),
		pathfinder: NewPathfinder(cfg.MaxDistanceM),
		crossing:   NewCrossingValidator(),
		allocator:  NewPoleAllocator(cfg.PoleIntervalM, cfg.PoleNudgeM, cfg.FastTrackLimitM),
		cost:       NewCostEstimator(cfg.Pricing, cfg.OverheadRate, cfg.ProfitRate),
		voltage:    NewVoltageDropCalculator(cfg.Wire, cfg.LimitVoltageDropLVPercent, cfg.LimitVoltageDropHVPercent),
		ranker:     NewRanker(cfg.MaxRoutes),
	}
}

// Process implements §4.11. It never returns a Go error for expected
// outcomes — those are carried in Result.Status per §7 — and reserves
// error wrapping for truly internal invariant violations, surfaced as
// StatusInternalError with a correlation id rather than a panic.
func (o *Orchestrator) Process(ctx context.Context, req design.Request) *design.Result {
	start := time.Now()

	timeout, err := time.ParseDuration(o.cfg.RequestTimeout)
	if err != nil {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := o.process(ctx, req)
	result.ProcessingTimeMS = time.Since(start).Milliseconds()
	return result
}

func (o *Orchestrator) process(ctx context.Context, req design.Request) (result *design.Result) {
	diagnostics := design.Diagnostics{DroppedFeatures: make(map[string]int)}

	defer func() {
		if r := recover(); r != nil {
			correlationID := newCorrelationID()
			o.logger.Error("design pipeline invariant violation",
				"correlation_id", correlationID, "panic", r)
			result = &design.Result{
				Status:        design.StatusInternalError,
				Diagnostics:   diagnostics,
				CorrelationID: correlationID,
				ErrorMessage:  errors.Errorf("%v", r).Error(),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return cancelledOrTimeout(err, diagnostics)
	}

	if err := o.validate.Struct(req); err != nil {
		correlationID := newCorrelationID()
		o.logger.Warn("rejected malformed design request",
			"correlation_id", correlationID, "error", err)
		return &design.Result{
			Status:        design.StatusInternalError,
			Diagnostics:   diagnostics,
			CorrelationID: correlationID,
			ErrorMessage:  errors.Wrap(err, "invalid request").Error(),
		}
	}

	normalized := o.normalizer.Normalize(req.Features)
	diagnostics.DroppedFeatures = normalized.Dropped

	spatialIndex := BuildSpatialIndex(normalized.Poles, normalized.Lines, normalized.Buildings)
	consumer := orb.Point{req.ConsumerX, req.ConsumerY}

	candidates := o.selector.Select(spatialIndex, consumer, req.Phase)
	if len(candidates) == 0 {
		return &design.Result{Status: design.StatusNoCandidate, RequestSpec: string(req.Phase), ConsumerCoord: consumer, Diagnostics: diagnostics}
	}

	if err := ctx.Err(); err != nil {
		return cancelledOrTimeout(err, diagnostics)
	}

	var paths []design.PathResult
	built, ok := o.builder.Build(normalized.Roads, consumer, candidates)
	if ok {
		astar := geo.NewAStar(built.Graph)
		paths = o.routeCandidates(ctx, built, astar, consumer, candidates)
	} else {
		paths = fastTrackPaths(o.pathfinder, consumer, candidates)
		if len(paths) == 0 {
			return &design.Result{Status: design.StatusNoRoadAccess, RequestSpec: string(req.Phase), ConsumerCoord: consumer, Diagnostics: diagnostics}
		}
	}

	if err := ctx.Err(); err != nil {
		return cancelledOrTimeout(err, diagnostics)
	}

	loadKW := req.LoadKW
	if loadKW <= 0 {
		loadKW = o.cfg.DefaultLoadKW
	}

	routes, anyReachable, anyUnderLimit := o.buildRoutes(spatialIndex, normalized.Lines, paths, req.Phase, loadKW, &diagnostics)

	if len(routes) == 0 {
		status := design.StatusNoRoute
		if anyReachable && !anyUnderLimit {
			status = design.StatusOverDistance
		}
		return &design.Result{Status: status, RequestSpec: string(req.Phase), ConsumerCoord: consumer, Diagnostics: diagnostics}
	}

	ranked := o.ranker.Rank(routes)

	return &design.Result{
		Status:        design.StatusSuccess,
		RequestSpec:   string(req.Phase),
		ConsumerCoord: consumer,
		Routes:        ranked,
		Diagnostics:   diagnostics,
	}
}

// fastTrackPaths implements §4.4's road-graph-failure fallback: when the
// batch has no road network the consumer can attach to, candidates
// within the fast-track radius still get a direct consumer-to-pole
// segment instead of sinking the whole request into NoRoadAccess —
// FindPath never dereferences graph/astar for a fast-track candidate,
// so both are passed nil here.
func fastTrackPaths(pf *Pathfinder, consumer orb.Point, candidates []design.Candidate) []design.PathResult {
	var paths []design.PathResult
	for _, c := range candidates {
		if !c.IsFastTrack {
			continue
		}
		paths = append(paths, pf.FindPath(nil, nil, consumer, 0, c, 0))
	}
	return paths
}

// routeCandidates runs the Pathfinder (S5) for every candidate over a
// bounded worker pool — grounded on the OneToMany pattern the routing
// engine already uses for parallel per-target queries — so independent
// candidates route concurrently within this one request's logical
// worker, while the results slice preserves the Selector's priority
// order for deterministic downstream processing.
func (o *Orchestrator) routeCandidates(ctx context.Context, built *BuildResult, astar *geo.AStar, consumer orb.Point, candidates []design.Candidate) []design.PathResult {
	results := make([]design.PathResult, len(candidates))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				candidate := candidates[idx]

				if ctx.Err() != nil {
					results[idx] = design.PathResult{Candidate: &candidate, Reachable: false}
					continue
				}

				node, hasRoad := built.CandidateNodes[candidate.Pole.ID]
				if !hasRoad && !candidate.IsFastTrack {
					results[idx] = design.PathResult{Candidate: &candidate, Reachable: false}
					continue
				}

				results[idx] = o.pathfinder.FindPath(built.Graph, astar, consumer, built.ConsumerNode, candidate, node)
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// buildRoutes runs the Crossing Validator (S6), Pole Allocator (S7),
// Cost Estimator (S8) and Voltage Drop Calculator (S9) over every
// reachable path, in priority order, appending diagnostics for whatever
// falls out along the way.
func (o *Orchestrator) buildRoutes(idx *SpatialIndex, lines []*design.Line, paths []design.PathResult, phase design.PhaseClass, loadKW float64, diagnostics *design.Diagnostics) (routes []design.RouteResult, anyReachable, anyUnderLimit bool) {
	for _, path := range paths {
		if !path.Reachable {
			continue
		}
		anyReachable = true

		if path.TotalLength > o.cfg.MaxDistanceM {
			diagnostics.RejectedCandidates = append(diagnostics.RejectedCandidates, design.RejectedCandidate{
				PoleID: path.Candidate.Pole.ID, Reason: "over_distance",
			})
			continue
		}
		anyUnderLimit = true

		if rejection, ok := o.crossing.Validate(idx, lines, path.Polyline); !ok {
			diagnostics.RejectedCandidates = append(diagnostics.RejectedCandidates, design.RejectedCandidate{
				PoleID: path.Candidate.Pole.ID, Reason: "crossing", LineID: rejection.LineID,
			})
			continue
		}

		newPoles, ok := o.allocator.Allocate(idx, path.Polyline, path.TotalLength, path.FastTrack)
		if !ok {
			diagnostics.RejectedCandidates = append(diagnostics.RejectedCandidates, design.RejectedCandidate{
				PoleID: path.Candidate.Pole.ID, Reason: "building_obstruction",
			})
			continue
		}

		spec := o.cost.SelectSpec(path.Candidate.Pole.VoltageClass, loadKW)
		breakdown := o.cost.Estimate(path.TotalLength, len(newPoles), spec)
		drop := o.voltage.Calculate(path.TotalLength, loadKW, spec.WireSpec, path.Candidate.Pole.VoltageClass, phase)

		sourcePhase := 1
		if phase == design.PhaseThree {
			sourcePhase = 3
		}

		routes = append(routes, design.RouteResult{
			TotalCost:          breakdown.TotalCost,
			CostIndex:          breakdown.CostIndex,
			TotalDistance:      path.TotalLength,
			StartPoleID:        path.Candidate.Pole.ID,
			StartPoleCoord:     path.Candidate.Pole.Position,
			NewPolesCount:      len(newPoles),
			PathCoordinates:    path.Polyline,
			NewPoleCoordinates: newPoles,
			WireCost:           breakdown.WireCost,
			PoleCost:           breakdown.PoleCost,
			LaborCost:          breakdown.LaborCost,
			OverheadCost:       breakdown.OverheadCost,
			ProfitCost:         breakdown.ProfitCost,
			PoleSpec:           spec.PoleSpec,
			WireSpec:           spec.WireSpec,
			SourceVoltageType:  path.Candidate.Pole.VoltageClass,
			SourcePhaseType:    sourcePhase,
			VoltageDrop:        drop,
		})
	}

	return routes, anyReachable, anyUnderLimit
}

func cancelledOrTimeout(err error, diagnostics design.Diagnostics) *design.Result {
	status := design.StatusCancelled
	if errors.Is(err, context.DeadlineExceeded) {
		status = design.StatusTimeout
	}
	return &design.Result{Status: status, Diagnostics: diagnostics}
}

func newCorrelationID() string {
	return uuid.NewString()
}

// validateFinite rejects NaN and Inf consumer coordinates; validator has
// no built-in tag for this since most DTOs never carry raw floats.
func validateFinite(fl validator.FieldLevel) bool {
	return !math.IsNaN(fl.Field().Float()) && !math.IsInf(fl.Field().Float(), 0)
}
