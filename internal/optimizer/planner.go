package optimizer

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shoplyft/plan-service/internal/refdata"
)

// Planner runs the full optimization pipeline for one request: build the
// price dataset, enumerate candidate routes, score them, select the best and
// assemble the plan. It is stateless per request and safe for concurrent use.
type Planner struct {
	ref       *refdata.Set
	cfg       *Config
	builder   *DatasetBuilder
	enum      *RouteEnumerator
	scorer    *RouteScorer
	assembler *BasketAssembler
	metrics   *MetricsRecorder
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPlanner validates the configuration and wires the pipeline components.
func NewPlanner(ref *refdata.Set, cfg *Config, metrics *MetricsRecorder, logger zerolog.Logger) (*Planner, error) {
	if cfg == nil {
		cfg = Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	logger = logger.With().Str("component", "planner").Logger()
	return &Planner{
		ref:       ref,
		cfg:       cfg,
		builder:   NewDatasetBuilder(ref, logger),
		enum:      NewRouteEnumerator(ref, logger),
		scorer:    NewRouteScorer(cfg, logger),
		assembler: NewBasketAssembler(ref, logger),
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer("plan-service/optimizer"),
	}, nil
}

// Plan produces the optimal shopping plan for a request. Zero-valued
// MaxStores, Strategy and weights fall back to the configured defaults.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (ShoppingPlan, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy, _ = ParseStrategy(p.cfg.Strategy)
	}

	ctx, span := p.tracer.Start(ctx, "optimizer.Plan", trace.WithAttributes(
		attribute.String("strategy", string(strategy)),
		attribute.Int("items", len(req.Items)),
	))
	defer span.End()

	start := time.Now()
	plan, err := p.plan(ctx, req, strategy)
	if err != nil {
		p.metrics.RecordError(errorKind(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Warn().Err(err).Str("strategy", string(strategy)).Msg("Optimization failed")
		return ShoppingPlan{}, err
	}

	duration := time.Since(start)
	p.metrics.RecordRun(string(strategy), duration)
	p.metrics.RecordPlan(plan.TotalSavings, plan.StoreCount)
	p.logger.Info().
		Str("strategy", string(strategy)).
		Int("stores", plan.StoreCount).
		Int64("total_cost", plan.TotalCost).
		Int64("total_savings", plan.TotalSavings).
		Dur("duration", duration).
		Msg("Shopping plan produced")

	return plan, nil
}

func (p *Planner) plan(ctx context.Context, req PlanRequest, strategy Strategy) (ShoppingPlan, error) {
	if len(req.Items) == 0 {
		return ShoppingPlan{}, ErrEmptyBasket
	}
	if len(req.Items) > p.cfg.MaxBasketItems {
		return ShoppingPlan{}, ErrInvalidRequest{Field: "items", Reason: "too many items"}
	}
	p.metrics.RecordBasketSize(len(req.Items))

	maxStores := req.MaxStores
	if maxStores == 0 {
		maxStores = p.cfg.MaxStores
	}
	if maxStores < 1 {
		return ShoppingPlan{}, ErrInvalidRequest{Field: "max_stores", Reason: "must be at least 1"}
	}

	weights, err := p.resolveWeights(req.PriceWeight, req.TimeWeight)
	if err != nil {
		return ShoppingPlan{}, err
	}

	dataset, err := p.builder.Build(req.Items)
	if err != nil {
		return ShoppingPlan{}, err
	}
	p.metrics.RecordDatasetRows(len(dataset))

	routes, err := p.enum.Enumerate(dataset, req.Origin, maxStores, strategy)
	if err != nil {
		return ShoppingPlan{}, err
	}
	p.metrics.RecordRoutesEnumerated(string(strategy), len(routes))

	scored, err := p.scorer.ScoreAll(ctx, routes, dataset, req.Origin, weights, strategy.RoundTrip())
	if err != nil {
		return ShoppingPlan{}, err
	}

	winner, err := SelectOptimal(scored)
	if err != nil {
		return ShoppingPlan{}, err
	}

	return p.assembler.Assemble(winner, dataset, req.Origin, strategy.RoundTrip()), nil
}

// resolveWeights validates the request weights and falls back to the
// configured pair when both are zero. Weight pairs summing above 1.0 are
// scaled down proportionally so the combined score stays comparable across
// requests.
func (p *Planner) resolveWeights(price, timeW float64) (Weights, error) {
	if price == 0 && timeW == 0 {
		return Weights{Price: p.cfg.PriceWeight, Time: p.cfg.TimeWeight}, nil
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return Weights{}, ErrInvalidWeights{Field: "price_weight", Reason: "must be finite"}
	}
	if math.IsNaN(timeW) || math.IsInf(timeW, 0) {
		return Weights{}, ErrInvalidWeights{Field: "time_weight", Reason: "must be finite"}
	}
	if price < 0 {
		return Weights{}, ErrInvalidWeights{Field: "price_weight", Reason: "must be non-negative"}
	}
	if timeW < 0 {
		return Weights{}, ErrInvalidWeights{Field: "time_weight", Reason: "must be non-negative"}
	}
	if sum := price + timeW; sum > 1.0 {
		price /= sum
		timeW /= sum
	}
	return Weights{Price: price, Time: timeW}, nil
}

// errorKind maps pipeline errors to stable metric labels.
func errorKind(err error) string {
	var (
		unknownProduct ErrUnknownProduct
		unknownStore   ErrUnknownStore
		invalidRequest ErrInvalidRequest
		invalidWeights ErrInvalidWeights
	)
	switch {
	case errors.Is(err, ErrEmptyBasket):
		return "empty_basket"
	case errors.Is(err, ErrNoPriceData):
		return "no_price_data"
	case errors.Is(err, ErrNoRoutes):
		return "no_routes"
	case errors.Is(err, ErrNoOptimalRoute):
		return "no_optimal_route"
	case errors.As(err, &unknownProduct):
		return "unknown_product"
	case errors.As(err, &unknownStore):
		return "unknown_store"
	case errors.As(err, &invalidRequest):
		return "invalid_request"
	case errors.As(err, &invalidWeights):
		return "invalid_weights"
	default:
		return "internal"
	}
}
