package mrp

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/bommrp/pkg/application/dto"
	"github.com/vsinha/bommrp/pkg/application/services/bomgraph"
	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
	"github.com/vsinha/bommrp/pkg/domain/services"
	"github.com/vsinha/bommrp/pkg/infrastructure/logger"
)

// EngineConfig holds the knobs of a planning run
type EngineConfig struct {
	// Workers bounds concurrent order explosions; 0 uses GOMAXPROCS
	Workers     int
	LevelPolicy services.LevelPolicy
	IncludeIdle bool
}

// Recorder receives run metrics
type Recorder interface {
	OrderFailed(reason string)
	ObserveRun(exploded, demandLines, netted, shortages int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) OrderFailed(string)                           {}
func (nopRecorder) ObserveRun(int, int, int, int, time.Duration) {}

// MRPService runs the requirements explosion over a catalog
type MRPService struct {
	config   EngineConfig
	recorder Recorder
	now      func() time.Time
}

// Option customizes an MRPService
type Option func(*MRPService)

// WithRecorder sends run metrics to r
func WithRecorder(r Recorder) Option {
	return func(s *MRPService) { s.recorder = r }
}

// WithClock overrides the clock used to stamp results
func WithClock(now func() time.Time) Option {
	return func(s *MRPService) { s.now = now }
}

// NewMRPService creates a new MRP service
func NewMRPService(config EngineConfig, opts ...Option) *MRPService {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	s := &MRPService{config: config, recorder: nopRecorder{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot copies everything a run needs out of the repositories so later
// writes to the store cannot affect a run in progress
func Snapshot(catalog repositories.Catalog) (dto.Snapshot, error) {
	const op = "mrp.Snapshot"

	items, err := catalog.Items.GetAllItems()
	if err != nil {
		return dto.Snapshot{}, fmt.Errorf("%s: items: %w", op, err)
	}
	nodes, err := catalog.Nodes.GetAllNodes()
	if err != nil {
		return dto.Snapshot{}, fmt.Errorf("%s: technical lists: %w", op, err)
	}
	edges, err := catalog.BOM.GetAllEdges()
	if err != nil {
		return dto.Snapshot{}, fmt.Errorf("%s: bom: %w", op, err)
	}
	orders, err := catalog.Orders.GetOrders()
	if err != nil {
		return dto.Snapshot{}, fmt.Errorf("%s: orders: %w", op, err)
	}

	return dto.Snapshot{
		Items:  lo.Map(items, func(i *entities.Item, _ int) *entities.Item { c := *i; return &c }),
		Nodes:  lo.Map(nodes, func(n *entities.TechnicalListNode, _ int) *entities.TechnicalListNode { c := *n; return &c }),
		Edges:  lo.Map(edges, func(e *entities.BOMEdge, _ int) *entities.BOMEdge { c := *e; return &c }),
		Orders: lo.Map(orders, func(o *entities.ProductionOrder, _ int) *entities.ProductionOrder { c := *o; return &c }),
	}, nil
}

// Run snapshots the catalog and plans every order in it
func (s *MRPService) Run(ctx context.Context, catalog repositories.Catalog) (*dto.MRPResult, error) {
	snapshot, err := Snapshot(catalog)
	if err != nil {
		return nil, err
	}
	return s.Plan(ctx, snapshot)
}

// Plan builds the graph, explodes orders in parallel and nets the demand.
// A structural error aborts the run; an order error only drops that order.
func (s *MRPService) Plan(ctx context.Context, snapshot dto.Snapshot) (*dto.MRPResult, error) {
	const op = "mrp.Plan"
	started := s.now()
	runID := uuid.NewString()
	ctx = logger.ContextWithFields(ctx, logger.String("run_id", runID))

	logger.Info(ctx, "planning run started",
		logger.Int("orders", len(snapshot.Orders)),
		logger.Int("items", len(snapshot.Items)),
		logger.Int("technical_lists", len(snapshot.Nodes)),
		logger.Int("bom_edges", len(snapshot.Edges)),
		logger.String("level_policy", s.config.LevelPolicy.String()),
	)

	graph, err := bomgraph.Build(snapshot.Nodes, snapshot.Edges, snapshot.Items, bomgraph.Options{
		LevelPolicy: s.config.LevelPolicy,
	})
	if err != nil {
		logger.Error(ctx, "technical list structure rejected", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: build graph: %w", op, err)
	}
	if orphans := graph.Orphaned(); len(orphans) > 0 {
		logger.Warn(ctx, "technical lists not anchored under a Series", logger.Strings("node_ids", orphans))
	}

	orders := make([]entities.ProductionOrder, len(snapshot.Orders))
	for i, o := range snapshot.Orders {
		orders[i] = *o
	}

	// one slot per order; workers never share a slot
	type slot struct {
		lines   []entities.DemandLine
		netting *Netting
		err     error
	}
	slots := make([]slot, len(orders))
	exploder := NewExploder(graph)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range orders {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			order := orders[i]
			lines, err := exploder.Explode(gctx, order)
			if err != nil {
				slots[i].err = err
				return nil
			}
			partial := NewNetting()
			partial.AddOrder(order, rootLabel(graph, order.RootNodeID), lines)
			slots[i] = slot{lines: lines, netting: partial}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn(ctx, "planning run cancelled", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &dto.MRPResult{
		RunID:       runID,
		GeneratedAt: started,
		Orders:      orders,
		Graph:       graph,
	}
	total := NewNetting()
	for i, sl := range slots {
		if sl.err != nil {
			failure := dto.OrderFailure{OrderID: orders[i].ID, Err: sl.err}
			result.Failures = append(result.Failures, failure)
			s.recorder.OrderFailed(failure.Reason())
			logger.Warn(ctx, "order skipped",
				logger.String("order_id", orders[i].ID),
				logger.String("reason", failure.Reason()),
				logger.ErrorF(sl.err),
			)
			continue
		}
		result.DemandLines = append(result.DemandLines, sl.lines...)
		total.Merge(sl.netting)
	}
	result.Requirements = total.Requirements(graph.Items(), NettingOptions{IncludeIdle: s.config.IncludeIdle})

	shortages := lo.CountBy(lo.Values(result.Requirements), func(r *entities.NettedRequirement) bool {
		return r.HasShortage()
	})
	result.Stats = dto.Stats{
		Orders:      len(orders),
		Exploded:    len(orders) - len(result.Failures),
		Failed:      len(result.Failures),
		DemandLines: len(result.DemandLines),
		Items:       len(result.Requirements),
		Shortages:   shortages,
		Duration:    s.now().Sub(started),
	}
	s.recorder.ObserveRun(result.Stats.Exploded, result.Stats.DemandLines, result.Stats.Items, shortages, result.Stats.Duration)

	logger.Info(ctx, "planning run finished",
		logger.Int("exploded", result.Stats.Exploded),
		logger.Int("failed", result.Stats.Failed),
		logger.Int("demand_lines", result.Stats.DemandLines),
		logger.Int("shortages", shortages),
		logger.Duration("elapsed", result.Stats.Duration),
	)
	return result, nil
}

// ExplodeOrder explodes a single order against a snapshot, for callers that
// only need traceability lines
func (s *MRPService) ExplodeOrder(ctx context.Context, snapshot dto.Snapshot, orderID string) ([]entities.DemandLine, error) {
	const op = "mrp.ExplodeOrder"

	order, ok := lo.Find(snapshot.Orders, func(o *entities.ProductionOrder) bool { return o.ID == orderID })
	if !ok {
		return nil, fmt.Errorf("%s: order %s not found", op, orderID)
	}
	graph, err := bomgraph.Build(snapshot.Nodes, snapshot.Edges, snapshot.Items, bomgraph.Options{
		LevelPolicy: s.config.LevelPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: build graph: %w", op, err)
	}
	return NewExploder(graph).Explode(ctx, *order)
}

func rootLabel(graph *bomgraph.Graph, nodeID string) string {
	n, ok := graph.Node(nodeID)
	if !ok {
		return nodeID
	}
	return fmt.Sprintf("[%s] %s", n.Code, n.Name)
}
