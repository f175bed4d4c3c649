package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vsinha/bommrp/pkg/application/services/mrp"
	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
	"github.com/vsinha/bommrp/pkg/infrastructure/logger"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/memory"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Series     int     // Series roots to generate
	Depth      int     // Levels below Series, 1 to 4
	Components int     // Leaf items shared by every technical list
	Orders     int     // Production orders
	Coverage   float64 // Stock as a fraction of the generated demand (0.5 = half, 2 = double)
	Seed       uint64  // 0 picks a random seed
	Start      time.Time
}

func (c GenerateConfig) validate() error {
	if c.Series < 1 {
		return errors.New("--series must be at least 1")
	}
	if c.Depth < 1 || c.Depth > 4 {
		return errors.New("--depth must be between 1 and 4")
	}
	if c.Components < 1 {
		return errors.New("--components must be at least 1")
	}
	if c.Orders < 0 || c.Coverage < 0 {
		return errors.New("--orders and --coverage cannot be negative")
	}
	return nil
}

func newGenerateCommand(opts *Options) *cobra.Command {
	cfg := GenerateConfig{}

	cmd := &cobra.Command{
		Use:   "generate <dir>",
		Short: "Write a random scenario directory",
		Long: `Generates technical lists with a full Series → System → Assembly →
Subassembly → ItemLevel chain, shared components, partial weightings and
production orders. Stock is sized from the generated demand times --coverage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cfg.Start.IsZero() {
				cfg.Start = time.Now().UTC().Truncate(24 * time.Hour)
			}

			catalog, err := GenerateScenario(ctx, cfg, opts.Workers)
			if err != nil {
				return err
			}
			if err := csv.WriteScenario(args[0], catalog); err != nil {
				return err
			}

			cmd.Printf("✅ Scenario generated in %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Series, "series", 2, "Series roots")
	cmd.Flags().IntVar(&cfg.Depth, "depth", 4, "levels below Series (1-4)")
	cmd.Flags().IntVar(&cfg.Components, "components", 40, "leaf items")
	cmd.Flags().IntVar(&cfg.Orders, "orders", 5, "production orders")
	cmd.Flags().Float64Var(&cfg.Coverage, "coverage", 0.5, "stock as a fraction of generated demand")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "random seed for reproducible scenarios")
	return cmd
}

type generator struct {
	cfg        GenerateConfig
	faker      *gofakeit.Faker
	items      []*entities.Item
	nodes      []*entities.TechnicalListNode
	edges      []*entities.BOMEdge
	orders     []*entities.ProductionOrder
	roots      []string
	nodeSerial int
}

// GenerateScenario builds a random catalog. The stock of every item is set
// to its planned requirement times cfg.Coverage.
func GenerateScenario(ctx context.Context, cfg GenerateConfig, workers int) (repositories.Catalog, error) {
	if err := cfg.validate(); err != nil {
		return repositories.Catalog{}, err
	}

	g := &generator{cfg: cfg, faker: gofakeit.New(cfg.Seed)}
	g.generateItems()
	for i := range cfg.Series {
		root := g.addNode(entities.Series, "", fmt.Sprintf("SER-%02d", i+1))
		g.roots = append(g.roots, root.ID)
		g.expand(root, cfg.Depth)
	}
	g.generateOrders()

	catalog := memory.NewCatalog()
	if err := catalog.Items.LoadItems(g.items); err != nil {
		return catalog, err
	}
	if err := catalog.Nodes.LoadNodes(g.nodes); err != nil {
		return catalog, err
	}
	if err := catalog.BOM.LoadEdges(g.edges); err != nil {
		return catalog, err
	}
	if err := catalog.Orders.LoadOrders(g.orders); err != nil {
		return catalog, err
	}

	result, err := mrp.NewMRPService(mrp.EngineConfig{Workers: workers}).Run(ctx, catalog)
	if err != nil {
		return catalog, fmt.Errorf("generated scenario does not plan: %w", err)
	}
	coverage := decimal.NewFromFloat(cfg.Coverage)
	for id, req := range result.Requirements {
		if err := catalog.Items.UpdateStock(id, req.Necessary.Mul(coverage).Round(0)); err != nil {
			return catalog, err
		}
	}

	logger.Info(ctx, "scenario generated",
		logger.Int("items", len(g.items)),
		logger.Int("technical_lists", len(g.nodes)),
		logger.Int("edges", len(g.edges)),
		logger.Int("orders", len(g.orders)),
	)
	return catalog, nil
}

func (g *generator) generateItems() {
	for i := range g.cfg.Components {
		kind, unit := entities.Component, "EA"
		if g.faker.Float64() < 0.2 {
			kind, unit = entities.RawMaterial, "KG"
		}
		g.items = append(g.items, &entities.Item{
			ID:               fmt.Sprintf("I%04d", i+1),
			Code:             fmt.Sprintf("CMP-%04d", i+1),
			Name:             g.faker.ProductName(),
			UnitOfMeasure:    unit,
			Stock:            decimal.Zero,
			LeadTimeDays:     g.faker.IntRange(0, 45),
			Manufacturer:     g.faker.Company(),
			ManufacturerCode: g.faker.LetterN(3) + "-" + g.faker.DigitN(4),
			Kind:             kind,
		})
	}
}

func (g *generator) addNode(level entities.LevelKind, parentID, code string) *entities.TechnicalListNode {
	g.nodeSerial++
	node := &entities.TechnicalListNode{
		ID:       fmt.Sprintf("N%04d", g.nodeSerial),
		Code:     code,
		Name:     fmt.Sprintf("%s %s", level, g.faker.ProductName()),
		Level:    level,
		ParentID: parentID,
	}
	g.nodes = append(g.nodes, node)
	return node
}

// expand gives parent 1-3 sub-lists one level down until depth runs out,
// then attaches 2-5 components drawn from the shared pool
func (g *generator) expand(parent *entities.TechnicalListNode, depth int) {
	if depth == 0 {
		for range g.faker.IntRange(2, 5) {
			item := g.items[g.faker.IntRange(0, len(g.items)-1)]
			g.addEdge(parent.ID, "", item.ID)
		}
		return
	}

	for i := range g.faker.IntRange(1, 3) {
		child := g.addNode(parent.Level-1, parent.ID, fmt.Sprintf("%s.%d", parent.Code, i+1))
		g.addEdge(parent.ID, child.ID, "")
		g.expand(child, depth-1)
	}
}

func (g *generator) addEdge(parentID, subListID, componentID string) {
	quantity := decimal.NewFromInt(int64(g.faker.IntRange(1, 6)))
	if componentID != "" && g.faker.Float64() < 0.15 {
		quantity = decimal.NewFromFloat(g.faker.Float64Range(0.1, 3)).Round(entities.QuantityPrecision)
	}
	weighting := entities.DefaultWeighting
	if g.faker.Float64() < 0.2 {
		weighting = decimal.NewFromInt(int64(25 * g.faker.IntRange(1, 3)))
	}
	g.edges = append(g.edges, &entities.BOMEdge{
		ParentID:    parentID,
		SubListID:   subListID,
		ComponentID: componentID,
		Quantity:    quantity,
		Weighting:   weighting,
	})
}

func (g *generator) generateOrders() {
	for i := range g.cfg.Orders {
		g.orders = append(g.orders, &entities.ProductionOrder{
			ID:         fmt.Sprintf("OP%03d", i+1),
			RootNodeID: g.roots[g.faker.IntRange(0, len(g.roots)-1)],
			Quantity:   decimal.NewFromInt(int64(g.faker.IntRange(1, 20))),
			DueDate:    g.cfg.Start.AddDate(0, 0, g.faker.IntRange(10, 120)),
			Label:      fmt.Sprintf("%s batch", g.faker.AdjectiveDescriptive()),
		})
	}
}
