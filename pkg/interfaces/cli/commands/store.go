package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/bommrp/pkg/application/services/stock"
	"github.com/vsinha/bommrp/pkg/infrastructure/events"
	"github.com/vsinha/bommrp/pkg/infrastructure/logger"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/sqlite"
)

func newImportCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "import [scenario-dir]",
		Short: "Load a scenario directory into the SQLite store",
		Long: `Reads the scenario CSV files and replaces the contents of the SQLite
catalog with them in one transaction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := opts.ScenarioDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("a scenario directory is required (argument or --scenario)")
			}

			catalog, err := loadScenario(ctx, dir)
			if err != nil {
				return err
			}

			store, err := sqlite.Open(opts.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.Import(ctx, catalog)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			logger.Info(ctx, "scenario imported",
				logger.String("db", store.Path()),
				logger.Int("items", counts.Items),
				logger.Int("technical_lists", counts.Nodes),
				logger.Int("edges", counts.Edges),
				logger.Int("orders", counts.Orders),
			)
			cmd.Printf("✅ Imported %d items, %d technical lists, %d BOM edges, %d orders into %s\n",
				counts.Items, counts.Nodes, counts.Edges, counts.Orders, store.Path())
			return nil
		},
	}
}

func newStockCommand(opts *Options) *cobra.Command {
	var zeroMissing, showChanges bool

	cmd := &cobra.Command{
		Use:   "stock <position.csv>",
		Short: "Apply a stock position file to the SQLite store",
		Long: `Reads a stock position file with code and quantity columns, sums the
quantity per code and replaces the stock of the matching components.
Raw materials are never touched. With --zero-missing, components absent
from the file are set to zero. Stock always lives in the --db store, so
--scenario (or MRP_SCENARIO_DIR) is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if opts.ScenarioDir != "" {
				return fmt.Errorf("stock updates the SQLite store at --db; unset --scenario %s", opts.ScenarioDir)
			}

			position, err := csv.NewLoader().LoadStockPosition(args[0])
			if err != nil {
				return err
			}

			store, err := sqlite.Open(opts.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			journal := events.NewInMemoryEventStore()
			service := stock.NewService(store.Items(), stock.WithJournal(journal))
			res, err := service.ApplyPosition(ctx, position, stock.Options{ZeroMissing: zeroMissing})
			if err != nil {
				return err
			}

			if showChanges {
				changes, err := journal.ReadAllEvents(0)
				if err != nil {
					return err
				}
				for _, change := range events.StockChanges(changes) {
					cmd.Printf("  %-14s %s → %s\n", change.Code, change.Previous, change.Current)
				}
			}

			cmd.Printf("📦 %d codes in file, %d updated, %d zeroed\n", res.CodesInFile, res.Updated, res.Zeroed)
			if len(res.Unmatched) > 0 {
				cmd.Printf("⚠️  %d codes did not match a component: %v\n", len(res.Unmatched), res.Unmatched)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&zeroMissing, "zero-missing", false, "set components absent from the file to zero")
	cmd.Flags().BoolVar(&showChanges, "changes", false, "print every stock change")
	return cmd
}
