package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/bommrp/pkg/domain/services"
	"github.com/vsinha/bommrp/pkg/infrastructure/config"
	"github.com/vsinha/bommrp/pkg/infrastructure/logger"
	"github.com/vsinha/bommrp/pkg/interfaces/cli/output"
)

// Options holds the flags shared by every command
type Options struct {
	ScenarioDir string
	DBPath      string
	Format      string
	Output      string
	Workers     int
	LevelPolicy string
	MetricsFile string
	Verbose     bool

	format output.Format
	policy services.LevelPolicy
}

// NewRootCommand builds the mrp command tree
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "mrp",
		Short: "Requirements explosion over technical lists",
		Long: `mrp explodes production orders through multi-level technical lists,
nets the resulting component demand against stock and reports what to buy.

The catalog is read from a scenario directory of CSV files (--scenario)
or from the SQLite store (--db).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.complete(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ScenarioDir, "scenario", "", "scenario directory with items.csv, technical_lists.csv, bom.csv and orders.csv")
	flags.StringVar(&opts.DBPath, "db", "", "SQLite catalog file (default from MRP_DB_PATH)")
	flags.StringVar(&opts.Format, "format", "text", "output format: text, json, csv")
	flags.StringVarP(&opts.Output, "output", "o", "", "write the report to this file instead of stdout")
	flags.IntVar(&opts.Workers, "workers", 0, "concurrent order explosions (0 = GOMAXPROCS)")
	flags.StringVar(&opts.LevelPolicy, "level-policy", "", "level rule between parent and sub-list: strict or descending")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newPlanCommand(opts),
		newDetailCommand(opts),
		newFlatCommand(opts),
		newImportCommand(opts),
		newStockCommand(opts),
		newGenerateCommand(opts),
	)
	return root
}

// complete loads the environment configuration, fills flags the user did
// not set from it and initializes logging
func (o *Options) complete(cmd *cobra.Command) error {
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.C()
	flags := cmd.Flags()

	if !flags.Changed("scenario") {
		o.ScenarioDir = cfg.Store.ScenarioDir()
	}
	if !flags.Changed("db") {
		o.DBPath = cfg.Store.DBPath()
	}
	if !flags.Changed("workers") {
		o.Workers = cfg.Planner.Workers()
	}
	if !flags.Changed("level-policy") {
		o.LevelPolicy = cfg.Planner.LevelPolicy()
	}
	if !flags.Changed("metrics-file") {
		o.MetricsFile = cfg.Planner.MetricsFile()
	}

	var err error
	if o.format, err = output.ParseFormat(o.Format); err != nil {
		return err
	}
	if o.policy, err = services.ParseLevelPolicy(o.LevelPolicy); err != nil {
		return fmt.Errorf("--level-policy: %w", err)
	}

	level := cfg.Logger.Level()
	if o.Verbose {
		level = "debug"
	}
	return logger.Init(level, cfg.Logger.AsJSON())
}
