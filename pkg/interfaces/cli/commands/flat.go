package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsinha/bommrp/pkg/application/services/bomgraph"
	"github.com/vsinha/bommrp/pkg/application/services/mrp"
	"github.com/vsinha/bommrp/pkg/application/services/projection"
	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/interfaces/cli/output"
)

func newFlatCommand(opts *Options) *cobra.Command {
	var (
		projOpts   projection.Options
		fromDemand bool
	)

	cmd := &cobra.Command{
		Use:   "flat",
		Short: "Print the technical lists as a flat BOM table",
		Long: `Walks the technical lists from their Series roots and prints one row per
component occurrence with every ancestor level filled in. With --detailed a
row is added for each sub-list edge. With --from-demand the rows come from
the explosion of the production orders instead, one per demand line, and
--root keeps the lines of orders placed on that technical list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var rows []projection.Row
			if fromDemand {
				if projOpts.Detailed {
					return fmt.Errorf("--detailed cannot be combined with --from-demand")
				}
				result, err := opts.runPlan(ctx, false)
				if err != nil {
					return err
				}
				if projOpts.RootID != "" {
					if _, ok := result.Graph.Node(projOpts.RootID); !ok {
						return fmt.Errorf("%w: %s", entities.ErrNodeNotFound, projOpts.RootID)
					}
				}
				for _, row := range projection.FromDemandLines(result.Graph, result.DemandLines, projOpts.RootID) {
					if row.Matches(projOpts.Search) {
						rows = append(rows, row)
					}
				}
			} else {
				catalog, release, err := opts.openCatalog(ctx)
				if err != nil {
					return err
				}
				defer release()

				snapshot, err := mrp.Snapshot(catalog)
				if err != nil {
					return err
				}
				graph, err := bomgraph.Build(snapshot.Nodes, snapshot.Edges, snapshot.Items,
					bomgraph.Options{LevelPolicy: opts.policy})
				if err != nil {
					return fmt.Errorf("invalid technical list structure: %w", err)
				}
				if rows, err = projection.Project(ctx, graph, projOpts); err != nil {
					return err
				}
			}

			return opts.write(func(w io.Writer, format output.Format) error {
				return output.WriteFlat(w, format, rows)
			})
		},
	}

	cmd.Flags().StringVar(&projOpts.RootID, "root", "", "only project the technical list with this id")
	cmd.Flags().StringVar(&projOpts.Search, "search", "", "keep rows containing this text")
	cmd.Flags().BoolVar(&projOpts.Detailed, "detailed", false, "add a row for every sub-list edge")
	cmd.Flags().BoolVar(&fromDemand, "from-demand", false, "project the exploded production orders")
	return cmd
}
