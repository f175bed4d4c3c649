package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/bommrp/pkg/application/dto"
	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/infrastructure/config"
	"github.com/vsinha/bommrp/pkg/interfaces/cli/output"
)

func newPlanCommand(opts *Options) *cobra.Command {
	var (
		all         bool
		kind        string
		includeIdle bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run MRP and list purchase requirements",
		Long: `Explodes every production order, nets the demand against stock and
lists the items whose stock does not cover it, with the date they must be
bought by. Orders that cannot be exploded are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportOpts := dto.RequirementReportOptions{IncludeCovered: all}
			if !cmd.Flags().Changed("all") {
				reportOpts.IncludeCovered = config.C().Planner.IncludeCovered()
			}
			if !cmd.Flags().Changed("include-idle") {
				includeIdle = config.C().Planner.IncludeIdle()
			}
			if strings.TrimSpace(kind) != "" {
				k, err := entities.ParseItemKind(kind)
				if err != nil {
					return err
				}
				reportOpts.Kind = &k
			}

			result, err := opts.runPlan(cmd.Context(), includeIdle)
			if err != nil {
				return err
			}

			rows := dto.BuildRequirementReport(result, reportOpts)
			return opts.write(func(w io.Writer, format output.Format) error {
				return output.WriteRequirements(w, format, result, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also list items whose stock covers the requirement")
	cmd.Flags().StringVar(&kind, "kind", "", "only list one item kind: component or raw_material")
	cmd.Flags().BoolVar(&includeIdle, "include-idle", false, "with --all, also list items no order needs")
	return cmd
}
