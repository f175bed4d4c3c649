package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vsinha/bommrp/pkg/application/dto"
	"github.com/vsinha/bommrp/pkg/interfaces/cli/output"
)

func newDetailCommand(opts *Options) *cobra.Command {
	var orderFilter string

	cmd := &cobra.Command{
		Use:   "detail",
		Short: "Break each item's requirement down by production order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := opts.runPlan(cmd.Context(), false)
			if err != nil {
				return err
			}

			rows := dto.BuildDetailReport(result, dto.DetailReportOptions{OrderFilter: orderFilter})
			return opts.write(func(w io.Writer, format output.Format) error {
				return output.WriteDetail(w, format, rows)
			})
		},
	}

	cmd.Flags().StringVar(&orderFilter, "order", "", "only orders whose id or label contains this text")
	return cmd
}
