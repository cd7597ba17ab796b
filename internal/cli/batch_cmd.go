package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/cli/formatter"
	"github.com/alexanderramin/queuecast/internal/domain"
)

func newBatchCmd(app *App) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:       "batch <completion|staffing>",
		Short:     "Score an input table and write row_id plus the prediction",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.BatchCompletion), string(domain.BatchStaffing)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.BatchKind(args[0])
			if kind != domain.BatchCompletion && kind != domain.BatchStaffing {
				return fmt.Errorf("unknown batch kind %q (expected completion or staffing)", args[0])
			}
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "scoring "+in)
			}
			run, err := svcs.Batches.Run(cmd.Context(), kind, in, out)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBatchRun(run))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Input CSV or XLSX with a row_id column")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV or XLSX")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newRunsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			runs, err := svcs.Batches.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBatchRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	return cmd
}
