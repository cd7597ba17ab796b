package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/cli/formatter"
	"github.com/alexanderramin/queuecast/internal/domain"
)

var errNotInteractive = errors.New("--interactive needs a terminal on stdin")

func newPredictCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict one appointment duration or one section headcount",
	}
	cmd.AddCommand(newPredictCompletionCmd(app), newPredictStaffingCmd(app))
	return cmd
}

func newPredictCompletionCmd(app *App) *cobra.Command {
	var (
		req         domain.CompletionRequest
		debug       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Estimate how many minutes an appointment takes",
		Example: `  queuecast predict completion --date 2025-08-29 --time 10:30 --task PASSPORT_RENEWAL
  queuecast predict completion -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			if interactive {
				if !app.interactive() {
					return errNotInteractive
				}
				if err := completionForm(&req, svcs.Predictions.Tasks()).Run(); err != nil {
					return err
				}
			}
			res, err := svcs.Predictions.PredictCompletion(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCompletion(req, res, debug))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Date, "date", "", "Appointment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Time, "time", "", "Appointment time (HH:MM)")
	cmd.Flags().StringVar(&req.TaskID, "task", "", "Task code or name")
	cmd.Flags().BoolVar(&debug, "debug", false, "Show the intermediate values behind the estimate")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the request in a form")
	return cmd
}

func newPredictStaffingCmd(app *App) *cobra.Command {
	var (
		req         domain.StaffingRequest
		debug       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:     "staffing",
		Short:   "Estimate how many employees a section needs on a day",
		Example: `  queuecast predict staffing --date 2025-09-05 --section SEC-IMM`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			if interactive {
				if !app.interactive() {
					return errNotInteractive
				}
				if err := staffingForm(&req, svcs.Predictions.Status().Sections).Run(); err != nil {
					return err
				}
			}
			res, err := svcs.Predictions.PredictStaffing(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStaffing(req, res, debug))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.SectionID, "section", "", "Section code")
	cmd.Flags().BoolVar(&debug, "debug", false, "Show the intermediate values behind the estimate")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the request in a form")
	return cmd
}
