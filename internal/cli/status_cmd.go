package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/cli/formatter"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which strategies the engine runs and what data it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEngineStatus(svcs.Predictions.Status()))
			return nil
		},
	}
}
