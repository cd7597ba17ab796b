package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/cli/formatter"
)

func newImportCmd(app *App) *cobra.Command {
	var tasksPath, staffingPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the task and staffing reference tables from CSV or XLSX files",
		Long: `Validates every row of the given files and, only when all rows are valid,
replaces the stored tables in one transaction. Either file may be omitted to
keep the current copy of that table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tasksPath == "" && staffingPath == "" {
				return fmt.Errorf("pass --tasks, --staffing or both")
			}
			result, err := app.References.Import(cmd.Context(), tasksPath, staffingPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatImportResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&tasksPath, "tasks", "", "Task table (task_id, task_name, section_id)")
	cmd.Flags().StringVar(&staffingPath, "staffing", "", "Staffing table (date, section_id, employees_on_duty, num_documents or total_task_time_minutes)")
	return cmd
}
