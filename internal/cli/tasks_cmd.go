package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/queuecast/internal/cli/formatter"
)

func newTasksCmd(app *App) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the task reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := app.Services(cmd.Context())
			if err != nil {
				return err
			}
			tasks := svcs.Predictions.Tasks()
			if tree {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTree(tasks))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTasks(tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Group tasks under their sections")
	return cmd
}
