package task

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/todo/internal/cli"
)

// RmCmd returns the task rm subcommand
func RmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE:    runRm,
	}

	addOutputFlags(cmd)

	return cmd
}

func runRm(cmd *cobra.Command, args []string) error {
	formatter := newFormatter(cmd)
	taskID := args[0]

	return withCLI(cmd, formatter, func(c *cli.CLI) error {
		if err := c.App.TaskService.DeleteTask(cmd.Context(), taskID); err != nil {
			return formatter.Fail(err)
		}

		if formatter.Quiet {
			return nil
		}

		if formatter.JSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"success": true,
				"task_id": taskID,
			})
		}

		return formatter.Message("Task %s deleted", taskID)
	})
}
