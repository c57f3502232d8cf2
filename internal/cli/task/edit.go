package task

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/todo/internal/cli"
)

// EditCmd returns the task edit subcommand
func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id> <text>...",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runEdit,
	}

	addOutputFlags(cmd)

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	formatter := newFormatter(cmd)
	taskID := args[0]
	content := strings.Join(args[1:], " ")

	return withCLI(cmd, formatter, func(c *cli.CLI) error {
		if err := c.App.TaskService.UpdateTask(cmd.Context(), taskID, content); err != nil {
			return formatter.Fail(err)
		}

		if formatter.Quiet {
			fmt.Fprintln(cmd.OutOrStdout(), taskID)
			return nil
		}

		if formatter.JSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"success": true,
				"task_id": taskID,
				"task":    content,
			})
		}

		return formatter.Message("Task %s updated", taskID)
	})
}
