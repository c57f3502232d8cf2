package task

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/todo/internal/cli"
	"github.com/thenoetrevino/todo/internal/cli/styles"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "List all tasks in insertion order.",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	addOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	formatter := newFormatter(cmd)

	return withCLI(cmd, formatter, func(c *cli.CLI) error {
		tasks, err := c.App.TaskService.ListTasks(cmd.Context())
		if err != nil {
			return formatter.Fail(err)
		}

		out := cmd.OutOrStdout()

		if formatter.Quiet {
			// Just print IDs
			for _, t := range tasks {
				fmt.Fprintln(out, t.IDHex())
			}
			return nil
		}

		if formatter.JSON {
			return json.NewEncoder(out).Encode(map[string]any{
				"success": true,
				"tasks":   tasks,
			})
		}

		// Human-readable output
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found")
			return nil
		}

		fmt.Fprintln(out, styles.TitleStyle.Render(fmt.Sprintf("Found %d tasks:", len(tasks))))
		fmt.Fprintln(out)
		for _, t := range tasks {
			fmt.Fprintln(out, styles.RenderTaskLine(t.IDHex(), t.Task, t.CreatedAt.Format("2006-01-02")))
		}
		return nil
	})
}
