package task

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/todo/internal/cli"
)

// AddCmd returns the task add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Long: `Add a task. All arguments are joined with spaces.

Examples:
  todo task add buy milk

  # Quiet mode for bash capture
  TASK_ID=$(todo task add "walk the dog" --quiet)
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAdd,
	}

	addOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	formatter := newFormatter(cmd)
	content := strings.Join(args, " ")

	return withCLI(cmd, formatter, func(c *cli.CLI) error {
		task, err := c.App.TaskService.CreateTask(cmd.Context(), content)
		if err != nil {
			return formatter.Fail(err)
		}

		if formatter.Quiet {
			return formatter.Success(task)
		}

		if formatter.JSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"success": true,
				"task":    task,
			})
		}

		return formatter.Message("Task '%s' created (ID: %s)", task.Task, task.IDHex())
	})
}
