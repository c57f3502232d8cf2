package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/todo/internal/cli"
	"github.com/thenoetrevino/todo/internal/cli/task"
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "todo - a minimal to-do list",
	Long: `todo keeps a list of one-line tasks in a document store and serves
them as a small web application. The same tasks can be managed from the
command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(task.TaskCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
