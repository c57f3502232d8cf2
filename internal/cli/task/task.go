package task

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/todo/internal/cli"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(AddCmd())
	cmd.AddCommand(EditCmd())
	cmd.AddCommand(RmCmd())

	return cmd
}

// addOutputFlags registers the agent-friendly flags every subcommand carries.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

func newFormatter(cmd *cobra.Command) *cli.OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &cli.OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// withCLI runs fn against the CLI for cmd's context and closes it afterwards.
func withCLI(cmd *cobra.Command, formatter *cli.OutputFormatter, fn func(*cli.CLI) error) error {
	ctx := cmd.Context()

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		_ = formatter.Error("INITIALIZATION_ERROR", err.Error())
		return &cli.ExitCodeError{Code: cli.ExitError, Err: err}
	}
	defer func() {
		if err := cliInstance.Close(ctx); err != nil {
			cliInstance.Logger.Error("Error closing CLI", "error", err)
		}
	}()

	return fn(cliInstance)
}
