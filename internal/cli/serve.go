package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command that runs the web server.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the to-do web server",
		Long: `Run the to-do web server until interrupted.

Examples:
  # Serve on the configured address (default localhost:8000)
  todo serve

  # Serve on another address using the embedded store
  TODO_STORE_DRIVER=sqlite todo serve --addr :9000
`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides http.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter := &OutputFormatter{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		_ = formatter.Error("INITIALIZATION_ERROR", err.Error())
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	defer func() {
		if err := cliInstance.Close(context.WithoutCancel(ctx)); err != nil {
			cliInstance.Logger.Error("Error closing CLI", "error", err)
		}
	}()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cliInstance.Config.HTTP.Addr = addr
	}

	if err := cliInstance.App.Server().ListenAndServe(ctx); err != nil {
		_ = formatter.Error("SERVER_ERROR", err.Error())
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	return nil
}
