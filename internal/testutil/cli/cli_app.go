// Package cli holds helpers for command tests. It lives apart from testutil
// so service tests can import testutil without pulling in the app container.
package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/todo/internal/app"
	clipkg "github.com/thenoetrevino/todo/internal/cli"
	"github.com/thenoetrevino/todo/internal/config"
	"github.com/thenoetrevino/todo/internal/docstore"
)

// SetupCLITest creates an App over an in-memory embedded store.
func SetupCLITest(t *testing.T) *app.App {
	t.Helper()
	ctx := context.Background()

	driver, err := docstore.OpenSQLite(ctx, docstore.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	cfg := config.Default()
	cfg.Metrics.Enabled = false
	appInstance, err := app.New(ctx, cfg, app.WithDriver(driver))
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	t.Cleanup(func() { _ = appInstance.Close(ctx) })
	return appInstance
}

// ExecuteCLICommand runs cmd with args against testApp and returns what it
// wrote to stdout and stderr.
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, string, error) {
	t.Helper()
	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(clipkg.WithApp(context.Background(), testApp))
	return stdout.String(), stderr.String(), err
}
