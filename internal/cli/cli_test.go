package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/todo/internal/app"
	"github.com/thenoetrevino/todo/internal/config"
	"github.com/thenoetrevino/todo/internal/docstore"
)

func TestGetCLIFromContextUsesInjectedApp(t *testing.T) {
	ctx := context.Background()
	driver, err := docstore.OpenSQLite(ctx, docstore.MemoryPath)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.HTTP.Addr = "127.0.0.1:9999"
	cfg.Metrics.Enabled = false
	application, err := app.New(ctx, cfg, app.WithDriver(driver))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close(ctx) })

	c, err := GetCLIFromContext(WithApp(ctx, application))
	require.NoError(t, err)

	assert.Same(t, application, c.App)
	assert.Same(t, cfg, c.Config)
	assert.Equal(t, "127.0.0.1:9999", c.Config.HTTP.Addr)

	// The caller owns an injected app, so Close leaves it usable.
	require.NoError(t, c.Close(ctx))
	_, err = application.TaskService.ListTasks(ctx)
	assert.NoError(t, err)
}

func TestGetCLIFromContextNilApp(t *testing.T) {
	_, err := GetCLIFromContext(WithApp(context.Background(), nil))
	assert.ErrorIs(t, err, ErrNoApp)
}
