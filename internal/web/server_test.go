package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/todo/internal/config"
	taskservice "github.com/thenoetrevino/todo/internal/services/task"
	"github.com/thenoetrevino/todo/internal/testutil"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	svc := taskservice.NewService(testutil.NewStore(t))
	srv := NewServer(config.HTTPConfig{ShutdownTimeout: time.Second}, svc, WithLogger(discardLogger()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	srv := NewServer(config.HTTPConfig{Addr: "256.0.0.1:bad"}, stubService{}, WithLogger(discardLogger()))
	err := srv.ListenAndServe(context.Background())
	assert.Error(t, err)
}
