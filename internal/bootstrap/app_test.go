package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/infra/config"
	"github.com/yanqian/farmwise/internal/infra/mlmodel"
)

func testForest(t *testing.T) *mlmodel.Forest {
	t.Helper()
	forest, err := mlmodel.NewForest(mlmodel.Artifact{
		Version:  "test",
		Kind:     "regressor",
		Features: []string{"a"},
		Trees:    []mlmodel.Tree{{Nodes: []mlmodel.Node{{Feature: -1, Value: []float64{1}}}}},
	}, []string{"a"})
	require.NoError(t, err)
	return forest
}

func TestRunStopsOnContextCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	cfg := &config.Config{HTTP: config.HTTPConfig{Address: addr}}
	server := &http.Server{Addr: addr, Handler: http.NotFoundHandler()}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, testForest(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
