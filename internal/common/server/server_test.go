package server

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig("9090")
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, constants.ServerReadHeaderTimeout, cfg.ReadHeaderTimeout)

	srv := NewServer(cfg, http.NotFoundHandler())
	assert.Equal(t, cfg.Addr, srv.Addr)
	assert.Equal(t, cfg.IdleTimeout, srv.IdleTimeout)

	assert.Equal(t, ":"+constants.DefaultHTTPPort, DefaultServerConfig("").Addr)
}

func TestShutdown_RunsHooksInOrder(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")
	srv := NewServer(DefaultServerConfig("0"), http.NotFoundHandler())

	var order []int
	Shutdown(srv, log, "test",
		func(ctx context.Context) error { order = append(order, 1); return nil },
		func(ctx context.Context) error { order = append(order, 2); return assert.AnError },
		func(ctx context.Context) error { order = append(order, 3); return nil },
	)

	assert.Equal(t, []int{1, 2, 3}, order)
}
