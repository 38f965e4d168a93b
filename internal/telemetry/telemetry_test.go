package telemetry

import (
	"context"
	"ctchen222/tictactoe/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOtel_Disabled(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), config.Telemetry{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitOtel_EnabledWithoutCollector(t *testing.T) {
	// gRPC connects lazily, so setup succeeds even with nothing listening.
	shutdown, err := InitOtel(context.Background(), config.Telemetry{
		Enabled:           true,
		CollectorEndpoint: "127.0.0.1:1",
		ServiceName:       "tic-tac-toe-test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// Flushing to an unreachable collector may fail; it must not hang.
	_ = shutdown(ctx)
}
