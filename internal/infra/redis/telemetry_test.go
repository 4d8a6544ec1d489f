package redis

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestInstrumentLogsCommands(t *testing.T) {
	mr := miniredis.RunT(t)
	client := newClient(mr)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	require.NoError(t, Instrument(client, log))

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	require.Contains(t, buf.String(), "redis: command")
	require.Contains(t, buf.String(), "cmd=set")
}
