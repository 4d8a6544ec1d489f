package redis

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// Instrument enables OpenTelemetry tracing and metrics on the client and logs every
// command at debug level.
func Instrument(client redis.UniversalClient, log *slog.Logger) error {
	if err := redisotel.InstrumentTracing(client); err != nil {
		return fmt.Errorf("instrument tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		return fmt.Errorf("instrument metrics: %w", err)
	}
	client.AddHook(logHook{log: log})
	return nil
}

type logHook struct {
	log *slog.Logger
}

func (h logHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.log.WarnContext(ctx, "redis: dial failed", "addr", addr, "err", err)
		} else {
			h.log.DebugContext(ctx, "redis: dialed", "addr", addr)
		}
		return conn, err
	}
}

func (h logHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		h.log.DebugContext(ctx, "redis: command", "cmd", cmd.Name(), "err", err)
		return err
	}
}

func (h logHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		h.log.DebugContext(ctx, "redis: pipeline", "commands", len(cmds), "err", err)
		return err
	}
}
