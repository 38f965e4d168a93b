package engine

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("engine")

type instruments struct {
	gamesStarted   metric.Int64Counter
	gamesCompleted metric.Int64Counter
	movesApplied   metric.Int64Counter
	recordFailures metric.Int64Counter
}

func newInstruments() *instruments {
	inst := &instruments{}
	var err error

	if inst.gamesStarted, err = meter.Int64Counter("games.started",
		metric.WithDescription("Games started by NewGame")); err != nil {
		slog.Warn("failed to create games.started counter", "error", err)
	}
	if inst.gamesCompleted, err = meter.Int64Counter("games.completed",
		metric.WithDescription("Games that reached a win or a draw")); err != nil {
		slog.Warn("failed to create games.completed counter", "error", err)
	}
	if inst.movesApplied, err = meter.Int64Counter("moves.applied",
		metric.WithDescription("Accepted moves by player kind")); err != nil {
		slog.Warn("failed to create moves.applied counter", "error", err)
	}
	if inst.recordFailures, err = meter.Int64Counter("history.record_failures",
		metric.WithDescription("Completed games the history store failed to record")); err != nil {
		slog.Warn("failed to create history.record_failures counter", "error", err)
	}
	return inst
}

func (i *instruments) started(ctx context.Context, p1, p2 game.Player) {
	if i.gamesStarted == nil {
		return
	}
	i.gamesStarted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("player1.kind", string(p1.Kind)),
		attribute.String("player2.kind", string(p2.Kind)),
	))
}

func (i *instruments) moved(ctx context.Context, kind game.PlayerKind) {
	if i.movesApplied == nil {
		return
	}
	i.movesApplied.Add(ctx, 1, metric.WithAttributes(attribute.String("player.kind", string(kind))))
}

func (i *instruments) completed(ctx context.Context, outcome Outcome) {
	if i.gamesCompleted == nil {
		return
	}
	i.gamesCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("game.outcome", string(outcome))))
}

func (i *instruments) recordFailed(ctx context.Context) {
	if i.recordFailures == nil {
		return
	}
	i.recordFailures.Add(ctx, 1)
}
