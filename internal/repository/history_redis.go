package repository

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	historyRecordsKey = "history:records"
	historyStatsKey   = "history:stats"

	fieldTotalGames = "total_games"
	fieldTotalDraws = "total_draws"
)

type redisHistoryRepository struct {
	rdb   *redis.Client
	limit int
}

// NewRedisHistoryRepository creates a Redis-based HistoryRepository. Records
// live in a capped list and the counters in a hash.
func NewRedisHistoryRepository(rdb *redis.Client, limit int) HistoryRepository {
	return &redisHistoryRepository{rdb: rdb, limit: normalizeLimit(limit)}
}

// Record pushes rec onto the list, trims it and bumps the counters inside a
// single MULTI/EXEC.
func (r *redisHistoryRepository) Record(ctx context.Context, rec game.GameRecord) error {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Record", trace.WithAttributes(
		attribute.String("history.backend", "redis"),
		attribute.Bool("game.draw", rec.IsDraw()),
	))
	defer span.End()

	recJSON, err := json.Marshal(rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal game record")
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, historyRecordsKey, recJSON)
	pipe.LTrim(ctx, historyRecordsKey, 0, int64(r.limit-1))
	pipe.HIncrBy(ctx, historyStatsKey, fieldTotalGames, 1)
	if rec.IsDraw() {
		pipe.HIncrBy(ctx, historyStatsKey, fieldTotalDraws, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record game in redis")
		return fmt.Errorf("failed to record game in redis: %w", err)
	}
	return nil
}

// Load reads the list and the counters in one round trip.
func (r *redisHistoryRepository) Load(ctx context.Context) (game.History, error) {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Load", trace.WithAttributes(
		attribute.String("history.backend", "redis"),
	))
	defer span.End()

	pipe := r.rdb.Pipeline()
	listCmd := pipe.LRange(ctx, historyRecordsKey, 0, int64(r.limit-1))
	statsCmd := pipe.HGetAll(ctx, historyStatsKey)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load history from redis")
		return game.History{}, fmt.Errorf("failed to load history from redis: %w", err)
	}

	raw := listCmd.Val()
	records := make([]game.GameRecord, 0, len(raw))
	for _, item := range raw {
		var rec game.GameRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			span.RecordError(err)
			return game.History{}, fmt.Errorf("failed to unmarshal game record: %w", err)
		}
		records = append(records, rec)
	}

	stats, err := parseStats(statsCmd.Val())
	if err != nil {
		span.RecordError(err)
		return game.History{}, err
	}
	return game.History{Records: records, Stats: stats}, nil
}

func parseStats(data map[string]string) (game.Stats, error) {
	var stats game.Stats
	var err error
	if v, ok := data[fieldTotalGames]; ok {
		if stats.TotalGames, err = strconv.ParseInt(v, 10, 64); err != nil {
			return game.Stats{}, fmt.Errorf("failed to parse %s: %w", fieldTotalGames, err)
		}
	}
	if v, ok := data[fieldTotalDraws]; ok {
		if stats.TotalDraws, err = strconv.ParseInt(v, 10, 64); err != nil {
			return game.Stats{}, fmt.Errorf("failed to parse %s: %w", fieldTotalDraws, err)
		}
	}
	return stats, nil
}
