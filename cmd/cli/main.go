package main

import (
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/terminal"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; the environment is used when empty")
	difficulty := flag.String("difficulty", bot.DifficultyStandard, "computer difficulty: easy, medium or standard")
	think := flag.Duration("think", time.Second, "pause before each computer move")
	flag.Parse()
	if !bot.ValidDifficulty(*difficulty) {
		log.Fatalf("invalid difficulty %q: want %s, %s or %s", *difficulty,
			bot.DifficultyEasy, bot.DifficultyMedium, bot.DifficultyStandard)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The terminal belongs to the game; only warnings go to stderr.
	slog.SetDefault(logger.New(os.Stderr, slog.LevelWarn))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history, closeHistory, err := repository.OpenHistory(ctx, cfg.History)
	if err != nil {
		log.Fatalf("failed to open history: %v", err)
	}
	defer func() {
		if err := closeHistory(); err != nil {
			slog.Warn("Failed to close history", "error", err)
		}
	}()

	client := terminal.New(os.Stdin, os.Stdout, terminal.Options{
		Strategy:   bot.NewBotMoveCalculator(),
		History:    history,
		Difficulty: *difficulty,
		ThinkDelay: *think,
	})
	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Terminal session failed", "error", err)
		os.Exit(1)
	}
}
