package main

import (
	"context"
	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/server"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/telemetry"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; the environment is used when empty")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	ctx := context.Background()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(cfg.SlogLevel())
	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the history backend
	history, closeHistory, err := repository.OpenHistory(ctx, cfg.History)
	if err != nil {
		log.Fatalf("failed to open history: %v", err)
	}
	defer func() {
		if err := closeHistory(); err != nil {
			slog.Error("Failed to close history", "error", err)
		}
	}()

	// Create sessions
	sessions := session.NewManager(session.Options{
		Strategy:      bot.NewBotMoveCalculator(),
		History:       history,
		ComputerDelay: cfg.ComputerDelay(),
		TTL:           cfg.Session.TTL,
	})
	if err := sessions.StartSweeper(cfg.Session.SweepSpec); err != nil {
		log.Fatalf("failed to start session sweeper: %v", err)
	}
	defer sessions.Close()

	// Create services and controllers
	tokens := service.NewTokenService(cfg.Auth)
	gameController := controller.NewGameController(service.NewGameService(sessions, tokens))
	historyController := controller.NewHistoryController(service.NewHistoryService(history))

	// Create the Gin-based server
	srv := server.NewServer(sessions, tokens, gameController, historyController, cfg.AllowedOrigins)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("HTTP server started", "http.addr", cfg.HTTPAddr, "history.backend", cfg.History.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
