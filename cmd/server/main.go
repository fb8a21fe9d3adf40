package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"flashdeck/internal/application/usecases"
	"flashdeck/internal/config"
	"flashdeck/internal/infrastructure/filesystem"
	"flashdeck/internal/infrastructure/persistence"
	"flashdeck/internal/infrastructure/telegram"
	api "flashdeck/internal/interfaces/http"
	"flashdeck/internal/logger"
)

func main() {
	options := config.Parse()

	zapLogger, err := logger.New(options.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Initialize storage
	store, err := persistence.Open(options.Engine, options.StoragePath)
	if err != nil {
		zapLogger.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize use cases
	deck := usecases.NewDeckUseCase(store, zapLogger)
	if err := deck.Initialize(ctx); err != nil {
		// Degrade to an empty in-memory deck rather than crashing; the
		// first successful write re-establishes the persisted state.
		zapLogger.Error("failed to load persisted deck, starting empty", zap.Error(err))
	}
	study := usecases.NewStudyUseCase(deck, zapLogger)

	seedDeck(ctx, deck, options.SeedFile, zapLogger)

	// Start reminder service when Telegram is configured
	if options.TelegramToken != "" && options.TelegramChatID != 0 {
		notifier, err := telegram.NewNotifier(options.TelegramToken, zapLogger)
		if err != nil {
			zapLogger.Error("failed to create telegram notifier", zap.Error(err))
		} else {
			reminder := usecases.NewReminderUseCase(
				deck, notifier, usecases.DefaultReminderConfig(options.TelegramChatID), zapLogger)
			go reminder.Start(ctx)
		}
	}

	router := api.NewRouter(
		&api.DeckHandler{Deck: deck, Log: zapLogger},
		&api.StudyHandler{Study: study, Log: zapLogger},
		&api.TransferHandler{Deck: deck, Log: zapLogger},
		zapLogger,
	)

	server := &nethttp.Server{Addr: options.Addr, Handler: router}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		zapLogger.Info("shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	zapLogger.Info("server starting", zap.String("addr", options.Addr), zap.String("engine", options.Engine))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server error", zap.Error(err))
	}
}

// seedDeck imports a starter deck into an empty store.
func seedDeck(ctx context.Context, deck *usecases.DeckUseCase, seedFile string, zapLogger *zap.Logger) {
	if seedFile == "" || len(deck.SearchCards("")) > 0 {
		return
	}

	drafts, err := filesystem.NewDeckLoader().LoadFromFile(seedFile)
	if err != nil {
		zapLogger.Warn("failed to load seed deck", zap.Error(err))
		return
	}
	created := 0
	for _, draft := range drafts {
		if _, err := deck.CreateCard(ctx, draft, false); err == nil {
			created++
		}
	}
	zapLogger.Info("seed deck imported", zap.Int("created", created))
}
