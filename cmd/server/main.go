package main

import (
	"log/slog"
	"os"

	"github.com/ducdang/billbook/internal/auth"
	"github.com/ducdang/billbook/internal/config"
	"github.com/ducdang/billbook/internal/handlers"
	"github.com/ducdang/billbook/internal/service"
	"github.com/ducdang/billbook/internal/storage/sqlite"
	"github.com/ducdang/billbook/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := handlers.NewRouter(handlers.Services{
		Auth:         service.NewAuthService(authenticator, store, jwtManager),
		Bills:        service.NewBillService(store),
		Participants: service.NewParticipantService(store),
		Notes:        service.NewNoteService(store),
		Vocabulary:   service.NewVocabularyService(store),
		JWT:          jwtManager,
	}, cfg.FrontendURL)

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr, "frontend", cfg.FrontendURL)
	if err := router.Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
