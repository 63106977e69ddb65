package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/api/routes"
	"github.com/spinforge/arcade-backend/internal/config"
	"github.com/spinforge/arcade-backend/internal/handlers"
	"github.com/spinforge/arcade-backend/internal/repositories"
	mongorepo "github.com/spinforge/arcade-backend/internal/repositories/mongodb"
	"github.com/spinforge/arcade-backend/internal/services"
	"github.com/spinforge/arcade-backend/pkg/custody"
	"github.com/spinforge/arcade-backend/pkg/drawbeacon"
	"github.com/spinforge/arcade-backend/pkg/jwt"
	"github.com/spinforge/arcade-backend/pkg/mongodb"
)

func main() {
	// A local .env is a development convenience; deployments configure the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	if cfg.JWT.Secret == "" {
		slog.Error("JWT secret is not configured")
		os.Exit(1)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	accountRepo := mongorepo.NewAccountRepository(db)
	treasuryRepo := mongorepo.NewTreasuryRepository(db)
	configRepo := mongorepo.NewGameConfigRepository(db)
	ledgerRepo := mongorepo.NewLedgerRepository(db)
	walletRepo := mongorepo.NewWalletRepository(db)
	playRepo := mongorepo.NewPlayRepository(db)
	claimRepo := mongorepo.NewClaimRepository(db)
	inventoryRepo := mongorepo.NewInventoryRepository(db)
	blacklistRepo := mongorepo.NewBlacklistRepository(db)
	settingsRepo := mongorepo.NewPlatformSettingsRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	raffleRepo := mongorepo.NewRaffleRepository(db)
	winnerRepo := mongorepo.NewRaffleWinnerRepository(db)
	archiveRepo := mongorepo.NewRaffleArchiveRepository(db)
	ticketRepo := mongorepo.NewTicketBalanceRepository(db)

	// External collaborators. The beacon client falls back to the local
	// CSPRNG when mocked; the custody gateway gets a no-op stand-in.
	draws := drawbeacon.NewClient(cfg.Beacon.BaseURL, cfg.Beacon.APIKey, cfg.Beacon.Mock)
	var gateway custody.Gateway
	if cfg.Custody.Mock {
		gateway = custody.NewMockGateway()
	} else {
		gateway = custody.NewHTTPGateway(cfg.Custody.BaseURL, cfg.Custody.APIKey)
	}
	tokens := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Services
	eventService := services.NewEventService(eventRepo)
	treasuryService := services.NewTreasuryService(treasuryRepo, eventService)
	configService := services.NewGameConfigService(configRepo)
	gameService := services.NewGameService(configRepo, ledgerRepo, walletRepo, playRepo,
		inventoryRepo, blacklistRepo, settingsRepo, treasuryService, eventService, draws)
	raffleService := services.NewRaffleService(raffleRepo, winnerRepo, archiveRepo, ticketRepo,
		walletRepo, inventoryRepo, blacklistRepo, settingsRepo, treasuryService, gateway, eventService, draws)
	ledgerService := services.NewLedgerService(ledgerRepo, walletRepo, claimRepo, inventoryRepo,
		treasuryService, raffleService, gateway, eventService)
	settingsService := services.NewSettingsService(settingsRepo, blacklistRepo, eventService)
	inventoryService := services.NewInventoryService(inventoryRepo)
	authService := services.NewAuthService(accountRepo, tokens)

	if cfg.Games.SeedDefaults {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := configService.SeedDefaults(ctx, cfg.Games.BaseAssetKind)
		cancel()
		if err != nil {
			slog.Error("Failed to seed default game configs", "error", err)
			os.Exit(1)
		}
	}

	deps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		AccountHandler:    handlers.NewAccountHandler(authService),
		GameHandler:       handlers.NewGameHandler(gameService),
		GameConfigHandler: handlers.NewGameConfigHandler(configService),
		LedgerHandler:     handlers.NewLedgerHandler(ledgerService),
		RaffleHandler:     handlers.NewRaffleHandler(raffleService),
		TreasuryHandler:   handlers.NewTreasuryHandler(treasuryService),
		InventoryHandler:  handlers.NewInventoryHandler(inventoryService),
		SettingsHandler:   handlers.NewSettingsHandler(settingsService),
		EventHandler:      handlers.NewEventHandler(eventService),
		Tokens:            tokens,
	}
	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shut down", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited")
}

// setupLogger installs the process-wide structured logger
func setupLogger(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})))
}
