package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/spinforge/arcade-backend/internal/config"
	"github.com/spinforge/arcade-backend/internal/handlers"
	"github.com/spinforge/arcade-backend/internal/metrics"
	"github.com/spinforge/arcade-backend/internal/middleware"
	"github.com/spinforge/arcade-backend/pkg/jwt"
)

// HandlerDependencies carries the constructed handlers into the router
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	AccountHandler    *handlers.AccountHandler
	GameHandler       *handlers.GameHandler
	GameConfigHandler *handlers.GameConfigHandler
	LedgerHandler     *handlers.LedgerHandler
	RaffleHandler     *handlers.RaffleHandler
	TreasuryHandler   *handlers.TreasuryHandler
	InventoryHandler  *handlers.InventoryHandler
	SettingsHandler   *handlers.SettingsHandler
	EventHandler      *handlers.EventHandler
	Tokens            *jwt.TokenManager
}

// SetupRouter builds the gin engine: public auth and health endpoints,
// the player surface behind JWT auth, and the admin surface behind the
// role gate.
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
	}

	// Health and metrics
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Player routes
	player := router.Group("/api/v1")
	player.Use(middleware.JWTAuth(deps.Tokens))
	{
		player.GET("/me", deps.AuthHandler.Me)

		games := player.Group("/games")
		{
			games.POST("/:game/play", deps.GameHandler.Play)
			games.POST("/:game/play-multiple", deps.GameHandler.PlayMultiple)
		}

		ledger := player.Group("/ledger")
		{
			ledger.GET("", deps.LedgerHandler.Ledger)
			ledger.POST("/claim", deps.LedgerHandler.Claim)
			ledger.GET("/claims", deps.LedgerHandler.Receipts)
		}
		player.GET("/wallet", deps.LedgerHandler.Wallet)
		player.GET("/tickets", deps.RaffleHandler.TicketBalance)
		player.GET("/plays", deps.GameHandler.History)

		raffles := player.Group("/raffles")
		{
			raffles.GET("", deps.RaffleHandler.List)
			raffles.GET("/:id", deps.RaffleHandler.Get)
			raffles.POST("/:id/enter", deps.RaffleHandler.Enter)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuth(deps.Tokens))
	admin.Use(middleware.RequireAdmin())
	{
		treasury := admin.Group("/treasury")
		{
			treasury.GET("", deps.TreasuryHandler.Status)
			treasury.GET("/:kind", deps.TreasuryHandler.Pool)
			treasury.POST("/deposit", deps.TreasuryHandler.Deposit)
			treasury.POST("/extract", deps.TreasuryHandler.Extract)
			treasury.POST("/toggle/:kind", deps.TreasuryHandler.Toggle)
		}

		configs := admin.Group("/games/configs")
		{
			configs.GET("", deps.GameConfigHandler.List)
			configs.PUT("", deps.GameConfigHandler.Upsert)
			configs.GET("/:game/:kind", deps.GameConfigHandler.Get)
			configs.POST("/:game/:kind/set-active", deps.GameConfigHandler.SetActive)
			configs.DELETE("/:game/:kind", deps.GameConfigHandler.Delete)
		}

		raffles := admin.Group("/raffles")
		{
			raffles.POST("", deps.RaffleHandler.Create)
			raffles.POST("/:id/set-active", deps.RaffleHandler.SetActive)
			raffles.POST("/:id/pick-winners", deps.RaffleHandler.PickWinners)
			raffles.GET("/:id/winners", deps.RaffleHandler.Winners)
		}
		admin.GET("/archives", deps.RaffleHandler.Archives)

		inventory := admin.Group("/inventory")
		{
			inventory.GET("", deps.InventoryHandler.List)
			inventory.POST("", deps.InventoryHandler.Add)
			inventory.GET("/available", deps.InventoryHandler.CountAvailable)
		}

		admin.GET("/settings", deps.SettingsHandler.Get)
		admin.PUT("/settings", deps.SettingsHandler.Update)

		blacklist := admin.Group("/blacklist")
		{
			blacklist.GET("", deps.SettingsHandler.ListBlacklist)
			blacklist.POST("", deps.SettingsHandler.Blacklist)
			blacklist.DELETE("/:id", deps.SettingsHandler.Unblacklist)
		}

		accounts := admin.Group("/accounts")
		{
			accounts.GET("", deps.AccountHandler.List)
			accounts.GET("/:id", deps.AccountHandler.Get)
			accounts.GET("/:id/ledger", deps.LedgerHandler.AccountLedger)
			accounts.GET("/:id/events", deps.EventHandler.ListByAccount)
		}

		admin.GET("/plays", deps.GameHandler.AllHistory)
		admin.GET("/events", deps.EventHandler.List)
		admin.POST("/vouchers", deps.LedgerHandler.GrantVoucher)
		admin.POST("/wallets/deposit", deps.LedgerHandler.DepositToWallet)
		admin.POST("/tickets", deps.RaffleHandler.IssueTickets)
	}

	return router
}
