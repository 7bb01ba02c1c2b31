package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TransferSvc    ports.TransferService
	WalletSvc      ports.WalletService
	ReconcileSvc   ports.ReconcileService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	walletHandler := NewWalletHandler(deps.TransferSvc, deps.WalletSvc, deps.ReconcileSvc)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	// API v1 routes, all behind the identity collaborator's bearer token.
	v1 := r.Group("/api/v1", jwtAuth)
	{
		v1.POST("/deposit", walletHandler.Deposit)
		v1.POST("/transfer", walletHandler.Transfer)
	}

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", walletHandler.CreateWallet)
		wallets.GET("/:id/balance", walletHandler.GetBalance)
		wallets.GET("/:id/transactions", walletHandler.ListTransactions)
		wallets.POST("/:id/reconcile", walletHandler.Reconcile)
	}

	return r
}
