package api

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/domain"     // Permissions
	"wallet_ledger/internal/middleware" // Auth and logging middleware
	"wallet_ledger/internal/service"    // Services

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// NewRouter wires every route. Route-level role checks come from the
// shared permission table; services re-check with the stored approval flag.
func NewRouter(svc *service.Services, jwtSecret string, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Auth routes
	auth := r.Group("/auth")
	auth.POST("/register", RegisterHandler(svc.Auth, log))
	auth.POST("/login", LoginHandler(svc.Auth, log))

	authed := r.Group("")
	authed.Use(middleware.JWTAuthMiddleware(jwtSecret))
	need := middleware.RequirePermission

	// Profile routes
	profile := authed.Group("/profile")
	profile.GET("/me", MeHandler(svc.Profile, log))
	profile.PATCH("/me", UpdateProfileHandler(svc.Profile, log))
	profile.PATCH("/me/password", ChangePasswordHandler(svc.Profile, log))
	profile.GET("/lookup", need(domain.PermLookup), LookupHandler(svc.Profile, log))

	// Wallet routes
	wallet := authed.Group("/wallet")
	wallet.GET("", need(domain.PermReadWallet), GetWalletHandler(svc.Wallets, log))
	wallet.POST("/deposit", need(domain.PermSelfDeposit), DepositHandler(svc.Transfers, log))
	wallet.POST("/withdraw", need(domain.PermSelfWithdraw), WithdrawHandler(svc.Transfers, log))
	wallet.GET("/transactions", need(domain.PermReadOwnTransactions), GetTransactionHistoryHandler(svc.Ledger, log))

	// Transfer routes
	tx := authed.Group("/transactions")
	tx.POST("/send", need(domain.PermPeerTransfer), TransferHandler(svc.Transfers, log))
	tx.POST("/cash-in", need(domain.PermCashIn), CashInHandler(svc.Transfers, log))
	tx.POST("/cash-out", need(domain.PermCashOut), CashOutHandler(svc.Transfers, log))

	// Admin routes
	admin := authed.Group("/admin")
	admin.GET("/stats", need(domain.PermReadAll), StatsHandler(svc.Moderation, log))
	admin.GET("/accounts", need(domain.PermReadAll), ListAccountsHandler(svc.Moderation, log))
	admin.GET("/wallets", need(domain.PermReadAll), ListWalletsHandler(svc.Moderation, log))
	admin.GET("/transactions", need(domain.PermReadAll), ListTransactionsHandler(svc.Moderation, log))
	admin.PATCH("/wallets/:walletId/block", need(domain.PermModerate), BlockWalletHandler(svc.Moderation, log))
	admin.PATCH("/agents/:accountId/approval", need(domain.PermModerate), AgentApprovalHandler(svc.Moderation, log))

	return r
}
