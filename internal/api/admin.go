package api

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/domain"  // Domain types
	"wallet_ledger/internal/service" // Moderation layer

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// BlockWalletRequest toggles a wallet's blocked flag
type BlockWalletRequest struct {
	Block *bool `json:"block" binding:"required"`
}

// AgentApprovalRequest approves or suspends an agent
type AgentApprovalRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// StatsHandler returns the admin summary
func StatsHandler(mod *service.Moderation, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := mod.Stats(c.Request.Context(), callerFrom(c))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ListAccountsHandler pages accounts with optional role, approved and search filters
func ListAccountsHandler(mod *service.Moderation, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		approved, err := optionalBool(c, "approved")
		if err != nil {
			writeError(c, log, err)
			return
		}
		var role domain.Role
		if raw := c.Query("role"); raw != "" {
			if role, err = domain.ParseRole(raw); err != nil {
				writeError(c, log, err)
				return
			}
		}
		page, size := pageParams(c)
		result, err := mod.ListAccounts(c.Request.Context(), callerFrom(c), service.AccountFilter{
			Role:     role,
			Approved: approved,
			Search:   c.Query("search"),
		}, page, size)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ListWalletsHandler pages wallets with an optional blocked filter
func ListWalletsHandler(mod *service.Moderation, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		blocked, err := optionalBool(c, "blocked")
		if err != nil {
			writeError(c, log, err)
			return
		}
		page, size := pageParams(c)
		result, err := mod.ListWallets(c.Request.Context(), callerFrom(c), blocked, page, size)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ListTransactionsHandler pages the full ledger, filterable by account, type, status, date and amount
func ListTransactionsHandler(mod *service.Moderation, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := adminTransactionFilter(c)
		if err != nil {
			writeError(c, log, err)
			return
		}
		page, size := pageParams(c)
		result, err := mod.ListTransactions(c.Request.Context(), callerFrom(c), f, page, size)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// BlockWalletHandler blocks or unblocks a wallet
func BlockWalletHandler(mod *service.Moderation, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID, err := pathID(c, "walletId")
		if err != nil {
			writeError(c, log, err)
			return
		}
		var req BlockWalletRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		w, err := mod.SetWalletBlocked(c.Request.Context(), callerFrom(c), walletID, *req.Block)
		if err != nil {
			writeError(c, log, err)
			return
		}
		msg := "Wallet unblocked successfully"
		if w.Blocked {
			msg = "Wallet blocked successfully"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "wallet": w})
	}
}

// AgentApprovalHandler approves or suspends an agent
func AgentApprovalHandler(mod *service.Moderation, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := pathID(c, "accountId")
		if err != nil {
			writeError(c, log, err)
			return
		}
		var req AgentApprovalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		acc, err := mod.SetAgentApproval(c.Request.Context(), callerFrom(c), accountID, *req.Approve)
		if err != nil {
			writeError(c, log, err)
			return
		}
		msg := "Agent has been suspended"
		if acc.Approved {
			msg = "Agent has been approved"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "account": acc.Public()})
	}
}
