package api

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/service" // Wallet and transfer services

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Amount parsing
	"github.com/sirupsen/logrus"    // Logging library
)

// AmountRequest is the body of a self-service deposit or withdrawal.
// Amount accepts a JSON number or a decimal string.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetWalletHandler returns the caller's wallet, creating it on first access
func GetWalletHandler(wallets *service.WalletStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := wallets.Mine(c.Request.Context(), callerFrom(c))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": w})
	}
}

// DepositHandler credits the caller's wallet
func DepositHandler(engine *service.TransferEngine, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AmountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid amount")
			return
		}
		res, err := engine.Deposit(c.Request.Context(), callerFrom(c), req.Amount)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "Deposit successful",
			"balance":     res.Destination.Balance,
			"transaction": res.Transaction,
		})
	}
}

// WithdrawHandler debits the caller's wallet
func WithdrawHandler(engine *service.TransferEngine, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AmountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid amount")
			return
		}
		res, err := engine.Withdraw(c.Request.Context(), callerFrom(c), req.Amount)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "Withdrawal successful",
			"balance":     res.Source.Balance,
			"transaction": res.Transaction,
		})
	}
}

// GetTransactionHistoryHandler lists the caller's own transactions
func GetTransactionHistoryHandler(ledger *service.Ledger, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := transactionFilter(c)
		if err != nil {
			writeError(c, log, err)
			return
		}
		page, size := pageParams(c)
		result, err := ledger.History(c.Request.Context(), callerFrom(c), f, page, size)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
