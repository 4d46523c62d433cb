package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Id formatting

	"wallet_ledger/internal/service" // Transfer engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Amount parsing
	"github.com/sirupsen/logrus"    // Logging library
)

// TransferRequest is a peer transfer. Recipient may be an id, handle,
// @handle, email or phone number.
type TransferRequest struct {
	Recipient string          `json:"recipient" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// CashRequest names the user an agent serves, by reference or by the
// user_id / username fields older clients send.
type CashRequest struct {
	Target   string          `json:"target"`
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r CashRequest) reference() string {
	switch {
	case r.Target != "":
		return r.Target
	case r.UserID != 0:
		return strconv.FormatUint(uint64(r.UserID), 10)
	default:
		return r.Username
	}
}

// TransferHandler moves funds between two standard users
func TransferHandler(engine *service.TransferEngine, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		res, err := engine.PeerTransfer(c.Request.Context(), callerFrom(c), req.Recipient, req.Amount)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     "Transfer successful",
			"transaction": res.Transaction,
			"balance":     res.Source.Balance,
		})
	}
}

// CashInHandler moves agent float into a user's wallet
func CashInHandler(engine *service.TransferEngine, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CashRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		res, err := engine.CashIn(c.Request.Context(), callerFrom(c), req.reference(), req.Amount)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Cash-in successful",
			"transaction":  res.Transaction,
			"agent_wallet": res.Source,
			"user_wallet":  res.Destination,
		})
	}
}

// CashOutHandler moves funds from a user's wallet to the agent
func CashOutHandler(engine *service.TransferEngine, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CashRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		res, err := engine.CashOut(c.Request.Context(), callerFrom(c), req.reference(), req.Amount)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Cash-out successful",
			"transaction":  res.Transaction,
			"agent_wallet": res.Destination,
			"user_wallet":  res.Source,
		})
	}
}
