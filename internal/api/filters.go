package api

import (
	"strconv" // Query parsing

	"wallet_ledger/internal/domain"  // Domain types
	"wallet_ledger/internal/service" // Ledger filter

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Amount parsing
)

// transactionFilter builds a ledger filter from query parameters:
// type, status, from, to (YYYY-MM-DD or RFC 3339), min_amount, max_amount.
func transactionFilter(c *gin.Context) (service.TransactionFilter, error) {
	f := service.TransactionFilter{
		Type:   domain.TransactionType(c.Query("type")),
		Status: domain.TransactionStatus(c.Query("status")),
	}
	if from := c.Query("from"); from != "" {
		t, err := service.ParseDateBound(from, false)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := service.ParseDateBound(to, true)
		if err != nil {
			return f, err
		}
		f.To = &t
	}
	for name, dst := range map[string]**domain.Amount{"min_amount": &f.MinAmount, "max_amount": &f.MaxAmount} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return f, domain.InvalidInput(name + " must be a decimal number")
		}
		a, err := domain.ParseAmount(d)
		if err != nil {
			return f, domain.InvalidInput(name + ": " + domain.PublicMessage(err))
		}
		*dst = &a
	}
	return f, nil
}

// adminTransactionFilter additionally accepts account_id to filter by participant
func adminTransactionFilter(c *gin.Context) (service.TransactionFilter, error) {
	f, err := transactionFilter(c)
	if err != nil {
		return f, err
	}
	if raw := c.Query("account_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return f, domain.InvalidInput("account_id must be a positive integer")
		}
		participant := uint(id)
		f.ParticipantID = &participant
	}
	return f, nil
}
