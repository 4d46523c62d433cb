package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"wallet_ledger/internal/domain"     // Error kinds
	"wallet_ledger/internal/middleware" // Context keys
	"wallet_ledger/internal/service"    // Caller type

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

var kindStatus = map[domain.Kind]int{
	domain.KindUnauthorized:      http.StatusUnauthorized,
	domain.KindForbidden:         http.StatusForbidden,
	domain.KindInvalidInput:      http.StatusBadRequest,
	domain.KindInvalidAmount:     http.StatusBadRequest,
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindInvalidOperation:  http.StatusBadRequest,
	domain.KindWalletBlocked:     http.StatusForbidden,
	domain.KindInsufficientFunds: http.StatusBadRequest,
	domain.KindConflict:          http.StatusConflict,
	domain.KindInternal:          http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind domain.Kind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError sends {"error": {"kind", "message"}}. Internal causes are logged, never sent.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.FullPath(),
			"error":      err.Error(),
		}).Error("Request failed")
	}
	c.JSON(StatusFor(kind), gin.H{"error": gin.H{"kind": kind, "message": domain.PublicMessage(err)}})
}

// badRequest reports a body or query that failed binding
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": domain.KindInvalidInput, "message": msg}})
}

// callerFrom reads the identity stored by the JWT middleware
func callerFrom(c *gin.Context) service.Caller {
	var caller service.Caller
	if v, ok := c.Get(middleware.AccountIDKey); ok {
		caller.AccountID, _ = v.(uint)
	}
	if v, ok := c.Get(middleware.RoleKey); ok {
		caller.Role, _ = v.(domain.Role)
	}
	return caller
}

// pageParams reads page and page_size; the service normalizes the values
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", c.DefaultQuery("limit", "0")))
	return page, size
}

// optionalBool parses "true"/"false" query values, nil when absent
func optionalBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.InvalidInput(name + " must be true or false")
	}
	return &b, nil
}

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.InvalidInput(name + " must be a positive integer")
	}
	return uint(v), nil
}
