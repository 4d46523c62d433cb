package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func newEngine(log logrus.FieldLogger, perm domain.Permission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/guarded", JWTAuthMiddleware(secret), RequirePermission(perm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account_id": c.GetUint(AccountIDKey)})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAndPermission(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := newEngine(log, domain.PermPeerTransfer)

	standard, err := utils.GenerateJWT(7, domain.RoleStandard, secret, time.Hour)
	require.NoError(t, err)
	agent, err := utils.GenerateJWT(8, domain.RoleAgent, secret, time.Hour)
	require.NoError(t, err)
	forged, err := utils.GenerateJWT(7, domain.RoleStandard, "other-secret", time.Hour)
	require.NoError(t, err)

	w := get(r, "/guarded", standard)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"account_id":7}`, w.Body.String())

	w = get(r, "/guarded", agent)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":{"kind":"forbidden","message":"access denied"}}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/guarded", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/guarded", forged).Code)
}

func TestRequirePermission_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequirePermission(domain.PermReadWallet), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "").Code)
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := newEngine(log, domain.PermReadWallet)

	w := get(r, "/open", "")
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, id, entry.Data["request_id"])
	assert.Equal(t, http.StatusNoContent, entry.Data["status"])

	// A well-formed incoming id is propagated
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	incoming := uuid.NewString()
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
