package service

import (
	"context"
	"testing"
	"time"

	"wallet_ledger/internal/config"
	"wallet_ledger/internal/db"
	"wallet_ledger/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "hunter22"

type fixture struct {
	db  *gorm.DB
	svc *Services
	rdb *redis.Client
	mr  *miniredis.Miniredis
	log *test.Hook
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		CacheTTL:   time.Minute,
		BcryptCost: bcrypt.MinCost,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// One connection keeps every goroutine on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(conn))
	return conn
}

// newFixture builds services without a cache
func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := newTestDB(t)
	log, hook := test.NewNullLogger()
	return &fixture{db: conn, svc: New(conn, nil, testConfig(), log), log: hook}
}

// newCachedFixture builds services backed by miniredis
func newCachedFixture(t *testing.T) *fixture {
	t.Helper()
	conn := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	log, hook := test.NewNullLogger()
	return &fixture{db: conn, svc: New(conn, rdb, testConfig(), log), rdb: rdb, mr: mr, log: hook}
}

func (f *fixture) account(t *testing.T, username string, role domain.Role, approved bool) *domain.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	acc := &domain.Account{Username: username, Password: string(hash), Role: role, Approved: approved}
	require.NoError(t, f.db.Create(acc).Error)
	return acc
}

func (f *fixture) user(t *testing.T, username string) *domain.Account {
	return f.account(t, username, domain.RoleStandard, true)
}

// fund sets a wallet balance directly, bypassing the engine
func (f *fixture) fund(t *testing.T, acc *domain.Account, amount string) *domain.Wallet {
	t.Helper()
	w, err := f.svc.Wallets.GetOrCreate(context.Background(), acc.ID)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&domain.Wallet{}).Where("id = ?", w.ID).Update("balance", int64(domain.MustAmount(amount))).Error)
	w.Balance = domain.MustAmount(amount)
	return w
}

func (f *fixture) block(t *testing.T, acc *domain.Account) {
	t.Helper()
	require.NoError(t, f.db.Model(&domain.Wallet{}).Where("account_id = ?", acc.ID).Update("blocked", true).Error)
}

func (f *fixture) balance(t *testing.T, acc *domain.Account) domain.Amount {
	t.Helper()
	var w domain.Wallet
	require.NoError(t, f.db.Where("account_id = ?", acc.ID).First(&w).Error)
	return w.Balance
}

func (f *fixture) ledgerCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Transaction{}).Count(&n).Error)
	return n
}

func callerOf(acc *domain.Account) Caller {
	return Caller{AccountID: acc.ID, Role: acc.Role}
}
