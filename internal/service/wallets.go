package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletStore owns wallet rows. Balances only change through applyDelta,
// which the database executes as a single conditional increment.
type WalletStore struct {
	db  *gorm.DB
	dir *Directory
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

// NewWalletStore creates a wallet store; rdb may be nil
func NewWalletStore(db *gorm.DB, dir *Directory, rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *WalletStore {
	return &WalletStore{db: db, dir: dir, rdb: rdb, ttl: ttl, log: log}
}

func walletVersionKey(accountID uint) string {
	return "wallet:account:" + strconv.FormatUint(uint64(accountID), 10) + ":version"
}

// walletCacheKey is generation-scoped: a read that raced an invalidation
// writes under a retired generation and is never served.
func walletCacheKey(accountID uint, version int64) string {
	return fmt.Sprintf("wallet:account:%d:v%d", accountID, version)
}

// GetOrCreate returns the account's wallet, creating an empty unblocked one
// on first reference. Concurrent first references create exactly one row.
func (s *WalletStore) GetOrCreate(ctx context.Context, accountID uint) (*domain.Wallet, error) {
	return getOrCreateWallet(s.db.WithContext(ctx), accountID)
}

func getOrCreateWallet(db *gorm.DB, accountID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	err := db.Where("account_id = ?", accountID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Internal(err)
	}
	// The unique index on account_id arbitrates racing creators
	fresh := domain.Wallet{AccountID: accountID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, domain.Internal(err)
	}
	w = domain.Wallet{}
	if err := db.Where("account_id = ?", accountID).First(&w).Error; err != nil {
		return nil, domain.Internal(err)
	}
	return &w, nil
}

// ByID loads a wallet by its own id
func (s *WalletStore) ByID(ctx context.Context, walletID uint) (*domain.Wallet, error) {
	return walletByID(s.db.WithContext(ctx), walletID)
}

func walletByID(db *gorm.DB, walletID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := db.First(&w, walletID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("wallet not found")
		}
		return nil, domain.Internal(err)
	}
	return &w, nil
}

// Mine returns the caller's wallet through the read cache
func (s *WalletStore) Mine(ctx context.Context, caller Caller) (*domain.Wallet, error) {
	acc, err := authorize(ctx, s.dir, caller, domain.PermReadWallet)
	if err != nil {
		return nil, err
	}
	// The generation must be read before the row
	version, err := utils.CacheVersion(ctx, s.rdb, walletVersionKey(acc.ID))
	if err != nil {
		s.log.WithError(err).Warn("wallet cache version read failed")
		return s.GetOrCreate(ctx, acc.ID)
	}
	key := walletCacheKey(acc.ID, version)
	var cached domain.Wallet
	if found, err := utils.GetCache(ctx, s.rdb, key, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("wallet cache read failed")
	}
	w, err := s.GetOrCreate(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	if err := utils.SetCache(ctx, s.rdb, key, w, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("wallet cache write failed")
	}
	return w, nil
}

// ApplyDelta atomically adds delta (negative to debit) to a wallet and
// returns the updated row. It fails with WalletBlocked on a blocked wallet
// and InsufficientFunds when a debit would take the balance below zero. A
// credit past the int64 ceiling is InvalidAmount.
func (s *WalletStore) ApplyDelta(ctx context.Context, walletID uint, delta int64) (*domain.Wallet, error) {
	var out *domain.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyDelta(tx, walletID, delta); err != nil {
			return err
		}
		w, err := walletByID(tx, walletID)
		out = w
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, out.AccountID)
	return out, nil
}

// applyDelta is the only statement that changes a balance. The increment is
// computed by the database, never from a value read into memory, and the
// WHERE clause re-checks blocked, balance and headroom against the row
// being written.
func applyDelta(db *gorm.DB, walletID uint, delta int64) error {
	q := db.Model(&domain.Wallet{}).Where("id = ? AND blocked = ?", walletID, false)
	if delta < 0 {
		q = q.Where("balance >= ?", -delta)
	} else {
		q = q.Where("balance <= ?", math.MaxInt64-delta)
	}
	res := q.Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return domain.Internal(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	w, err := walletByID(db, walletID)
	if err != nil {
		return err
	}
	if w.Blocked {
		return domain.WalletBlocked("wallet " + strconv.FormatUint(uint64(w.ID), 10) + " is blocked")
	}
	if delta > 0 {
		return domain.InvalidAmount("amount would exceed the maximum wallet balance")
	}
	return domain.InsufficientFunds("insufficient funds")
}

// lockWallets takes row locks on the given wallets in ascending id order.
// Transfers over the same pair of wallets in opposite directions then queue
// on the lower id instead of deadlocking on the second write.
func lockWallets(tx *gorm.DB, ids ...uint) error {
	var rows []domain.Wallet
	if err := lockWalletsQuery(tx, ids).Find(&rows).Error; err != nil {
		return domain.Internal(err)
	}
	return nil
}

func lockWalletsQuery(tx *gorm.DB, ids []uint) *gorm.DB {
	q := tx.Model(&domain.Wallet{}).Select("id").Where("id IN ?", ids).Order("id")
	// SQLite has a single writer and no row locks
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// SetBlocked flips the moderation flag. Last writer wins.
func (s *WalletStore) SetBlocked(ctx context.Context, walletID uint, blocked bool) (*domain.Wallet, error) {
	w, err := s.ByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&domain.Wallet{}).Where("id = ?", walletID).Update("blocked", blocked).Error; err != nil {
		return nil, domain.Internal(err)
	}
	w.Blocked = blocked
	s.Invalidate(ctx, w.AccountID)
	return w, nil
}

// Invalidate retires cached wallet reads for the given accounts
func (s *WalletStore) Invalidate(ctx context.Context, accountIDs ...uint) {
	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		keys = append(keys, walletVersionKey(id))
	}
	if err := utils.BumpVersion(ctx, s.rdb, keys...); err != nil {
		s.log.WithError(err).WithField("keys", keys).Error("wallet cache invalidation failed")
	}
}
