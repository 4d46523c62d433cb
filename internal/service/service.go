// Package service holds the wallet ledger core: the account directory, the
// wallet store, the transfer engine, the transaction ledger and the
// moderation layer, plus the credential and profile collaborators.
//
// Every operation takes the verified Caller as supplied by the credential
// layer and returns *domain.Error values so transports can map failures to a
// stable kind.
package service

import (
	"context"
	"errors"

	"wallet_ledger/internal/config"
	"wallet_ledger/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Caller is the (account id, role) pair established by the credential layer.
// It is trusted verbatim.
type Caller struct {
	AccountID uint
	Role      domain.Role
}

// Pagination bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage treats page < 1 as 1, size < 1 as the default and clamps size to MaxPageSize.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// Page is one page of a listing
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func newPage[T any](data []T, page, size int, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
}

func offset(page, size int) int { return (page - 1) * size }

// authorize is the single gate every operation passes through: it checks the
// caller is authenticated, consults the role table and, for agents, the
// stored approval flag.
func authorize(ctx context.Context, dir *Directory, caller Caller, perm domain.Permission) (*domain.Account, error) {
	if caller.AccountID == 0 || !caller.Role.Valid() {
		return nil, domain.Unauthorized("authentication required")
	}
	if !caller.Role.Can(perm) {
		return nil, domain.Forbidden("role " + string(caller.Role) + " is not permitted to " + string(perm))
	}
	acc, err := dir.ByID(ctx, caller.AccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("account no longer exists")
	} else if err != nil {
		return nil, err
	}
	if err := domain.Authorize(caller.Role, acc.Approved, perm); err != nil {
		return nil, err
	}
	return acc, nil
}

// authenticated only checks that the caller maps to a live account
func authenticated(ctx context.Context, dir *Directory, caller Caller) (*domain.Account, error) {
	if caller.AccountID == 0 {
		return nil, domain.Unauthorized("authentication required")
	}
	acc, err := dir.ByID(ctx, caller.AccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("account no longer exists")
	}
	return acc, err
}

// Services bundles every component wired against one database and cache
type Services struct {
	Directory  *Directory
	Wallets    *WalletStore
	Ledger     *Ledger
	Transfers  *TransferEngine
	Moderation *Moderation
	Auth       *AuthService
	Profile    *ProfileService
}

// New wires all services. rdb may be nil to run without a cache.
func New(db *gorm.DB, rdb *redis.Client, cfg *config.Config, log logrus.FieldLogger) *Services {
	dir := NewDirectory(db)
	wallets := NewWalletStore(db, dir, rdb, cfg.CacheTTL, log)
	ledger := NewLedger(db, dir, rdb, cfg.CacheTTL, log)
	return &Services{
		Directory:  dir,
		Wallets:    wallets,
		Ledger:     ledger,
		Transfers:  NewTransferEngine(db, dir, wallets, ledger, log),
		Moderation: NewModeration(db, dir, wallets, ledger, log),
		Auth:       NewAuthService(db, dir, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost, log),
		Profile:    NewProfileService(db, dir, cfg.BcryptCost, log),
	}
}
