package service

import (
	"context"
	"errors"
	"strings"

	"wallet_ledger/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Moderation holds the admin-only, out-of-band state changes and read views.
// Writes here bypass the transfer engine and are last-writer-wins.
type Moderation struct {
	db      *gorm.DB
	dir     *Directory
	wallets *WalletStore
	ledger  *Ledger
	log     logrus.FieldLogger
}

// NewModeration creates the moderation layer
func NewModeration(db *gorm.DB, dir *Directory, wallets *WalletStore, ledger *Ledger, log logrus.FieldLogger) *Moderation {
	return &Moderation{db: db, dir: dir, wallets: wallets, ledger: ledger, log: log}
}

// SetWalletBlocked blocks or unblocks a wallet
func (m *Moderation) SetWalletBlocked(ctx context.Context, caller Caller, walletID uint, blocked bool) (*domain.Wallet, error) {
	admin, err := authorize(ctx, m.dir, caller, domain.PermModerate)
	if err != nil {
		return nil, err
	}
	w, err := m.wallets.SetBlocked(ctx, walletID, blocked)
	if err != nil {
		return nil, err
	}
	m.log.WithFields(logrus.Fields{
		"admin_id":   admin.ID,
		"wallet_id":  w.ID,
		"account_id": w.AccountID,
		"blocked":    blocked,
	}).Info("Wallet moderation")
	return w, nil
}

// SetAgentApproval approves or suspends an agent account
func (m *Moderation) SetAgentApproval(ctx context.Context, caller Caller, accountID uint, approved bool) (*domain.Account, error) {
	admin, err := authorize(ctx, m.dir, caller, domain.PermModerate)
	if err != nil {
		return nil, err
	}
	acc, err := m.dir.ByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("agent not found")
		}
		return nil, err
	}
	if acc.Role != domain.RoleAgent {
		return nil, domain.NotFound("agent not found")
	}
	if err := m.db.WithContext(ctx).Model(&domain.Account{}).Where("id = ?", acc.ID).Update("approved", approved).Error; err != nil {
		return nil, domain.Internal(err)
	}
	acc.Approved = approved
	m.log.WithFields(logrus.Fields{
		"admin_id": admin.ID,
		"agent_id": acc.ID,
		"approved": approved,
	}).Info("Agent moderation")
	return acc, nil
}

// Bucket is a count and summed amount
type Bucket struct {
	Count  int64         `json:"count"`
	Volume domain.Amount `json:"volume"`
}

// Stats is the admin dashboard summary
type Stats struct {
	Accounts struct {
		Total          int64 `json:"total"`
		Standard       int64 `json:"standard"`
		Agents         int64 `json:"agents"`
		Admins         int64 `json:"admins"`
		ApprovedAgents int64 `json:"approved_agents"`
		PendingAgents  int64 `json:"pending_agents"`
	} `json:"accounts"`
	Wallets struct {
		Total   int64 `json:"total"`
		Blocked int64 `json:"blocked"`
	} `json:"wallets"`
	Transactions struct {
		Total    int64             `json:"total"`
		Volume   domain.Amount     `json:"volume"`
		ByType   map[string]Bucket `json:"by_type"`
		ByStatus map[string]Bucket `json:"by_status"`
	} `json:"transactions"`
}

// Stats aggregates account, wallet and ledger counts
func (m *Moderation) Stats(ctx context.Context, caller Caller) (*Stats, error) {
	if _, err := authorize(ctx, m.dir, caller, domain.PermReadAll); err != nil {
		return nil, err
	}
	db := m.db.WithContext(ctx)
	var s Stats
	counts := []struct {
		dst   *int64
		model any
		where []any
	}{
		{&s.Accounts.Total, &domain.Account{}, nil},
		{&s.Accounts.Standard, &domain.Account{}, []any{"role = ?", domain.RoleStandard}},
		{&s.Accounts.Agents, &domain.Account{}, []any{"role = ?", domain.RoleAgent}},
		{&s.Accounts.Admins, &domain.Account{}, []any{"role = ?", domain.RoleAdmin}},
		{&s.Accounts.ApprovedAgents, &domain.Account{}, []any{"role = ? AND approved = ?", domain.RoleAgent, true}},
		{&s.Accounts.PendingAgents, &domain.Account{}, []any{"role = ? AND approved = ?", domain.RoleAgent, false}},
		{&s.Wallets.Total, &domain.Wallet{}, nil},
		{&s.Wallets.Blocked, &domain.Wallet{}, []any{"blocked = ?", true}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, domain.Internal(err)
		}
	}

	var rows []struct {
		Type   string
		Status string
		Count  int64
		Volume int64
	}
	err := db.Model(&domain.Transaction{}).
		Select("type, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS volume").
		Group("type, status").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Internal(err)
	}
	s.Transactions.ByType = map[string]Bucket{}
	s.Transactions.ByStatus = map[string]Bucket{}
	for _, r := range rows {
		s.Transactions.Total += r.Count
		s.Transactions.Volume += domain.Amount(r.Volume)
		t := s.Transactions.ByType[r.Type]
		t.Count += r.Count
		t.Volume += domain.Amount(r.Volume)
		s.Transactions.ByType[r.Type] = t
		st := s.Transactions.ByStatus[r.Status]
		st.Count += r.Count
		st.Volume += domain.Amount(r.Volume)
		s.Transactions.ByStatus[r.Status] = st
	}
	return &s, nil
}

// AccountFilter narrows the admin account listing
type AccountFilter struct {
	Role     domain.Role // Any role when empty
	Approved *bool       // Only applied together with Role = agent
	Search   string      // Handle/email substring or phone digits
}

// ListAccounts pages through accounts, newest first
func (m *Moderation) ListAccounts(ctx context.Context, caller Caller, f AccountFilter, page, size int) (Page[domain.Account], error) {
	if _, err := authorize(ctx, m.dir, caller, domain.PermReadAll); err != nil {
		return Page[domain.Account]{}, err
	}
	if f.Role != "" && !f.Role.Valid() {
		return Page[domain.Account]{}, domain.InvalidInput("unknown role " + string(f.Role))
	}
	page, size = NormalizePage(page, size)
	scope := func(q *gorm.DB) *gorm.DB {
		if f.Role != "" {
			q = q.Where("role = ?", f.Role)
		}
		if f.Role == domain.RoleAgent && f.Approved != nil {
			q = q.Where("approved = ?", *f.Approved)
		}
		if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
			like := "%" + s + "%"
			if digits := NormalizePhone(s); digits != "" {
				q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR phone = ?", like, like, digits)
			} else {
				q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
			}
		}
		return q
	}
	var total int64
	if err := m.db.WithContext(ctx).Model(&domain.Account{}).Scopes(scope).Count(&total).Error; err != nil {
		return Page[domain.Account]{}, domain.Internal(err)
	}
	var items []domain.Account
	err := m.db.WithContext(ctx).Scopes(scope).
		Order("created_at desc").Order("id desc").
		Offset(offset(page, size)).Limit(size).
		Find(&items).Error
	if err != nil {
		return Page[domain.Account]{}, domain.Internal(err)
	}
	return newPage(items, page, size, total), nil
}

// ListWallets pages through wallets with their owners, newest first
func (m *Moderation) ListWallets(ctx context.Context, caller Caller, blocked *bool, page, size int) (Page[domain.Wallet], error) {
	if _, err := authorize(ctx, m.dir, caller, domain.PermReadAll); err != nil {
		return Page[domain.Wallet]{}, err
	}
	page, size = NormalizePage(page, size)
	scope := func(q *gorm.DB) *gorm.DB {
		if blocked != nil {
			q = q.Where("blocked = ?", *blocked)
		}
		return q
	}
	var total int64
	if err := m.db.WithContext(ctx).Model(&domain.Wallet{}).Scopes(scope).Count(&total).Error; err != nil {
		return Page[domain.Wallet]{}, domain.Internal(err)
	}
	var items []domain.Wallet
	err := m.db.WithContext(ctx).Scopes(scope).
		Preload("Account").
		Order("created_at desc").Order("id desc").
		Offset(offset(page, size)).Limit(size).
		Find(&items).Error
	if err != nil {
		return Page[domain.Wallet]{}, domain.Internal(err)
	}
	return newPage(items, page, size, total), nil
}

// ListTransactions pages through the whole ledger
func (m *Moderation) ListTransactions(ctx context.Context, caller Caller, f TransactionFilter, page, size int) (Page[domain.Transaction], error) {
	if _, err := authorize(ctx, m.dir, caller, domain.PermReadAll); err != nil {
		return Page[domain.Transaction]{}, err
	}
	return m.ledger.Query(ctx, f, page, size)
}
