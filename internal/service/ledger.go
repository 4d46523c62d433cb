package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransactionFilter narrows a ledger query. Zero values mean "any".
type TransactionFilter struct {
	ParticipantID *uint                    // Sender or receiver
	Type          domain.TransactionType   // peer_transfer, deposit, withdrawal
	Status        domain.TransactionStatus // completed, failed
	From          *time.Time               // Inclusive lower bound
	To            *time.Time               // Inclusive upper bound
	MinAmount     *domain.Amount           // Inclusive
	MaxAmount     *domain.Amount           // Inclusive
}

// Validate rejects unknown enums and inverted ranges
func (f TransactionFilter) Validate() error {
	if f.Type != "" && !f.Type.Valid() {
		return domain.InvalidInput("unknown transaction type " + string(f.Type))
	}
	if f.Status != "" && !f.Status.Valid() {
		return domain.InvalidInput("unknown transaction status " + string(f.Status))
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return domain.InvalidInput("from must not be after to")
	}
	if f.MinAmount != nil && f.MaxAmount != nil && *f.MinAmount > *f.MaxAmount {
		return domain.InvalidInput("min_amount must not exceed max_amount")
	}
	return nil
}

// cacheKey renders the filter for use in a cache key
func (f TransactionFilter) cacheKey() string {
	parts := []string{string(f.Type), string(f.Status)}
	for _, t := range []*time.Time{f.From, f.To} {
		if t != nil {
			parts = append(parts, strconv.FormatInt(t.UnixMilli(), 10))
		} else {
			parts = append(parts, "")
		}
	}
	for _, a := range []*domain.Amount{f.MinAmount, f.MaxAmount} {
		if a != nil {
			parts = append(parts, strconv.FormatInt(int64(*a), 10))
		} else {
			parts = append(parts, "")
		}
	}
	return strings.Join(parts, ",")
}

func (f TransactionFilter) apply(q *gorm.DB) *gorm.DB {
	if f.ParticipantID != nil {
		q = q.Where("sender_id = ? OR receiver_id = ?", *f.ParticipantID, *f.ParticipantID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UnixMilli())
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", f.To.UnixMilli())
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", int64(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", int64(*f.MaxAmount))
	}
	return q
}

// ParseDateBound parses a filter bound. A bare date (2006-01-02) expands to
// the start of that day, or with endOfDay to its last millisecond, in UTC.
// RFC 3339 timestamps are used as given.
func ParseDateBound(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if day, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		if endOfDay {
			return day.AddDate(0, 0, 1).Add(-time.Millisecond), nil
		}
		return day, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.InvalidInput(fmt.Sprintf("invalid date %q: use YYYY-MM-DD or RFC 3339", s))
	}
	return t, nil
}

// Ledger is the append-only record of completed transfers
type Ledger struct {
	db  *gorm.DB
	dir *Directory
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

// NewLedger creates a transaction ledger; rdb may be nil
func NewLedger(db *gorm.DB, dir *Directory, rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *Ledger {
	return &Ledger{db: db, dir: dir, rdb: rdb, ttl: ttl, log: log}
}

// appendEntry writes one ledger row inside the caller's transaction
func appendEntry(tx *gorm.DB, entry *domain.Transaction) error {
	if entry.Amount <= 0 {
		return domain.InvalidAmount("ledger amount must be positive")
	}
	if entry.SenderID == nil && entry.ReceiverID == nil {
		return domain.InvalidOperation("ledger entry needs a sender or a receiver")
	}
	if err := tx.Create(entry).Error; err != nil {
		return domain.Internal(err)
	}
	return nil
}

// Query returns one page of entries, newest first. Ties on created_at are
// broken by id so page boundaries are stable.
func (l *Ledger) Query(ctx context.Context, f TransactionFilter, page, size int) (Page[domain.Transaction], error) {
	page, size = NormalizePage(page, size)
	if err := f.Validate(); err != nil {
		return Page[domain.Transaction]{}, err
	}
	var total int64
	if err := f.apply(l.db.WithContext(ctx).Model(&domain.Transaction{})).Count(&total).Error; err != nil {
		return Page[domain.Transaction]{}, domain.Internal(err)
	}
	var items []domain.Transaction
	err := f.apply(l.db.WithContext(ctx).Model(&domain.Transaction{})).
		Order("created_at desc").
		Order("id desc").
		Offset(offset(page, size)).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return Page[domain.Transaction]{}, domain.Internal(err)
	}
	if err := l.attachParties(ctx, items); err != nil {
		return Page[domain.Transaction]{}, err
	}
	return newPage(items, page, size, total), nil
}

// attachParties fills Sender/Receiver with handle and role
func (l *Ledger) attachParties(ctx context.Context, items []domain.Transaction) error {
	seen := map[uint]bool{}
	var ids []uint
	for _, t := range items {
		for _, id := range []*uint{t.SenderID, t.ReceiverID} {
			if id != nil && !seen[*id] {
				seen[*id] = true
				ids = append(ids, *id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var accs []domain.Account
	if err := l.db.WithContext(ctx).Select("id", "username", "role").Where("id IN ?", ids).Find(&accs).Error; err != nil {
		return domain.Internal(err)
	}
	parties := make(map[uint]*domain.Party, len(accs))
	for _, a := range accs {
		parties[a.ID] = &domain.Party{ID: a.ID, Username: a.Username, Role: a.Role}
	}
	for i := range items {
		if id := items[i].SenderID; id != nil {
			items[i].Sender = parties[*id]
		}
		if id := items[i].ReceiverID; id != nil {
			items[i].Receiver = parties[*id]
		}
	}
	return nil
}

func historyVersionKey(accountID uint) string {
	return "txhistory:account:" + strconv.FormatUint(uint64(accountID), 10) + ":version"
}

// History lists the caller's own entries. Pages are cached under a
// per-account generation that every transfer touching the account bumps.
func (l *Ledger) History(ctx context.Context, caller Caller, f TransactionFilter, page, size int) (Page[domain.Transaction], error) {
	acc, err := authorize(ctx, l.dir, caller, domain.PermReadOwnTransactions)
	if err != nil {
		return Page[domain.Transaction]{}, err
	}
	page, size = NormalizePage(page, size)
	id := acc.ID
	f.ParticipantID = &id

	version, err := utils.CacheVersion(ctx, l.rdb, historyVersionKey(id))
	if err != nil {
		l.log.WithError(err).Warn("history cache version read failed")
		return l.Query(ctx, f, page, size)
	}
	key := fmt.Sprintf("txhistory:account:%d:v%d:%s:page:%d:size:%d", id, version, f.cacheKey(), page, size)
	var cached Page[domain.Transaction]
	if found, err := utils.GetCache(ctx, l.rdb, key, &cached); err == nil && found {
		return cached, nil
	}
	result, err := l.Query(ctx, f, page, size)
	if err != nil {
		return result, err
	}
	if err := utils.SetCache(ctx, l.rdb, key, result, l.ttl); err != nil {
		l.log.WithError(err).WithField("key", key).Warn("history cache write failed")
	}
	return result, nil
}

// Invalidate retires every cached history page of the given accounts
func (l *Ledger) Invalidate(ctx context.Context, accountIDs ...uint) {
	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		keys = append(keys, historyVersionKey(id))
	}
	if err := utils.BumpVersion(ctx, l.rdb, keys...); err != nil {
		l.log.WithError(err).WithField("keys", keys).Error("history cache invalidation failed")
	}
}
