package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"wallet_ledger/internal/domain"

	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_.]{2,29}$`)

// NormalizeUsername lowercases a handle and strips a leading "@"
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}

// ValidUsername reports whether a normalized handle is acceptable. Handles
// must start with a letter so they can never be mistaken for a raw id.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail accepts a bare address only, no display name
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// NormalizePhone strips every non-digit character
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone accepts E.164-sized digit strings
func ValidPhone(digits string) bool {
	return len(digits) >= 7 && len(digits) <= 15
}

// Directory resolves caller identities and free-form recipient references to accounts
type Directory struct {
	db *gorm.DB
}

// NewDirectory creates an account directory
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// ByID loads one account
func (d *Directory) ByID(ctx context.Context, id uint) (*domain.Account, error) {
	var acc domain.Account
	if err := d.db.WithContext(ctx).First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("account not found")
		}
		return nil, domain.Internal(err)
	}
	return &acc, nil
}

// Resolve maps a recipient reference to exactly one account. Lookups are
// tried in a fixed order and the first hit wins:
//
//  1. raw account id
//  2. handle, with or without a leading "@", case-insensitive
//  3. email, case-insensitive
//  4. phone, compared digits-only
func (d *Directory) Resolve(ctx context.Context, ref string) (*domain.Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.InvalidInput("recipient is required")
	}
	db := d.db.WithContext(ctx)

	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		if acc, err := d.first(db.Where("id = ?", id)); acc != nil || err != nil {
			return acc, err
		}
	}
	if handle := NormalizeUsername(ref); handle != "" {
		if acc, err := d.first(db.Where("LOWER(username) = ?", handle)); acc != nil || err != nil {
			return acc, err
		}
	}
	if strings.Contains(ref, "@") {
		if acc, err := d.first(db.Where("LOWER(email) = ?", NormalizeEmail(ref))); acc != nil || err != nil {
			return acc, err
		}
	}
	if digits := NormalizePhone(ref); digits != "" {
		if acc, err := d.first(db.Where("phone = ?", digits)); acc != nil || err != nil {
			return acc, err
		}
	}
	return nil, domain.NotFound("recipient not found")
}

// first returns (nil, nil) on a miss so Resolve can fall through
func (d *Directory) first(q *gorm.DB) (*domain.Account, error) {
	var acc domain.Account
	err := q.Limit(1).Find(&acc).Error
	if err != nil {
		return nil, domain.Internal(err)
	}
	if acc.ID == 0 {
		return nil, nil
	}
	return &acc, nil
}

// Identity is the set of unique fields on an account
type Identity struct {
	Username string
	Email    *string
	Phone    *string
}

// EnsureAvailable returns Conflict when any non-empty field of id is already
// used by an account other than exclude.
func (d *Directory) EnsureAvailable(ctx context.Context, id Identity, exclude uint) error {
	db := d.db.WithContext(ctx)
	check := func(column, value, msg string) error {
		var count int64
		q := db.Model(&domain.Account{}).Where(column+" = ?", value)
		if exclude != 0 {
			q = q.Where("id <> ?", exclude)
		}
		if err := q.Count(&count).Error; err != nil {
			return domain.Internal(err)
		}
		if count > 0 {
			return domain.Conflict(msg)
		}
		return nil
	}
	if id.Username != "" {
		if err := check("username", id.Username, "username already taken"); err != nil {
			return err
		}
	}
	if id.Email != nil && *id.Email != "" {
		if err := check("email", *id.Email, "email already in use"); err != nil {
			return err
		}
	}
	if id.Phone != nil && *id.Phone != "" {
		if err := check("phone", *id.Phone, "phone already in use"); err != nil {
			return err
		}
	}
	return nil
}

// translateWriteError maps unique-index violations raced past EnsureAvailable to Conflict
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflict("username, email or phone already in use")
	}
	return domain.Internal(err)
}
