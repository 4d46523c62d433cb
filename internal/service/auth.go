package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password length bounds; bcrypt ignores input past 72 bytes
const (
	MinPasswordLen = 6
	MaxPasswordLen = 72
)

// AuthService registers accounts and issues session tokens
type AuthService struct {
	db     *gorm.DB
	dir    *Directory
	secret string
	ttl    time.Duration
	cost   int
	log    logrus.FieldLogger
}

// NewAuthService creates the credential service
func NewAuthService(db *gorm.DB, dir *Directory, secret string, ttl time.Duration, cost int, log logrus.FieldLogger) *AuthService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{db: db, dir: dir, secret: secret, ttl: ttl, cost: cost, log: log}
}

// RegisterInput is a self-service sign-up
type RegisterInput struct {
	Username string
	Password string
	Role     string
	Email    *string
	Phone    *string
}

// normalizeIdentity validates and canonicalizes the unique fields
func normalizeIdentity(username string, email, phone *string) (Identity, error) {
	id := Identity{Username: NormalizeUsername(username)}
	if username != "" && !ValidUsername(id.Username) {
		return id, domain.InvalidInput("username must be 3-30 characters of letters, digits, '_' or '.', starting with a letter")
	}
	if email != nil && strings.TrimSpace(*email) != "" {
		e := NormalizeEmail(*email)
		if !ValidEmail(e) {
			return id, domain.InvalidInput("invalid email address")
		}
		id.Email = &e
	}
	if phone != nil && strings.TrimSpace(*phone) != "" {
		p := NormalizePhone(*phone)
		if !ValidPhone(p) {
			return id, domain.InvalidInput("phone must contain 7 to 15 digits")
		}
		id.Phone = &p
	}
	return id, nil
}

func validPassword(p string) error {
	if len(p) < MinPasswordLen || len(p) > MaxPasswordLen {
		return domain.InvalidInput("password must be 6-72 characters")
	}
	return nil
}

// Register creates a standard or agent account. Agents start unapproved.
// No wallet is created here; it appears on first use.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.InvalidInput("username is required")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin {
		return nil, domain.Forbidden("admin accounts cannot be self-registered")
	}
	id, err := normalizeIdentity(in.Username, in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	if err := validPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.dir.EnsureAvailable(ctx, id, 0); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, domain.Internal(err)
	}
	acc := &domain.Account{
		Username: id.Username,
		Email:    id.Email,
		Phone:    id.Phone,
		Password: string(hash),
		Role:     role,
		Approved: role.ApprovedOnCreate(),
	}
	if err := s.db.WithContext(ctx).Create(acc).Error; err != nil {
		return nil, translateWriteError(err)
	}
	s.log.WithFields(logrus.Fields{
		"account_id": acc.ID,
		"username":   acc.Username,
		"role":       acc.Role,
	}).Info("Account registered")
	return acc, nil
}

// Login checks credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	var acc domain.Account
	err := s.db.WithContext(ctx).Where("username = ?", NormalizeUsername(username)).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, domain.Unauthorized("invalid credentials")
	} else if err != nil {
		return "", nil, domain.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)); err != nil {
		return "", nil, domain.Unauthorized("invalid credentials")
	}
	token, err := utils.GenerateJWT(acc.ID, acc.Role, s.secret, s.ttl)
	if err != nil {
		return "", nil, domain.Internal(err)
	}
	return token, &acc, nil
}

// EnsureAdmin creates an admin account, or promotes and re-keys an existing
// one with the same handle. It is only reachable from the seeding command.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (*domain.Account, error) {
	id, err := normalizeIdentity(username, nil, nil)
	if err != nil {
		return nil, err
	}
	if id.Username == "" {
		return nil, domain.InvalidInput("username is required")
	}
	if err := validPassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, domain.Internal(err)
	}
	db := s.db.WithContext(ctx)
	var acc domain.Account
	err = db.Where("username = ?", id.Username).First(&acc).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		acc = domain.Account{Username: id.Username, Password: string(hash), Role: domain.RoleAdmin, Approved: true}
		if err := db.Create(&acc).Error; err != nil {
			return nil, translateWriteError(err)
		}
	case err != nil:
		return nil, domain.Internal(err)
	default:
		updates := map[string]any{"role": domain.RoleAdmin, "approved": true, "password": string(hash)}
		if err := db.Model(&acc).Updates(updates).Error; err != nil {
			return nil, domain.Internal(err)
		}
		acc.Role, acc.Approved, acc.Password = domain.RoleAdmin, true, string(hash)
	}
	s.log.WithFields(logrus.Fields{"account_id": acc.ID, "username": acc.Username}).Info("Admin ensured")
	return &acc, nil
}
