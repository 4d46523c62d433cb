package service

import (
	"context"

	"wallet_ledger/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProfileService covers self-service account edits and recipient lookup
type ProfileService struct {
	db   *gorm.DB
	dir  *Directory
	cost int
	log  logrus.FieldLogger
}

// NewProfileService creates the profile service
func NewProfileService(db *gorm.DB, dir *Directory, cost int, log logrus.FieldLogger) *ProfileService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &ProfileService{db: db, dir: dir, cost: cost, log: log}
}

// Me returns the caller's own account
func (p *ProfileService) Me(ctx context.Context, caller Caller) (*domain.Account, error) {
	return authenticated(ctx, p.dir, caller)
}

// ProfileUpdate carries the fields to change; nil leaves a field untouched
type ProfileUpdate struct {
	Username *string
	Email    *string
	Phone    *string
}

// UpdateProfile changes handle, email or phone after a uniqueness re-check
func (p *ProfileService) UpdateProfile(ctx context.Context, caller Caller, in ProfileUpdate) (*domain.Account, error) {
	me, err := authenticated(ctx, p.dir, caller)
	if err != nil {
		return nil, err
	}
	username := ""
	if in.Username != nil {
		username = *in.Username
	}
	id, err := normalizeIdentity(username, in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if id.Username != "" && id.Username != me.Username {
		updates["username"] = id.Username
	} else {
		id.Username = ""
	}
	if id.Email != nil && (me.Email == nil || *me.Email != *id.Email) {
		updates["email"] = *id.Email
	} else {
		id.Email = nil
	}
	if id.Phone != nil && (me.Phone == nil || *me.Phone != *id.Phone) {
		updates["phone"] = *id.Phone
	} else {
		id.Phone = nil
	}
	if len(updates) == 0 {
		return me, nil
	}
	if err := p.dir.EnsureAvailable(ctx, id, me.ID); err != nil {
		return nil, err
	}
	if err := p.db.WithContext(ctx).Model(me).Updates(updates).Error; err != nil {
		return nil, translateWriteError(err)
	}
	p.log.WithFields(logrus.Fields{"account_id": me.ID, "fields": len(updates)}).Info("Profile updated")
	return p.dir.ByID(ctx, me.ID)
}

// ChangePassword replaces the caller's password after checking the old one
func (p *ProfileService) ChangePassword(ctx context.Context, caller Caller, oldPassword, newPassword string) error {
	me, err := authenticated(ctx, p.dir, caller)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(me.Password), []byte(oldPassword)); err != nil {
		return domain.InvalidInput("old password is incorrect")
	}
	if err := validPassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.cost)
	if err != nil {
		return domain.Internal(err)
	}
	if err := p.db.WithContext(ctx).Model(me).Update("password", string(hash)).Error; err != nil {
		return domain.Internal(err)
	}
	p.log.WithField("account_id", me.ID).Info("Password changed")
	return nil
}

// Lookup resolves a recipient reference the same way transfers do
func (p *ProfileService) Lookup(ctx context.Context, caller Caller, ref string) (*domain.PublicAccount, error) {
	if _, err := authorize(ctx, p.dir, caller, domain.PermLookup); err != nil {
		return nil, err
	}
	acc, err := p.dir.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	pub := acc.Public()
	return &pub, nil
}
