package service

import (
	"context"
	"testing"

	"wallet_ledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.contact(t, bob, "bob@example.com", "5551112222")

	acc, err := f.svc.Profile.UpdateProfile(ctx, callerOf(alice), ProfileUpdate{
		Username: strPtr("Alice.W"),
		Email:    strPtr("alice@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice.w", acc.Username)
	assert.Equal(t, "alice@example.com", *acc.Email)
	assert.Nil(t, acc.Phone)

	// Re-submitting current values is a no-op, not a conflict with itself
	_, err = f.svc.Profile.UpdateProfile(ctx, callerOf(alice), ProfileUpdate{Username: strPtr("alice.w")})
	assert.NoError(t, err)

	_, err = f.svc.Profile.UpdateProfile(ctx, callerOf(alice), ProfileUpdate{Email: strPtr("BOB@example.com")})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.svc.Profile.UpdateProfile(ctx, callerOf(alice), ProfileUpdate{Phone: strPtr("555-111-2222")})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.svc.Profile.UpdateProfile(ctx, callerOf(alice), ProfileUpdate{Username: strPtr("9lives")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Profile.UpdateProfile(ctx, Caller{AccountID: 4242, Role: domain.RoleStandard}, ProfileUpdate{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	err := f.svc.Profile.ChangePassword(ctx, callerOf(alice), "not-it", "new-password")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = f.svc.Profile.ChangePassword(ctx, callerOf(alice), testPassword, "new")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.svc.Profile.ChangePassword(ctx, callerOf(alice), testPassword, "new-password"))
	_, _, err = f.svc.Auth.Login(ctx, "alice", "new-password")
	assert.NoError(t, err)
	_, _, err = f.svc.Auth.Login(ctx, "alice", testPassword)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	agent := f.account(t, "agent", domain.RoleAgent, true)
	pending := f.account(t, "pending", domain.RoleAgent, false)
	admin := f.account(t, "root", domain.RoleAdmin, true)

	pub, err := f.svc.Profile.Lookup(ctx, callerOf(agent), "@alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, pub.ID)
	assert.Equal(t, "alice", pub.Username)

	_, err = f.svc.Profile.Lookup(ctx, callerOf(pending), "@alice")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Profile reads stay open to a pending agent
	me, err := f.svc.Profile.Me(ctx, callerOf(pending))
	require.NoError(t, err)
	assert.False(t, me.Approved)

	_, err = f.svc.Profile.Lookup(ctx, callerOf(alice), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	me, err = f.svc.Profile.Me(ctx, callerOf(admin))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, me.Role)
}
