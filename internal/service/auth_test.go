package service

import (
	"context"
	"testing"

	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acc, err := f.svc.Auth.Register(ctx, RegisterInput{
		Username: "@Alice",
		Password: testPassword,
		Email:    strPtr(" Alice@Example.com "),
		Phone:    strPtr("+1 555 000 1111"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, domain.RoleStandard, acc.Role)
	assert.True(t, acc.Approved)
	assert.Equal(t, "alice@example.com", *acc.Email)
	assert.Equal(t, "15550001111", *acc.Phone)
	assert.NotEqual(t, testPassword, acc.Password)

	// Wallets are created lazily
	var n int64
	require.NoError(t, f.db.Model(&domain.Wallet{}).Count(&n).Error)
	assert.Zero(t, n)

	agent, err := f.svc.Auth.Register(ctx, RegisterInput{Username: "shop", Password: testPassword, Role: "agent"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, agent.Role)
	assert.False(t, agent.Approved)
}

func TestRegister_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Auth.Register(ctx, RegisterInput{Username: "taken", Password: testPassword, Email: strPtr("t@example.com")})
	require.NoError(t, err)

	cases := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"admin role", RegisterInput{Username: "boss", Password: testPassword, Role: "admin"}, domain.ErrForbidden},
		{"unknown role", RegisterInput{Username: "boss", Password: testPassword, Role: "owner"}, domain.ErrInvalidInput},
		{"missing username", RegisterInput{Password: testPassword}, domain.ErrInvalidInput},
		{"numeric username", RegisterInput{Username: "12345", Password: testPassword}, domain.ErrInvalidInput},
		{"short password", RegisterInput{Username: "newbie", Password: "abc"}, domain.ErrInvalidInput},
		{"bad email", RegisterInput{Username: "newbie", Password: testPassword, Email: strPtr("not-an-email")}, domain.ErrInvalidInput},
		{"bad phone", RegisterInput{Username: "newbie", Password: testPassword, Phone: strPtr("12")}, domain.ErrInvalidInput},
		{"duplicate username", RegisterInput{Username: "TAKEN", Password: testPassword}, domain.ErrConflict},
		{"duplicate email", RegisterInput{Username: "newbie", Password: testPassword, Email: strPtr("T@example.com")}, domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Auth.Register(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	token, acc, err := f.svc.Auth.Login(ctx, "@ALICE", testPassword)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, acc.ID)

	claims, err := utils.ParseJWT(token, testConfig().JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.AccountID)
	assert.Equal(t, domain.RoleStandard, claims.Role)

	_, _, err = f.svc.Auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, _, err = f.svc.Auth.Login(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.svc.Auth.EnsureAdmin(ctx, "root", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// Promotes an existing account in place
	bob := f.user(t, "bob")
	promoted, err := f.svc.Auth.EnsureAdmin(ctx, "bob", "another-pass")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, promoted.ID)

	got, err := f.svc.Directory.ByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	_, _, err = f.svc.Auth.Login(ctx, "bob", "another-pass")
	assert.NoError(t, err)

	_, err = f.svc.Auth.EnsureAdmin(ctx, "root", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
