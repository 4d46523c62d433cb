package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		role     Role
		approved bool
		perm     Permission
		allowed  bool
	}{
		{RoleStandard, true, PermPeerTransfer, true},
		{RoleStandard, true, PermSelfDeposit, true},
		{RoleStandard, true, PermCashIn, false},
		{RoleStandard, true, PermModerate, false},
		{RoleAgent, true, PermCashIn, true},
		{RoleAgent, true, PermCashOut, true},
		{RoleAgent, false, PermCashIn, false},
		{RoleAgent, false, PermCashOut, false},
		{RoleAgent, false, PermReadWallet, false},
		{RoleAgent, false, PermReadOwnTransactions, false},
		{RoleAgent, false, PermLookup, false},
		{RoleAgent, true, PermLookup, true},
		{RoleStandard, false, PermReadWallet, true},
		{RoleAgent, true, PermPeerTransfer, false},
		{RoleAdmin, true, PermModerate, true},
		{RoleAdmin, true, PermReadAll, true},
		{RoleAdmin, true, PermPeerTransfer, false},
		{Role("ghost"), true, PermReadWallet, false},
	}
	for _, tc := range cases {
		err := Authorize(tc.role, tc.approved, tc.perm)
		if tc.allowed {
			assert.NoError(t, err, "%s/%s", tc.role, tc.perm)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s/%s", tc.role, tc.perm)
		}
	}
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"": RoleStandard, "user": RoleStandard, "Standard": RoleStandard, " agent ": RoleAgent, "admin": RoleAdmin} {
		got, err := ParseRole(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.False(t, RoleAgent.ApprovedOnCreate())
	assert.True(t, RoleStandard.ApprovedOnCreate())
}
