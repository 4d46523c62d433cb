package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByKind(t *testing.T) {
	err := InsufficientFunds("insufficient funds")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NotErrorIs(t, err, ErrWalletBlocked)

	wrapped := fmt.Errorf("transfer: %w", err)
	assert.ErrorIs(t, wrapped, ErrInsufficientFunds)
	assert.Equal(t, KindInsufficientFunds, KindOf(wrapped))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := Internal(cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Nil(t, Internal(nil))

	// Already classified errors pass through
	nf := NotFound("wallet not found")
	assert.Same(t, nf, Internal(nf))
}

func TestKindOfUnknownError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("boom")))
	assert.Equal(t, "not_found", PublicMessage(ErrNotFound))
	assert.Equal(t, "agent is not approved", PublicMessage(Forbidden("agent is not approved")))
}
