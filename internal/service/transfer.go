package service

import (
	"context"

	"wallet_ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransferEngine moves funds between wallets. Every shape runs the same
// fixed sequence: preconditions first, then debit, credit and ledger append
// committed together in one database transaction.
type TransferEngine struct {
	db      *gorm.DB
	dir     *Directory
	wallets *WalletStore
	ledger  *Ledger
	log     logrus.FieldLogger
}

// NewTransferEngine creates the transfer engine
func NewTransferEngine(db *gorm.DB, dir *Directory, wallets *WalletStore, ledger *Ledger, log logrus.FieldLogger) *TransferEngine {
	return &TransferEngine{db: db, dir: dir, wallets: wallets, ledger: ledger, log: log}
}

// TransferResult is the committed ledger entry with post-commit balances
type TransferResult struct {
	Transaction *domain.Transaction `json:"transaction"`
	Source      *domain.Wallet      `json:"source_wallet,omitempty"`
	Destination *domain.Wallet      `json:"destination_wallet,omitempty"`
}

// movement is one planned transfer. A nil from is an external deposit,
// a nil to an external withdrawal.
type movement struct {
	caller *domain.Account
	from   *domain.Account
	to     *domain.Account
	amount domain.Amount
	kind   domain.TransactionType
}

// PeerTransfer sends amount from a standard caller to the account named by recipient
func (e *TransferEngine) PeerTransfer(ctx context.Context, caller Caller, recipient string, amount decimal.Decimal) (*TransferResult, error) {
	me, err := authorize(ctx, e.dir, caller, domain.PermPeerTransfer)
	if err != nil {
		return nil, err
	}
	amt, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	to, err := e.dir.Resolve(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if to.ID == me.ID {
		return nil, domain.InvalidOperation("cannot transfer to yourself")
	}
	return e.execute(ctx, movement{caller: me, from: me, to: to, amount: amt, kind: domain.TypePeerTransfer})
}

// CashIn moves an agent's float into a user's wallet
func (e *TransferEngine) CashIn(ctx context.Context, caller Caller, target string, amount decimal.Decimal) (*TransferResult, error) {
	agent, user, amt, err := e.prepareAgentShape(ctx, caller, domain.PermCashIn, target, amount)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, movement{caller: agent, from: agent, to: user, amount: amt, kind: domain.TypeDeposit})
}

// CashOut moves funds from a user's wallet into the agent's wallet
func (e *TransferEngine) CashOut(ctx context.Context, caller Caller, target string, amount decimal.Decimal) (*TransferResult, error) {
	agent, user, amt, err := e.prepareAgentShape(ctx, caller, domain.PermCashOut, target, amount)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, movement{caller: agent, from: user, to: agent, amount: amt, kind: domain.TypeWithdrawal})
}

func (e *TransferEngine) prepareAgentShape(ctx context.Context, caller Caller, perm domain.Permission, target string, amount decimal.Decimal) (*domain.Account, *domain.Account, domain.Amount, error) {
	agent, err := authorize(ctx, e.dir, caller, perm)
	if err != nil {
		return nil, nil, 0, err
	}
	amt, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, nil, 0, err
	}
	user, err := e.dir.Resolve(ctx, target)
	if err != nil {
		return nil, nil, 0, err
	}
	if user.ID == agent.ID {
		return nil, nil, 0, domain.InvalidOperation("agent cannot target its own wallet")
	}
	return agent, user, amt, nil
}

// Deposit credits the caller's own wallet from outside the system
func (e *TransferEngine) Deposit(ctx context.Context, caller Caller, amount decimal.Decimal) (*TransferResult, error) {
	me, err := authorize(ctx, e.dir, caller, domain.PermSelfDeposit)
	if err != nil {
		return nil, err
	}
	amt, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, movement{caller: me, to: me, amount: amt, kind: domain.TypeDeposit})
}

// Withdraw debits the caller's own wallet to outside the system
func (e *TransferEngine) Withdraw(ctx context.Context, caller Caller, amount decimal.Decimal) (*TransferResult, error) {
	me, err := authorize(ctx, e.dir, caller, domain.PermSelfWithdraw)
	if err != nil {
		return nil, err
	}
	amt, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, movement{caller: me, from: me, amount: amt, kind: domain.TypeWithdrawal})
}

// execute checks the wallet preconditions in order (source blocked, source
// balance, destination blocked) and then applies all effects atomically.
// A failed precondition leaves no balance change and no ledger entry.
func (e *TransferEngine) execute(ctx context.Context, m movement) (*TransferResult, error) {
	var src, dst *domain.Wallet
	var err error
	if m.from != nil {
		if src, err = e.wallets.GetOrCreate(ctx, m.from.ID); err != nil {
			return nil, err
		}
		if src.Blocked {
			return nil, domain.WalletBlocked("source wallet is blocked")
		}
		if src.Balance < m.amount {
			return nil, domain.InsufficientFunds("insufficient funds")
		}
	}
	if m.to != nil {
		if dst, err = e.wallets.GetOrCreate(ctx, m.to.ID); err != nil {
			return nil, err
		}
		if dst.Blocked {
			return nil, domain.WalletBlocked("destination wallet is blocked")
		}
	}

	entry := &domain.Transaction{Amount: m.amount, Type: m.kind, Status: domain.StatusCompleted}
	if m.from != nil {
		id := m.from.ID
		entry.SenderID = &id
	}
	if m.to != nil {
		id := m.to.ID
		entry.ReceiverID = &id
	}

	result := &TransferResult{Transaction: entry}
	var locked []uint
	for _, w := range []*domain.Wallet{src, dst} {
		if w != nil {
			locked = append(locked, w.ID)
		}
	}
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockWallets(tx, locked...); err != nil {
			return err
		}
		// Debit strictly before credit. The guarded UPDATE re-checks balance
		// and blocked on the row itself, so a concurrent debit or moderation
		// write that landed after the checks above rolls everything back.
		if src != nil {
			if err := applyDelta(tx, src.ID, -int64(m.amount)); err != nil {
				return err
			}
		}
		if dst != nil {
			if err := applyDelta(tx, dst.ID, int64(m.amount)); err != nil {
				return err
			}
		}
		if err := appendEntry(tx, entry); err != nil {
			return err
		}
		if src != nil {
			if result.Source, err = walletByID(tx, src.ID); err != nil {
				return err
			}
		}
		if dst != nil {
			if result.Destination, err = walletByID(tx, dst.ID); err != nil {
				return err
			}
		}
		return nil
	})

	fields := logrus.Fields{
		"caller_id": m.caller.ID,
		"type":      m.kind,
		"amount":    m.amount.String(),
	}
	if m.from != nil {
		fields["sender_id"] = m.from.ID
	}
	if m.to != nil {
		fields["receiver_id"] = m.to.ID
	}
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			e.log.WithFields(fields).WithError(err).Error("Transfer failed")
			return nil, domain.Internal(err)
		}
		e.log.WithFields(fields).WithField("reason", domain.KindOf(err)).Warn("Transfer rejected at commit")
		return nil, err
	}

	touched := make([]uint, 0, 2)
	if m.from != nil {
		touched = append(touched, m.from.ID)
	}
	if m.to != nil {
		touched = append(touched, m.to.ID)
	}
	e.wallets.Invalidate(ctx, touched...)
	e.ledger.Invalidate(ctx, touched...)

	fields["transaction_id"] = entry.ID
	e.log.WithFields(fields).Info("Transfer transaction")
	return result, nil
}
