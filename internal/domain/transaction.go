package domain

// TransactionType is the shape of a completed money movement
type TransactionType string

const (
	TypePeerTransfer TransactionType = "peer_transfer"
	TypeDeposit      TransactionType = "deposit"
	TypeWithdrawal   TransactionType = "withdrawal"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TypePeerTransfer, TypeDeposit, TypeWithdrawal:
		return true
	}
	return false
}

// TransactionStatus is the outcome of a transfer attempt
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Valid reports whether s is a known status
func (s TransactionStatus) Valid() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Transaction Model. Rows are append-only: never updated or deleted.
type Transaction struct {
	ID         uint              `gorm:"primaryKey" json:"id"`                         // Primary key
	SenderID   *uint             `gorm:"index" json:"sender_id"`                       // Account debited, nil for external deposits
	ReceiverID *uint             `gorm:"index" json:"receiver_id"`                     // Account credited, nil for external withdrawals
	Amount     Amount            `gorm:"not null" json:"amount"`                       // Always positive, minor units
	Type       TransactionType   `gorm:"size:20;not null;index" json:"type"`           // peer_transfer, deposit, withdrawal
	Status     TransactionStatus `gorm:"size:12;not null;index" json:"status"`         // completed or failed
	CreatedAt  int64             `gorm:"autoCreateTime:milli;index" json:"created_at"` // Creation time in milliseconds
	Sender     *Party            `gorm:"-" json:"sender,omitempty"`                    // Filled on listings
	Receiver   *Party            `gorm:"-" json:"receiver,omitempty"`                  // Filled on listings
}
