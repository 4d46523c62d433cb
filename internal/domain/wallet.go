package domain

// Wallet Model
type Wallet struct {
	ID        uint     `gorm:"primaryKey" json:"id"`                          // Primary key
	AccountID uint     `gorm:"uniqueIndex;not null" json:"account_id"`        // One wallet per account
	Balance   Amount   `gorm:"not null;default:0" json:"balance"`             // Balance in minor units
	Blocked   bool     `gorm:"not null;default:false" json:"blocked"`         // Set by moderation only
	CreatedAt int64    `gorm:"autoCreateTime:milli;index" json:"created_at"`  // Creation time in milliseconds
	UpdatedAt int64    `gorm:"autoUpdateTime:milli" json:"updated_at"`        // Last update in milliseconds
	Account   *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"` // Owner, loaded on admin listings
}
