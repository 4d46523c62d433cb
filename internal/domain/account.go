package domain

// Account Model
type Account struct {
	ID        uint    `gorm:"primaryKey" json:"id"`                         // Primary key
	Username  string  `gorm:"size:30;uniqueIndex;not null" json:"username"` // Unique lowercase handle
	Email     *string `gorm:"size:254;uniqueIndex" json:"email,omitempty"`  // Optional unique email, lowercased
	Phone     *string `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`   // Optional unique phone, digits only
	Password  string  `gorm:"not null" json:"-"`                            // Hashed password
	Role      Role    `gorm:"size:16;not null;index" json:"role"`           // standard, agent or admin
	Approved  bool    `gorm:"not null" json:"approved"`                     // Agents start unapproved
	CreatedAt int64   `gorm:"autoCreateTime:milli;index" json:"created_at"` // Creation time in milliseconds
	UpdatedAt int64   `gorm:"autoUpdateTime:milli" json:"updated_at"`       // Last update in milliseconds
}

// PublicAccount is the view of an account shown to other users
type PublicAccount struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     Role    `json:"role"`
	Approved bool    `json:"approved"`
}

// Public strips everything but the identity fields
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Phone:    a.Phone,
		Role:     a.Role,
		Approved: a.Approved,
	}
}

// Party is the minimal account view attached to ledger entries
type Party struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
