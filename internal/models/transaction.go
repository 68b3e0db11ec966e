package models

import "time"

// TransactionType tells income from expense.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// DateLayout is the calendar-date format used for Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is a single income or expense record.
// Amounts are stored in cents to avoid floating point drift. Date is kept as
// YYYY-MM-DD text so range filters compare lexically.
//
// Owner and CategoryRef only declare the foreign keys; they are never loaded.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Owner       *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  *uint           `gorm:"index"`
	CategoryRef *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	AmountCents int64           `gorm:"not null"`
	Description string          `gorm:"size:255;not null"`
	Date        string          `gorm:"size:10;index;not null"`
	Type        TransactionType `gorm:"size:16;index;not null"`
	Notes       *string         `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
