package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User owns incomes and expenses and carries the monthly spending ceiling.
type User struct {
	Base
	Name          string          `gorm:"not null" json:"name"`
	Email         string          `gorm:"uniqueIndex;not null" json:"email"`
	MonthlyBudget decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_budget"`
}

// Category classifies expenses.
type Category struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Income is an append-only credit to a user.
type Income struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Source    string          `json:"source"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// Expense is an append-only debit against a user's monthly budget.
type Expense struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt  time.Time       `json:"created_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TransactionLog is the append-only audit trail of a user's ledger events.
type TransactionLog struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Action    string          `gorm:"not null" json:"action"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Timestamp time.Time       `gorm:"not null" json:"timestamp"`
}
