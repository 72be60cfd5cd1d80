package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all mutable tables. IDs are assigned by the
// store in insertion order, which reports rely on as their tie-break.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Author{},
		&Book{},
		&BookAuthor{},
		&Member{},
		&Loan{},
		&LoanAudit{},
		&User{},
		&Category{},
		&Income{},
		&Expense{},
		&TransactionLog{},
	}
}

// SetupJoinTables registers the explicit join models with gorm so that
// migrations and association queries share one book_authors schema.
func SetupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&Book{}, "Authors", &BookAuthor{})
}

// openLoanIndex enforces at most one outstanding loan per book. Postgres gets
// the same index from migrations/.
const openLoanIndex = "CREATE UNIQUE INDEX IF NOT EXISTS idx_loans_open_book ON loans (book_id) WHERE return_date IS NULL"

// AutoMigrate creates or updates the schema from the models, for stores
// without SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(All()...); err != nil {
		return err
	}
	return db.Exec(openLoanIndex).Error
}
