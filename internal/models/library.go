package models

import "time"

// Author writes books.
type Author struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	BirthYear int    `json:"birth_year"`
}

// Book is a catalog title. Authors are linked through book_authors.
type Book struct {
	Base
	Title         string   `gorm:"not null" json:"title"`
	Genre         string   `gorm:"index" json:"genre"`
	PublishedYear int      `json:"published_year"`
	Authors       []Author `gorm:"many2many:book_authors" json:"authors,omitempty"`
}

// BookAuthor is the composite-key join row between books and authors.
type BookAuthor struct {
	BookID   uint `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	AuthorID uint `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
}

// Member borrows books.
type Member struct {
	Base
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	JoinDate time.Time `gorm:"not null" json:"join_date"`
}

// Loan records one checkout of a book. ReturnDate is nil while the loan is outstanding.
type Loan struct {
	Base
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	MemberID   uint       `gorm:"not null;index" json:"member_id"`
	LoanDate   time.Time  `gorm:"not null" json:"loan_date"`
	DueDate    time.Time  `gorm:"not null;index" json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`

	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// IsOutstanding reports whether the book has not come back yet.
func (l *Loan) IsOutstanding() bool {
	return l.ReturnDate == nil
}

// IsOverdueOn reports whether an outstanding loan is past due on the given date.
func (l *Loan) IsOverdueOn(today time.Time) bool {
	return l.IsOutstanding() && l.DueDate.Before(today)
}

// LoanAuditActionReturned is the audit action written when a loan is returned.
const LoanAuditActionReturned = "Book Returned"

// LoanAudit is an append-only record of a loan state transition.
type LoanAudit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LoanID    uint      `gorm:"not null;index" json:"loan_id"`
	Action    string    `gorm:"not null" json:"action"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
