package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bookkeeper/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestAuthor creates an author with a unique name.
func CreateTestAuthor(t *testing.T, db *gorm.DB) *models.Author {
	t.Helper()

	author := &models.Author{
		Name:      fmt.Sprintf("Test Author %d", nextID()),
		BirthYear: 1950,
	}
	if err := db.Create(author).Error; err != nil {
		t.Fatalf("failed to create test author: %v", err)
	}
	return author
}

// CreateTestBook creates a book linked to the given authors.
func CreateTestBook(t *testing.T, db *gorm.DB, authors ...*models.Author) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:         fmt.Sprintf("Test Book %d", nextID()),
		Genre:         "Fiction",
		PublishedYear: 2001,
	}
	if err := db.Omit("Authors").Create(book).Error; err != nil {
		t.Fatalf("failed to create test book: %v", err)
	}
	for _, a := range authors {
		if err := db.Create(&models.BookAuthor{BookID: book.ID, AuthorID: a.ID}).Error; err != nil {
			t.Fatalf("failed to link test book author: %v", err)
		}
	}
	return book
}

// CreateTestMember creates a member with a unique email.
func CreateTestMember(t *testing.T, db *gorm.DB) *models.Member {
	t.Helper()

	n := nextID()
	member := &models.Member{
		Name:     fmt.Sprintf("Test Member %d", n),
		Email:    fmt.Sprintf("member%d@test.com", n),
		JoinDate: Date(2024, time.January, 1),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestLoan creates an outstanding loan with explicit dates.
func CreateTestLoan(t *testing.T, db *gorm.DB, bookID, memberID uint, loanDate, dueDate time.Time) *models.Loan {
	t.Helper()

	loan := &models.Loan{
		BookID:   bookID,
		MemberID: memberID,
		LoanDate: loanDate,
		DueDate:  dueDate,
	}
	if err := db.Create(loan).Error; err != nil {
		t.Fatalf("failed to create test loan: %v", err)
	}
	return loan
}

// CreateTestReturnedLoan creates a loan that has already come back.
func CreateTestReturnedLoan(t *testing.T, db *gorm.DB, bookID, memberID uint, loanDate, dueDate, returnDate time.Time) *models.Loan {
	t.Helper()

	loan := &models.Loan{
		BookID:     bookID,
		MemberID:   memberID,
		LoanDate:   loanDate,
		DueDate:    dueDate,
		ReturnDate: &returnDate,
	}
	if err := db.Create(loan).Error; err != nil {
		t.Fatalf("failed to create test returned loan: %v", err)
	}
	return loan
}

// CreateTestUser creates a finance user with the given monthly budget.
func CreateTestUser(t *testing.T, db *gorm.DB, budget string) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		Name:          fmt.Sprintf("Test User %d", n),
		Email:         fmt.Sprintf("user%d@test.com", n),
		MonthlyBudget: decimal.RequireFromString(budget),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{Name: fmt.Sprintf("Test Category %d", nextID())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense inserts an expense directly, bypassing the budget check.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID uint, amount string, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	if err := db.Omit("Category").Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome inserts an income directly, leaving the budget untouched.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID uint, amount string, date time.Time) *models.Income {
	t.Helper()

	income := &models.Income{
		UserID: userID,
		Amount: decimal.RequireFromString(amount),
		Source: "Salary",
		Date:   date,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}
