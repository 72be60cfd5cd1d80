package services

import (
	"time"

	"github.com/shopspring/decimal"

	"bookkeeper/internal/models"
	"bookkeeper/internal/pagination"
)

// CatalogServicer defines the contract for authors, books and their links.
type CatalogServicer interface {
	CreateAuthor(name string, birthYear int) (*models.Author, error)
	GetAuthorByID(authorID uint) (*models.Author, error)
	ListAuthors(page pagination.PageRequest) (*pagination.PageResponse[models.Author], error)
	UpdateAuthor(authorID uint, name string, birthYear *int) (*models.Author, error)
	DeleteAuthor(authorID uint) error
	CreateBook(title, genre string, publishedYear int, authorIDs []uint) (*models.Book, error)
	GetBookByID(bookID uint) (*models.Book, error)
	ListBooks(page pagination.PageRequest, genre string) (*pagination.PageResponse[models.Book], error)
	UpdateBook(bookID uint, title, genre string, publishedYear *int) (*models.Book, error)
	AddBookAuthor(bookID, authorID uint) (*models.Book, error)
	RemoveBookAuthor(bookID, authorID uint) (*models.Book, error)
	DeleteBook(bookID uint) error
}

// MemberServicer defines the contract for library members.
type MemberServicer interface {
	CreateMember(name, email string, joinDate time.Time) (*models.Member, error)
	GetMemberByID(memberID uint) (*models.Member, error)
	ListMembers(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error)
	UpdateMember(memberID uint, name, email string) (*models.Member, error)
	GetMemberLoans(memberID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Loan], error)
}

// LoanServicer defines the lending rules: checkout, renewal and return.
type LoanServicer interface {
	CheckoutBook(bookID, memberID uint, loanDate time.Time) (*models.Loan, error)
	IsBookAvailable(bookID uint) (bool, error)
	RenewLoan(loanID uint) (*models.Loan, error)
	ReturnBook(loanID uint, returnDate time.Time) (*models.Loan, error)
	GetLoanByID(loanID uint) (*models.Loan, error)
	GetLoanAudits(loanID uint) ([]models.LoanAudit, error)
}

// OverdueLoan is one outstanding loan past its due date.
type OverdueLoan struct {
	LoanID      uint      `json:"loan_id"`
	BookID      uint      `json:"book_id"`
	BookTitle   string    `json:"book_title"`
	MemberID    uint      `json:"member_id"`
	MemberName  string    `json:"member_name"`
	LoanDate    time.Time `json:"loan_date"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
}

// WeeklyOverdueCount counts a member's overdue loans falling due in one ISO week.
type WeeklyOverdueCount struct {
	MemberID     uint   `json:"member_id"`
	MemberName   string `json:"member_name"`
	ISOYear      int    `json:"iso_year"`
	ISOWeek      int    `json:"iso_week"`
	OverdueCount int    `json:"overdue_count"`
}

// MemberLoanCount is a member's total number of loans.
type MemberLoanCount struct {
	MemberID   uint   `json:"member_id"`
	MemberName string `json:"member_name"`
	LoanCount  int64  `json:"loan_count"`
}

// MemberLoanRunningTotal is one loan annotated with the member's cumulative
// loan count up to and including it, and the member's overall total.
type MemberLoanRunningTotal struct {
	LoanID       uint      `json:"loan_id"`
	MemberID     uint      `json:"member_id"`
	BookID       uint      `json:"book_id"`
	LoanDate     time.Time `json:"loan_date"`
	RunningCount int       `json:"running_count"`
	MemberTotal  int       `json:"member_total"`
}

// LibraryReportServicer defines read-only library reports.
type LibraryReportServicer interface {
	OverdueLoans() ([]OverdueLoan, error)
	WeeklyOverdueSummary() ([]WeeklyOverdueCount, error)
	TopMembers(limit int) ([]MemberLoanCount, error)
	MemberLoanRunningTotals(memberID *uint) ([]MemberLoanRunningTotal, error)
}

// UserServicer defines the contract for finance users.
type UserServicer interface {
	CreateUser(name, email string, monthlyBudget decimal.Decimal) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(userID uint, name, email string, monthlyBudget *decimal.Decimal) (*models.User, error)
}

// CategoryServicer defines the contract for expense categories.
type CategoryServicer interface {
	CreateCategory(name string) (*models.Category, error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	ListCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	RenameCategory(categoryID uint, name string) (*models.Category, error)
	DeleteCategory(categoryID uint) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uint
}

// LedgerServicer defines the budget rules over incomes and expenses.
type LedgerServicer interface {
	RecordExpense(userID uint, amount decimal.Decimal, categoryID uint, date time.Time) (*models.Expense, error)
	AddMonthlyIncome(userID uint, amount decimal.Decimal, source string) (*models.Income, error)
	CloseMonth(userID uint, closingDate time.Time) (*models.TransactionLog, error)
	ListExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	ListIncomes(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	ListTransactionLogs(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionLog], error)
}

// BudgetStatus is a user's spending against the monthly budget for one month.
type BudgetStatus struct {
	UserID           uint            `json:"user_id"`
	UserName         string          `json:"user_name"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	MonthlyBudget    decimal.Decimal `json:"monthly_budget"`
	Spent            decimal.Decimal `json:"spent"`
	BalanceRemaining decimal.Decimal `json:"balance_remaining"`
}

// CategoryTotal is the expense total for one category in one month.
type CategoryTotal struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// SpendRatio is expense as a percentage of income for one user and month.
// Ratio is nil when the user had no income that month.
type SpendRatio struct {
	UserID  uint             `json:"user_id"`
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Income  decimal.Decimal  `json:"income"`
	Expense decimal.Decimal  `json:"expense"`
	Ratio   *decimal.Decimal `json:"ratio"`
}

// FinanceReportServicer defines read-only finance reports.
type FinanceReportServicer interface {
	BudgetStatus(year int, month time.Month) ([]BudgetStatus, error)
	UserBudgetStatus(userID uint, year int, month time.Month) (*BudgetStatus, error)
	CategoryTotals(year int, month time.Month, userID *uint) ([]CategoryTotal, error)
	SpendRatio(userID uint, year int, month time.Month) (*SpendRatio, error)
	SpendRatios(year int, month time.Month) ([]SpendRatio, error)
}
