package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/pagination"
	"bookkeeper/internal/services"
	"bookkeeper/internal/validator"
)

// --- mock services ---

type mockCatalogService struct {
	createAuthorFn     func(name string, birthYear int) (*models.Author, error)
	getAuthorByIDFn    func(authorID uint) (*models.Author, error)
	listAuthorsFn      func(page pagination.PageRequest) (*pagination.PageResponse[models.Author], error)
	updateAuthorFn     func(authorID uint, name string, birthYear *int) (*models.Author, error)
	deleteAuthorFn     func(authorID uint) error
	createBookFn       func(title, genre string, publishedYear int, authorIDs []uint) (*models.Book, error)
	getBookByIDFn      func(bookID uint) (*models.Book, error)
	listBooksFn        func(page pagination.PageRequest, genre string) (*pagination.PageResponse[models.Book], error)
	updateBookFn       func(bookID uint, title, genre string, publishedYear *int) (*models.Book, error)
	addBookAuthorFn    func(bookID, authorID uint) (*models.Book, error)
	removeBookAuthorFn func(bookID, authorID uint) (*models.Book, error)
	deleteBookFn       func(bookID uint) error
}

var _ services.CatalogServicer = (*mockCatalogService)(nil)

func (m *mockCatalogService) CreateAuthor(name string, birthYear int) (*models.Author, error) {
	if m.createAuthorFn != nil {
		return m.createAuthorFn(name, birthYear)
	}
	return &models.Author{}, nil
}

func (m *mockCatalogService) GetAuthorByID(authorID uint) (*models.Author, error) {
	if m.getAuthorByIDFn != nil {
		return m.getAuthorByIDFn(authorID)
	}
	return &models.Author{}, nil
}

func (m *mockCatalogService) ListAuthors(page pagination.PageRequest) (*pagination.PageResponse[models.Author], error) {
	if m.listAuthorsFn != nil {
		return m.listAuthorsFn(page)
	}
	resp := pagination.NewPageResponse[models.Author](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockCatalogService) UpdateAuthor(authorID uint, name string, birthYear *int) (*models.Author, error) {
	if m.updateAuthorFn != nil {
		return m.updateAuthorFn(authorID, name, birthYear)
	}
	return &models.Author{}, nil
}

func (m *mockCatalogService) DeleteAuthor(authorID uint) error {
	if m.deleteAuthorFn != nil {
		return m.deleteAuthorFn(authorID)
	}
	return nil
}

func (m *mockCatalogService) CreateBook(title, genre string, publishedYear int, authorIDs []uint) (*models.Book, error) {
	if m.createBookFn != nil {
		return m.createBookFn(title, genre, publishedYear, authorIDs)
	}
	return &models.Book{}, nil
}

func (m *mockCatalogService) GetBookByID(bookID uint) (*models.Book, error) {
	if m.getBookByIDFn != nil {
		return m.getBookByIDFn(bookID)
	}
	return &models.Book{}, nil
}

func (m *mockCatalogService) ListBooks(page pagination.PageRequest, genre string) (*pagination.PageResponse[models.Book], error) {
	if m.listBooksFn != nil {
		return m.listBooksFn(page, genre)
	}
	resp := pagination.NewPageResponse[models.Book](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockCatalogService) UpdateBook(bookID uint, title, genre string, publishedYear *int) (*models.Book, error) {
	if m.updateBookFn != nil {
		return m.updateBookFn(bookID, title, genre, publishedYear)
	}
	return &models.Book{}, nil
}

func (m *mockCatalogService) AddBookAuthor(bookID, authorID uint) (*models.Book, error) {
	if m.addBookAuthorFn != nil {
		return m.addBookAuthorFn(bookID, authorID)
	}
	return &models.Book{}, nil
}

func (m *mockCatalogService) RemoveBookAuthor(bookID, authorID uint) (*models.Book, error) {
	if m.removeBookAuthorFn != nil {
		return m.removeBookAuthorFn(bookID, authorID)
	}
	return &models.Book{}, nil
}

func (m *mockCatalogService) DeleteBook(bookID uint) error {
	if m.deleteBookFn != nil {
		return m.deleteBookFn(bookID)
	}
	return nil
}

type mockMemberService struct {
	createMemberFn   func(name, email string, joinDate time.Time) (*models.Member, error)
	getMemberByIDFn  func(memberID uint) (*models.Member, error)
	listMembersFn    func(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error)
	updateMemberFn   func(memberID uint, name, email string) (*models.Member, error)
	getMemberLoansFn func(memberID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Loan], error)
}

var _ services.MemberServicer = (*mockMemberService)(nil)

func (m *mockMemberService) CreateMember(name, email string, joinDate time.Time) (*models.Member, error) {
	if m.createMemberFn != nil {
		return m.createMemberFn(name, email, joinDate)
	}
	return &models.Member{}, nil
}

func (m *mockMemberService) GetMemberByID(memberID uint) (*models.Member, error) {
	if m.getMemberByIDFn != nil {
		return m.getMemberByIDFn(memberID)
	}
	return &models.Member{}, nil
}

func (m *mockMemberService) ListMembers(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(page)
	}
	resp := pagination.NewPageResponse[models.Member](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockMemberService) UpdateMember(memberID uint, name, email string) (*models.Member, error) {
	if m.updateMemberFn != nil {
		return m.updateMemberFn(memberID, name, email)
	}
	return &models.Member{}, nil
}

func (m *mockMemberService) GetMemberLoans(memberID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Loan], error) {
	if m.getMemberLoansFn != nil {
		return m.getMemberLoansFn(memberID, page)
	}
	resp := pagination.NewPageResponse[models.Loan](nil, 1, 20, 0)
	return &resp, nil
}

type mockLoanService struct {
	checkoutBookFn    func(bookID, memberID uint, loanDate time.Time) (*models.Loan, error)
	isBookAvailableFn func(bookID uint) (bool, error)
	renewLoanFn       func(loanID uint) (*models.Loan, error)
	returnBookFn      func(loanID uint, returnDate time.Time) (*models.Loan, error)
	getLoanByIDFn     func(loanID uint) (*models.Loan, error)
	getLoanAuditsFn   func(loanID uint) ([]models.LoanAudit, error)
}

var _ services.LoanServicer = (*mockLoanService)(nil)

func (m *mockLoanService) CheckoutBook(bookID, memberID uint, loanDate time.Time) (*models.Loan, error) {
	if m.checkoutBookFn != nil {
		return m.checkoutBookFn(bookID, memberID, loanDate)
	}
	return &models.Loan{}, nil
}

func (m *mockLoanService) IsBookAvailable(bookID uint) (bool, error) {
	if m.isBookAvailableFn != nil {
		return m.isBookAvailableFn(bookID)
	}
	return true, nil
}

func (m *mockLoanService) RenewLoan(loanID uint) (*models.Loan, error) {
	if m.renewLoanFn != nil {
		return m.renewLoanFn(loanID)
	}
	return &models.Loan{}, nil
}

func (m *mockLoanService) ReturnBook(loanID uint, returnDate time.Time) (*models.Loan, error) {
	if m.returnBookFn != nil {
		return m.returnBookFn(loanID, returnDate)
	}
	return &models.Loan{}, nil
}

func (m *mockLoanService) GetLoanByID(loanID uint) (*models.Loan, error) {
	if m.getLoanByIDFn != nil {
		return m.getLoanByIDFn(loanID)
	}
	return &models.Loan{}, nil
}

func (m *mockLoanService) GetLoanAudits(loanID uint) ([]models.LoanAudit, error) {
	if m.getLoanAuditsFn != nil {
		return m.getLoanAuditsFn(loanID)
	}
	return []models.LoanAudit{}, nil
}

type mockLibraryReportService struct {
	overdueLoansFn  func() ([]services.OverdueLoan, error)
	weeklyOverdueFn func() ([]services.WeeklyOverdueCount, error)
	topMembersFn    func(limit int) ([]services.MemberLoanCount, error)
	runningTotalsFn func(memberID *uint) ([]services.MemberLoanRunningTotal, error)
}

var _ services.LibraryReportServicer = (*mockLibraryReportService)(nil)

func (m *mockLibraryReportService) OverdueLoans() ([]services.OverdueLoan, error) {
	if m.overdueLoansFn != nil {
		return m.overdueLoansFn()
	}
	return []services.OverdueLoan{}, nil
}

func (m *mockLibraryReportService) WeeklyOverdueSummary() ([]services.WeeklyOverdueCount, error) {
	if m.weeklyOverdueFn != nil {
		return m.weeklyOverdueFn()
	}
	return []services.WeeklyOverdueCount{}, nil
}

func (m *mockLibraryReportService) TopMembers(limit int) ([]services.MemberLoanCount, error) {
	if m.topMembersFn != nil {
		return m.topMembersFn(limit)
	}
	return []services.MemberLoanCount{}, nil
}

func (m *mockLibraryReportService) MemberLoanRunningTotals(memberID *uint) ([]services.MemberLoanRunningTotal, error) {
	if m.runningTotalsFn != nil {
		return m.runningTotalsFn(memberID)
	}
	return []services.MemberLoanRunningTotal{}, nil
}

type mockUserService struct {
	createUserFn  func(name, email string, monthlyBudget decimal.Decimal) (*models.User, error)
	getUserByIDFn func(userID uint) (*models.User, error)
	listUsersFn   func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	updateUserFn  func(userID uint, name, email string, monthlyBudget *decimal.Decimal) (*models.User, error)
}

var _ services.UserServicer = (*mockUserService)(nil)

func (m *mockUserService) CreateUser(name, email string, monthlyBudget decimal.Decimal) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, monthlyBudget)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(userID uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(userID)
	}
	return &models.User{}, nil
}

func (m *mockUserService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(page)
	}
	resp := pagination.NewPageResponse[models.User](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockUserService) UpdateUser(userID uint, name, email string, monthlyBudget *decimal.Decimal) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(userID, name, email, monthlyBudget)
	}
	return &models.User{}, nil
}

type mockCategoryService struct {
	createCategoryFn  func(name string) (*models.Category, error)
	getCategoryByIDFn func(categoryID uint) (*models.Category, error)
	listCategoriesFn  func(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	renameCategoryFn  func(categoryID uint, name string) (*models.Category, error)
	deleteCategoryFn  func(categoryID uint) error
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func (m *mockCategoryService) CreateCategory(name string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(name)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) ListCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(page)
	}
	resp := pagination.NewPageResponse[models.Category](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) RenameCategory(categoryID uint, name string) (*models.Category, error) {
	if m.renameCategoryFn != nil {
		return m.renameCategoryFn(categoryID, name)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(categoryID uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(categoryID)
	}
	return nil
}

type mockLedgerService struct {
	recordExpenseFn       func(userID uint, amount decimal.Decimal, categoryID uint, date time.Time) (*models.Expense, error)
	addMonthlyIncomeFn    func(userID uint, amount decimal.Decimal, source string) (*models.Income, error)
	closeMonthFn          func(userID uint, closingDate time.Time) (*models.TransactionLog, error)
	listExpensesFn        func(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	listIncomesFn         func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	listTransactionLogsFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionLog], error)
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

func (m *mockLedgerService) RecordExpense(userID uint, amount decimal.Decimal, categoryID uint, date time.Time) (*models.Expense, error) {
	if m.recordExpenseFn != nil {
		return m.recordExpenseFn(userID, amount, categoryID, date)
	}
	return &models.Expense{}, nil
}

func (m *mockLedgerService) AddMonthlyIncome(userID uint, amount decimal.Decimal, source string) (*models.Income, error) {
	if m.addMonthlyIncomeFn != nil {
		return m.addMonthlyIncomeFn(userID, amount, source)
	}
	return &models.Income{}, nil
}

func (m *mockLedgerService) CloseMonth(userID uint, closingDate time.Time) (*models.TransactionLog, error) {
	if m.closeMonthFn != nil {
		return m.closeMonthFn(userID, closingDate)
	}
	return &models.TransactionLog{}, nil
}

func (m *mockLedgerService) ListExpenses(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse[models.Expense](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedgerService) ListIncomes(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	if m.listIncomesFn != nil {
		return m.listIncomesFn(userID, page)
	}
	resp := pagination.NewPageResponse[models.Income](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedgerService) ListTransactionLogs(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionLog], error) {
	if m.listTransactionLogsFn != nil {
		return m.listTransactionLogsFn(userID, page)
	}
	resp := pagination.NewPageResponse[models.TransactionLog](nil, 1, 20, 0)
	return &resp, nil
}

type mockFinanceReportService struct {
	budgetStatusFn     func(year int, month time.Month) ([]services.BudgetStatus, error)
	userBudgetStatusFn func(userID uint, year int, month time.Month) (*services.BudgetStatus, error)
	categoryTotalsFn   func(year int, month time.Month, userID *uint) ([]services.CategoryTotal, error)
	spendRatioFn       func(userID uint, year int, month time.Month) (*services.SpendRatio, error)
	spendRatiosFn      func(year int, month time.Month) ([]services.SpendRatio, error)
}

var _ services.FinanceReportServicer = (*mockFinanceReportService)(nil)

func (m *mockFinanceReportService) BudgetStatus(year int, month time.Month) ([]services.BudgetStatus, error) {
	if m.budgetStatusFn != nil {
		return m.budgetStatusFn(year, month)
	}
	return []services.BudgetStatus{}, nil
}

func (m *mockFinanceReportService) UserBudgetStatus(userID uint, year int, month time.Month) (*services.BudgetStatus, error) {
	if m.userBudgetStatusFn != nil {
		return m.userBudgetStatusFn(userID, year, month)
	}
	return &services.BudgetStatus{}, nil
}

func (m *mockFinanceReportService) CategoryTotals(year int, month time.Month, userID *uint) ([]services.CategoryTotal, error) {
	if m.categoryTotalsFn != nil {
		return m.categoryTotalsFn(year, month, userID)
	}
	return []services.CategoryTotal{}, nil
}

func (m *mockFinanceReportService) SpendRatio(userID uint, year int, month time.Month) (*services.SpendRatio, error) {
	if m.spendRatioFn != nil {
		return m.spendRatioFn(userID, year, month)
	}
	return &services.SpendRatio{}, nil
}

func (m *mockFinanceReportService) SpendRatios(year int, month time.Month) ([]services.SpendRatio, error) {
	if m.spendRatiosFn != nil {
		return m.spendRatiosFn(year, month)
	}
	return []services.SpendRatio{}, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
