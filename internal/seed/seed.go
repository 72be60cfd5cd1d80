// Package seed loads a small demonstration dataset through the services, so
// every row obeys the same rules as API traffic.
package seed

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/services"
)

// ErrNotEmpty is returned when the store already holds data.
var ErrNotEmpty = errors.New("database already contains data")

// Summary counts what Run created.
type Summary struct {
	Authors    int
	Books      int
	Members    int
	Loans      int
	Users      int
	Categories int
	Incomes    int
	Expenses   int
}

type bookSeed struct {
	title   string
	genre   string
	year    int
	authors []int
}

var (
	authorSeeds = []struct {
		name string
		born int
	}{
		{"Ursula K. Le Guin", 1929},
		{"Terry Pratchett", 1948},
		{"Neil Gaiman", 1960},
	}
	bookSeeds = []bookSeed{
		{"A Wizard of Earthsea", "Fantasy", 1968, []int{0}},
		{"The Dispossessed", "Science Fiction", 1974, []int{0}},
		{"Good Omens", "Fantasy", 1990, []int{1, 2}},
		{"Guards! Guards!", "Fantasy", 1989, []int{1}},
	}
	memberSeeds = []struct{ name, email string }{
		{"Ada Lovelace", "ada@example.com"},
		{"Alan Turing", "alan@example.com"},
		{"Grace Hopper", "grace.library@example.com"},
	}
	categorySeeds = []string{"Groceries", "Rent", "Transport"}
)

// Run creates authors, books, members and loans, then finance users with
// incomes and expenses in the current month. It refuses to touch a store
// that already has authors or users.
func Run(db *gorm.DB, clk clock.Clock) (*Summary, error) {
	log := logger.For("seed")

	var existing int64
	for _, model := range []interface{}{&models.Author{}, &models.User{}} {
		if err := db.Model(model).Count(&existing).Error; err != nil {
			return nil, fmt.Errorf("check existing data: %w", err)
		}
		if existing > 0 {
			return nil, ErrNotEmpty
		}
	}

	sum := &Summary{}
	if err := seedLibrary(db, clk, sum); err != nil {
		return nil, err
	}
	if err := seedFinance(db, clk, sum); err != nil {
		return nil, err
	}

	log.Infow("seed complete",
		"authors", sum.Authors,
		"books", sum.Books,
		"members", sum.Members,
		"loans", sum.Loans,
		"users", sum.Users,
		"expenses", sum.Expenses,
	)
	return sum, nil
}

func seedLibrary(db *gorm.DB, clk clock.Clock, sum *Summary) error {
	catalog := services.NewCatalogService(db)
	members := services.NewMemberService(db, clk)
	loans := services.NewLoanService(db, clk, services.DefaultLoanPolicy())
	today := clock.Today(clk)

	authorIDs := make([]uint, 0, len(authorSeeds))
	for _, a := range authorSeeds {
		author, err := catalog.CreateAuthor(a.name, a.born)
		if err != nil {
			return fmt.Errorf("create author %q: %w", a.name, err)
		}
		authorIDs = append(authorIDs, author.ID)
		sum.Authors++
	}

	bookIDs := make([]uint, 0, len(bookSeeds))
	for _, b := range bookSeeds {
		ids := make([]uint, 0, len(b.authors))
		for _, i := range b.authors {
			ids = append(ids, authorIDs[i])
		}
		book, err := catalog.CreateBook(b.title, b.genre, b.year, ids)
		if err != nil {
			return fmt.Errorf("create book %q: %w", b.title, err)
		}
		bookIDs = append(bookIDs, book.ID)
		sum.Books++
	}

	memberIDs := make([]uint, 0, len(memberSeeds))
	for _, m := range memberSeeds {
		member, err := members.CreateMember(m.name, m.email, clock.AddDays(today, -90))
		if err != nil {
			return fmt.Errorf("create member %q: %w", m.name, err)
		}
		memberIDs = append(memberIDs, member.ID)
		sum.Members++
	}

	// One returned loan, one overdue loan and one current loan.
	returned, err := loans.CheckoutBook(bookIDs[0], memberIDs[0], clock.AddDays(today, -40))
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if _, err := loans.ReturnBook(returned.ID, clock.AddDays(today, -30)); err != nil {
		return fmt.Errorf("return: %w", err)
	}
	if _, err := loans.CheckoutBook(bookIDs[2], memberIDs[1], clock.AddDays(today, -20)); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if _, err := loans.CheckoutBook(bookIDs[0], memberIDs[0], clock.AddDays(today, -3)); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	sum.Loans = 3
	return nil
}

func seedFinance(db *gorm.DB, clk clock.Clock, sum *Summary) error {
	users := services.NewUserService(db)
	categories := services.NewCategoryService(db)
	ledger := services.NewLedgerService(db, clk, services.DefaultBudgetGrowthRate)
	today := clock.Today(clk)

	categoryIDs := make([]uint, 0, len(categorySeeds))
	for _, name := range categorySeeds {
		c, err := categories.CreateCategory(name)
		if err != nil {
			return fmt.Errorf("create category %q: %w", name, err)
		}
		categoryIDs = append(categoryIDs, c.ID)
		sum.Categories++
	}

	grace, err := users.CreateUser("Grace Hopper", "grace@example.com", decimal.NewFromInt(15000))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	linus, err := users.CreateUser("Linus Pauling", "linus@example.com", decimal.NewFromInt(2000))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	sum.Users = 2

	if _, err := ledger.AddMonthlyIncome(grace.ID, decimal.NewFromInt(5000), "Salary"); err != nil {
		return fmt.Errorf("add income: %w", err)
	}
	sum.Incomes++

	expenses := []struct {
		user     uint
		category uint
		amount   string
	}{
		{grace.ID, categoryIDs[1], "4200.00"},
		{grace.ID, categoryIDs[0], "312.45"},
		{linus.ID, categoryIDs[0], "150.00"},
		{linus.ID, categoryIDs[2], "64.20"},
	}
	for _, e := range expenses {
		if _, err := ledger.RecordExpense(e.user, decimal.RequireFromString(e.amount), e.category, today); err != nil {
			return fmt.Errorf("record expense: %w", err)
		}
		sum.Expenses++
	}
	return nil
}
