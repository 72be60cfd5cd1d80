package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	"bookkeeper/internal/database"
	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/metrics"
	"bookkeeper/internal/models"
	"bookkeeper/internal/pagination"
)

// DefaultBudgetGrowthRate is the share of each income added to the budget.
var DefaultBudgetGrowthRate = decimal.NewFromFloat(0.2)

// ledgerService enforces the budget rules. Writes hold a row lock on the
// user so concurrent expenses cannot both pass the monthly check.
type ledgerService struct {
	db         *gorm.DB
	clock      clock.Clock
	growthRate decimal.Decimal
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, clk clock.Clock, growthRate decimal.Decimal) LedgerServicer {
	return &ledgerService{db: db, clock: clk, growthRate: growthRate}
}

// RecordExpense books an expense if it keeps the user's spending for the
// month of date within the monthly budget. A zero date means today.
func (s *ledgerService) RecordExpense(userID uint, amount decimal.Decimal, categoryID uint, date time.Time) (*models.Expense, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be at least 0.01")
	}
	if date.IsZero() {
		date = clock.Today(s.clock)
	}
	date = clock.Date(date)
	start, end := clock.MonthBounds(date)

	var expense *models.Expense
	var spent decimal.Decimal
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(forUpdate).First(&user, userID).Error; err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}

		var category models.Category
		if err := tx.Select("id", "name").First(&category, categoryID).Error; err != nil {
			return lookupError(err, apperrors.ErrCategoryNotFound)
		}

		var err error
		spent, err = sumAmount(tx.Model(&models.Expense{}).
			Where("user_id = ? AND date >= ? AND date < ?", userID, start, end))
		if err != nil {
			return err
		}
		if spent.Add(amount).GreaterThan(user.MonthlyBudget) {
			return reject(apperrors.ErrBudgetExceeded)
		}

		expense = &models.Expense{
			UserID:     userID,
			Amount:     amount,
			CategoryID: categoryID,
			Date:       date,
		}
		if err := tx.Omit("Category").Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		expense.Category = &category

		return s.appendLog(tx, userID, "Expense: "+amount.StringFixed(2), amount)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindBudgetExceeded {
			logger.For("ledger").Infow("expense rejected",
				"user_id", userID,
				"amount", amount.StringFixed(2),
				"month", date.Format("2006-01"),
			)
		}
		return nil, err
	}

	metrics.LedgerEvents.WithLabelValues("expense").Inc()
	logger.For("ledger").Infow("expense recorded",
		"expense_id", expense.ID,
		"user_id", userID,
		"amount", amount.StringFixed(2),
		"spent", spent.Add(amount).StringFixed(2),
	)
	return expense, nil
}

// AddMonthlyIncome records an income dated today and raises the user's
// monthly budget by the configured share of it.
func (s *ledgerService) AddMonthlyIncome(userID uint, amount decimal.Decimal, source string) (*models.Income, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be at least 0.01")
	}

	var income *models.Income
	var budget decimal.Decimal
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(forUpdate).First(&user, userID).Error; err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}

		income = &models.Income{
			UserID: userID,
			Amount: amount,
			Source: strings.TrimSpace(source),
			Date:   clock.Today(s.clock),
		}
		if err := tx.Create(income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget = user.MonthlyBudget.Add(amount.Mul(s.growthRate)).Round(2)
		if err := tx.Model(&user).Update("monthly_budget", budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.appendLog(tx, userID, "Income: "+amount.StringFixed(2), amount)
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerEvents.WithLabelValues("income").Inc()
	logger.For("ledger").Infow("income added",
		"income_id", income.ID,
		"user_id", userID,
		"amount", amount.StringFixed(2),
		"monthly_budget", budget.StringFixed(2),
	)
	return income, nil
}

// CloseMonth logs the income and expense totals for the month containing
// closingDate. A zero closingDate means today.
func (s *ledgerService) CloseMonth(userID uint, closingDate time.Time) (*models.TransactionLog, error) {
	if closingDate.IsZero() {
		closingDate = clock.Today(s.clock)
	}
	start, end := clock.MonthBounds(closingDate)

	var entry *models.TransactionLog
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(forUpdate).First(&user, userID).Error; err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}

		income, err := sumAmount(tx.Model(&models.Income{}).
			Where("user_id = ? AND date >= ? AND date < ?", userID, start, end))
		if err != nil {
			return err
		}
		expense, err := sumAmount(tx.Model(&models.Expense{}).
			Where("user_id = ? AND date >= ? AND date < ?", userID, start, end))
		if err != nil {
			return err
		}

		action := fmt.Sprintf("Month Closed: Income=%s, Expense=%s", income.StringFixed(2), expense.StringFixed(2))
		entry = &models.TransactionLog{
			UserID:    userID,
			Action:    action,
			Amount:    decimal.Zero,
			Timestamp: s.clock.Now(),
		}
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerEvents.WithLabelValues("month_close").Inc()
	logger.For("ledger").Infow("month closed", "user_id", userID, "action", entry.Action)
	return entry, nil
}

func (s *ledgerService) appendLog(tx *gorm.DB, userID uint, action string, amount decimal.Decimal) error {
	entry := &models.TransactionLog{
		UserID:    userID,
		Action:    action,
		Amount:    amount,
		Timestamp: s.clock.Now(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *ledgerService) ensureUser(userID uint) error {
	var user models.User
	if err := s.db.Select("id").First(&user, userID).Error; err != nil {
		return lookupError(err, apperrors.ErrUserNotFound)
	}
	return nil
}

// ListExpenses retrieves a user's expenses with optional filters, newest first.
func (s *ledgerService) ListExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}

	q := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		q = q.Where("date >= ?", clock.Date(*filter.FromDate))
	}
	if filter.ToDate != nil {
		q = q.Where("date < ?", clock.AddDays(*filter.ToDate, 1))
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	return listPage[models.Expense](q, page, "date DESC, id DESC", "Category")
}

// ListIncomes retrieves a user's incomes, newest first.
func (s *ledgerService) ListIncomes(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	q := s.db.Model(&models.Income{}).Where("user_id = ?", userID)
	return listPage[models.Income](q, page, "date DESC, id DESC")
}

// ListTransactionLogs retrieves a user's ledger audit trail in write order.
func (s *ledgerService) ListTransactionLogs(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionLog], error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	q := s.db.Model(&models.TransactionLog{}).Where("user_id = ?", userID)
	return listPage[models.TransactionLog](q, page, "id ASC")
}
