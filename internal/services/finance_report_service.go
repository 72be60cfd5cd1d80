package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
)

var hundred = decimal.NewFromInt(100)

// financeReportService computes read-only budget reports over calendar months.
type financeReportService struct {
	db *gorm.DB
}

// NewFinanceReportService creates a new FinanceReportServicer.
func NewFinanceReportService(db *gorm.DB) FinanceReportServicer {
	return &financeReportService{db: db}
}

func validMonth(year int, month time.Month) error {
	if year < 1 || month < time.January || month > time.December {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year and month must name a calendar month")
	}
	return nil
}

type userMonthSum struct {
	UserID uint
	Total  decimal.Decimal
}

// monthTotals sums amount per user over [start, end) for the given table.
func (s *financeReportService) monthTotals(model interface{}, start, end time.Time) (map[uint]decimal.Decimal, error) {
	var rows []userMonthSum
	if err := s.db.Model(model).
		Select("user_id, COALESCE(SUM(amount), 0) AS total").
		Where("date >= ? AND date < ?", start, end).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[uint]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[r.UserID] = r.Total.Round(2)
	}
	return totals, nil
}

// BudgetStatus reports every user's spending against budget for a month,
// ordered by user id.
func (s *financeReportService) BudgetStatus(year int, month time.Month) ([]BudgetStatus, error) {
	if err := validMonth(year, month); err != nil {
		return nil, err
	}
	start, end := clock.Month(year, month)

	var users []models.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	spent, err := s.monthTotals(&models.Expense{}, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]BudgetStatus, 0, len(users))
	for _, u := range users {
		rows = append(rows, budgetStatusOf(u, year, month, spent[u.ID]))
	}
	return rows, nil
}

// UserBudgetStatus reports one user's spending against budget for a month.
func (s *financeReportService) UserBudgetStatus(userID uint, year int, month time.Month) (*BudgetStatus, error) {
	if err := validMonth(year, month); err != nil {
		return nil, err
	}
	start, end := clock.Month(year, month)

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound)
	}
	spent, err := sumAmount(s.db.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end))
	if err != nil {
		return nil, err
	}

	status := budgetStatusOf(user, year, month, spent)
	return &status, nil
}

func budgetStatusOf(u models.User, year int, month time.Month, spent decimal.Decimal) BudgetStatus {
	budget := u.MonthlyBudget.Round(2)
	return BudgetStatus{
		UserID:           u.ID,
		UserName:         u.Name,
		Year:             year,
		Month:            int(month),
		MonthlyBudget:    budget,
		Spent:            spent,
		BalanceRemaining: budget.Sub(spent),
	}
}

// CategoryTotals sums expenses per category for a month, optionally for one
// user, ordered by total descending then category id.
func (s *financeReportService) CategoryTotals(year int, month time.Month, userID *uint) ([]CategoryTotal, error) {
	if err := validMonth(year, month); err != nil {
		return nil, err
	}
	start, end := clock.Month(year, month)

	q := s.db.Table("expenses").
		Select("expenses.category_id AS category_id, categories.name AS category_name, COALESCE(SUM(expenses.amount), 0) AS total").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.date >= ? AND expenses.date < ?", start, end)
	if userID != nil {
		var user models.User
		if err := s.db.Select("id").First(&user, *userID).Error; err != nil {
			return nil, lookupError(err, apperrors.ErrUserNotFound)
		}
		q = q.Where("expenses.user_id = ?", *userID)
	}

	rows := []CategoryTotal{}
	if err := q.Group("expenses.category_id, categories.name").
		Order("total DESC, expenses.category_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, nil
}

// SpendRatio returns expense as a percentage of income for a user and month.
// It fails with ErrDivisionUndefined when the user had no income.
func (s *financeReportService) SpendRatio(userID uint, year int, month time.Month) (*SpendRatio, error) {
	if err := validMonth(year, month); err != nil {
		return nil, err
	}
	start, end := clock.Month(year, month)

	var user models.User
	if err := s.db.Select("id").First(&user, userID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound)
	}

	income, err := sumAmount(s.db.Model(&models.Income{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end))
	if err != nil {
		return nil, err
	}
	expense, err := sumAmount(s.db.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end))
	if err != nil {
		return nil, err
	}

	ratio := spendRatioOf(userID, year, month, income, expense)
	if ratio.Ratio == nil {
		return nil, apperrors.ErrDivisionUndefined
	}
	return &ratio, nil
}

// SpendRatios lists the spend ratio of every user for a month, ordered by
// user id. Users without income get a nil ratio.
func (s *financeReportService) SpendRatios(year int, month time.Month) ([]SpendRatio, error) {
	if err := validMonth(year, month); err != nil {
		return nil, err
	}
	start, end := clock.Month(year, month)

	var users []models.User
	if err := s.db.Select("id").Order("id ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	incomes, err := s.monthTotals(&models.Income{}, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.monthTotals(&models.Expense{}, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]SpendRatio, 0, len(users))
	for _, u := range users {
		rows = append(rows, spendRatioOf(u.ID, year, month, incomes[u.ID], expenses[u.ID]))
	}
	return rows, nil
}

func spendRatioOf(userID uint, year int, month time.Month, income, expense decimal.Decimal) SpendRatio {
	r := SpendRatio{
		UserID:  userID,
		Year:    year,
		Month:   int(month),
		Income:  income,
		Expense: expense,
	}
	if !income.IsZero() {
		ratio := expense.Mul(hundred).DivRound(income, 2)
		r.Ratio = &ratio
	}
	return r
}
