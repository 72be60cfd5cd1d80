package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/pagination"
	"bookkeeper/internal/services"
)

// LedgerHandler handles a user's incomes, expenses and month closing.
type LedgerHandler struct {
	ledger services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// RecordExpenseRequest represents the request payload for recording an expense.
type RecordExpenseRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"gt=0"`
	CategoryID uint            `json:"category_id" binding:"required"`
	Date       string          `json:"date" binding:"omitempty,date_only"`
}

// AddIncomeRequest represents the request payload for adding an income.
type AddIncomeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"gt=0"`
	Source string          `json:"source" binding:"omitempty,max=200"`
}

// CloseMonthRequest represents the optional payload for closing a month.
type CloseMonthRequest struct {
	ClosingDate string `json:"closing_date" binding:"omitempty,date_only"`
}

// RecordExpense handles booking an expense against the monthly budget.
// @Summary     Record an expense
// @Description Rejected with BUDGET_EXCEEDED when the month's spending would pass the budget
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "User ID"
// @Param       request body RecordExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User or category not found"
// @Failure     422 {object} ErrorResponse "Budget exceeded"
// @Router      /finance/users/{id}/expenses [post]
func (h *LedgerHandler) RecordExpense(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.ledger.RecordExpense(userID, req.Amount, req.CategoryID, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing a user's expenses.
// @Summary     List expenses
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  int    true  "User ID"
// @Param       from_date   query string false "Start date (YYYY-MM-DD)"
// @Param       to_date     query string false "End date, inclusive (YYYY-MM-DD)"
// @Param       category_id query int    false "Filter by category"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id}/expenses [get]
func (h *LedgerHandler) GetExpenses(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ExpenseFilter
	if v := c.Query("from_date"); v != "" {
		from, err := parseDate(v, "from_date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &from
	}
	if v := c.Query("to_date"); v != "" {
		to, err := parseDate(v, "to_date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.ToDate = &to
	}
	if filter.CategoryID, err = parseOptionalID(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledger.ListExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddIncome handles recording an income and growing the budget.
// @Summary     Add monthly income
// @Description Records an income dated today and raises the monthly budget by a share of it
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "User ID"
// @Param       request body AddIncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id}/incomes [post]
func (h *LedgerHandler) AddIncome(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	income, err := h.ledger.AddMonthlyIncome(userID, req.Amount, req.Source)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// GetIncomes handles listing a user's incomes.
// @Summary     List incomes
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "User ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Income] "Paginated incomes"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id}/incomes [get]
func (h *LedgerHandler) GetIncomes(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledger.ListIncomes(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CloseMonth handles logging a month's income and expense totals.
// @Summary     Close a month
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true  "User ID"
// @Param       request body CloseMonthRequest false "Closing date (defaults to today)"
// @Success     201 {object} models.TransactionLog "Closing log entry"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id}/close-month [post]
func (h *LedgerHandler) CloseMonth(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CloseMonthRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	closingDate, err := parseDate(req.ClosingDate, "closing_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.ledger.CloseMonth(userID, closingDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"log": entry})
}

// GetTransactionLogs handles listing a user's ledger audit trail.
// @Summary     Transaction log
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "User ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.TransactionLog] "Paginated log entries"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id}/logs [get]
func (h *LedgerHandler) GetTransactionLogs(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledger.ListTransactionLogs(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
