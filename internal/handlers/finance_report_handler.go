package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/export"
	"bookkeeper/internal/services"
)

// FinanceReportHandler serves the monthly budget reports.
type FinanceReportHandler struct {
	reports services.FinanceReportServicer
}

// NewFinanceReportHandler creates a new FinanceReportHandler.
func NewFinanceReportHandler(reports services.FinanceReportServicer) *FinanceReportHandler {
	return &FinanceReportHandler{reports: reports}
}

// GetBudgetStatus handles the all-users budget status for a month.
// @Summary     Budget status
// @Description Spending against budget per user; format=xlsx returns a workbook
// @Tags        finance-reports
// @Produce     json
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       year   query int    true  "Year"
// @Param       month  query int    true  "Month (1-12)"
// @Param       format query string false "xlsx for a spreadsheet"
// @Success     200 {array} services.BudgetStatus "Budget status by user"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Router      /finance/reports/budget-status [get]
func (h *FinanceReportHandler) GetBudgetStatus(c *gin.Context) {
	q, err := bindMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.reports.BudgetStatus(q.Year, time.Month(q.Month))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if wantsXLSX(c) {
		var buf bytes.Buffer
		if err := export.WriteBudgetStatus(&buf, rows); err != nil {
			respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		filename := fmt.Sprintf("budget-status-%04d-%02d.xlsx", q.Year, q.Month)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, export.ContentType, buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": rows})
}

// GetUserBudgetStatus handles one user's budget status for a month.
// @Summary     User budget status
// @Tags        finance-reports
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int true "User ID"
// @Param       year  query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} services.BudgetStatus "Budget status"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id}/budget-status [get]
func (h *FinanceReportHandler) GetUserBudgetStatus(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	q, err := bindMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.reports.UserBudgetStatus(userID, q.Year, time.Month(q.Month))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// GetCategoryTotals handles expense totals per category for a month.
// @Summary     Category totals
// @Tags        finance-reports
// @Produce     json
// @Security    BearerAuth
// @Param       year    query int true  "Year"
// @Param       month   query int true  "Month (1-12)"
// @Param       user_id query int false "Restrict to one user"
// @Success     200 {array} services.CategoryTotal "Totals by category"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/reports/category-totals [get]
func (h *FinanceReportHandler) GetCategoryTotals(c *gin.Context) {
	q, err := bindMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	userID, err := parseOptionalID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.reports.CategoryTotals(q.Year, time.Month(q.Month), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": rows})
}

// GetSpendRatio handles one user's expense-to-income ratio for a month.
// @Summary     Spend ratio
// @Description Expense as a percentage of income; 422 DIVISION_UNDEFINED without income
// @Tags        finance-reports
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int true "User ID"
// @Param       year  query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} services.SpendRatio "Spend ratio"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     422 {object} ErrorResponse "No income that month"
// @Router      /finance/users/{id}/spend-ratio [get]
func (h *FinanceReportHandler) GetSpendRatio(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	q, err := bindMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ratio, err := h.reports.SpendRatio(userID, q.Year, time.Month(q.Month))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ratio": ratio})
}

// GetSpendRatios handles every user's spend ratio for a month.
// @Summary     Spend ratios
// @Tags        finance-reports
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {array} services.SpendRatio "Ratios by user; null when undefined"
// @Router      /finance/reports/spend-ratios [get]
func (h *FinanceReportHandler) GetSpendRatios(c *gin.Context) {
	q, err := bindMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.reports.SpendRatios(q.Year, time.Month(q.Month))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": rows})
}
