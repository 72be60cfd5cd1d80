package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/export"
	"bookkeeper/internal/services"
)

const defaultTopMembers = 10

// LibraryReportHandler serves the lending reports.
type LibraryReportHandler struct {
	reports services.LibraryReportServicer
}

// NewLibraryReportHandler creates a new LibraryReportHandler.
func NewLibraryReportHandler(reports services.LibraryReportServicer) *LibraryReportHandler {
	return &LibraryReportHandler{reports: reports}
}

// GetOverdueLoans handles the overdue-loan report.
// @Summary     Overdue loans
// @Description Outstanding loans past their due date; format=xlsx returns a workbook
// @Tags        library-reports
// @Produce     json
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       format query string false "xlsx for a spreadsheet"
// @Success     200 {array} services.OverdueLoan "Overdue loans"
// @Router      /library/reports/overdue [get]
func (h *LibraryReportHandler) GetOverdueLoans(c *gin.Context) {
	rows, err := h.reports.OverdueLoans()
	if err != nil {
		respondWithError(c, err)
		return
	}

	if wantsXLSX(c) {
		var buf bytes.Buffer
		if err := export.WriteOverdueLoans(&buf, rows); err != nil {
			respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="overdue-loans.xlsx"`)
		c.Data(http.StatusOK, export.ContentType, buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": rows})
}

// GetWeeklyOverdue handles the per-member weekly overdue summary.
// @Summary     Weekly overdue summary
// @Tags        library-reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.WeeklyOverdueCount "Counts by member and ISO week"
// @Router      /library/reports/overdue/weekly [get]
func (h *LibraryReportHandler) GetWeeklyOverdue(c *gin.Context) {
	rows, err := h.reports.WeeklyOverdueSummary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"weeks": rows})
}

// GetTopMembers handles ranking members by loan count.
// @Summary     Top borrowers
// @Tags        library-reports
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of members (default 10)"
// @Success     200 {array} services.MemberLoanCount "Members by loan count"
// @Failure     400 {object} ErrorResponse "Invalid limit"
// @Router      /library/reports/top-members [get]
func (h *LibraryReportHandler) GetTopMembers(c *gin.Context) {
	limit := defaultTopMembers
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("limit must be between 1 and 100, got %q", v)))
			return
		}
		limit = n
	}

	rows, err := h.reports.TopMembers(limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": rows})
}

// GetRunningTotals handles the per-member running loan count.
// @Summary     Running loan totals
// @Tags        library-reports
// @Produce     json
// @Security    BearerAuth
// @Param       member_id query int false "Restrict to one member"
// @Success     200 {array} services.MemberLoanRunningTotal "Loans with running counts"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /library/reports/running-totals [get]
func (h *LibraryReportHandler) GetRunningTotals(c *gin.Context) {
	memberID, err := parseOptionalID(c, "member_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.reports.MemberLoanRunningTotals(memberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": rows})
}
