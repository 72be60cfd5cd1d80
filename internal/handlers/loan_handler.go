package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/services"
)

// LoanHandler handles checkout, renewal and return of books.
type LoanHandler struct {
	loans services.LoanServicer
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loans services.LoanServicer) *LoanHandler {
	return &LoanHandler{loans: loans}
}

// CheckoutRequest represents the request payload for lending a book.
type CheckoutRequest struct {
	BookID   uint   `json:"book_id" binding:"required"`
	MemberID uint   `json:"member_id" binding:"required"`
	LoanDate string `json:"loan_date" binding:"omitempty,date_only"`
}

// ReturnRequest represents the optional payload for returning a book.
type ReturnRequest struct {
	ReturnDate string `json:"return_date" binding:"omitempty,date_only"`
}

// AvailabilityResponse reports whether a book can be checked out.
type AvailabilityResponse struct {
	BookID    uint `json:"book_id"`
	Available bool `json:"available"`
}

// CheckoutBook handles lending a book to a member.
// @Summary     Check out a book
// @Description Lend an available book; the due date follows the loan period
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CheckoutRequest true "Checkout details"
// @Success     201 {object} models.Loan "Loan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Book or member not found"
// @Failure     409 {object} ErrorResponse "Book is on loan"
// @Router      /library/loans [post]
func (h *LoanHandler) CheckoutBook(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	loanDate, err := parseDate(req.LoanDate, "loan_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	loan, err := h.loans.CheckoutBook(req.BookID, req.MemberID, loanDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"loan": loan})
}

// GetLoan handles retrieving a loan.
// @Summary     Get loan by ID
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Loan ID"
// @Success     200 {object} models.Loan "Loan details"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Router      /library/loans/{id} [get]
func (h *LoanHandler) GetLoan(c *gin.Context) {
	loanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	loan, err := h.loans.GetLoanByID(loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// RenewLoan handles extending a loan's due date.
// @Summary     Renew a loan
// @Description Extend an outstanding loan that is not yet overdue
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Loan ID"
// @Success     200 {object} models.Loan "Renewed loan"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Failure     409 {object} ErrorResponse "Loan returned or overdue"
// @Router      /library/loans/{id}/renew [post]
func (h *LoanHandler) RenewLoan(c *gin.Context) {
	loanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	loan, err := h.loans.RenewLoan(loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// ReturnBook handles closing a loan.
// @Summary     Return a book
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true  "Loan ID"
// @Param       request body ReturnRequest false "Return date (defaults to today)"
// @Success     200 {object} models.Loan "Returned loan"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Failure     409 {object} ErrorResponse "Loan already returned"
// @Router      /library/loans/{id}/return [post]
func (h *LoanHandler) ReturnBook(c *gin.Context) {
	loanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReturnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	returnDate, err := parseDate(req.ReturnDate, "return_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	loan, err := h.loans.ReturnBook(loanID, returnDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// GetLoanAudits handles listing the audit trail of a loan.
// @Summary     Loan audit trail
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Loan ID"
// @Success     200 {array} models.LoanAudit "Audit records"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Router      /library/loans/{id}/audits [get]
func (h *LoanHandler) GetLoanAudits(c *gin.Context) {
	loanID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	audits, err := h.loans.GetLoanAudits(loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": audits})
}

// GetBookAvailability handles checking whether a book is on loan.
// @Summary     Book availability
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Book ID"
// @Success     200 {object} AvailabilityResponse "Availability"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Router      /library/books/{id}/availability [get]
func (h *LoanHandler) GetBookAvailability(c *gin.Context) {
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	available, err := h.loans.IsBookAvailable(bookID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{BookID: bookID, Available: available})
}
