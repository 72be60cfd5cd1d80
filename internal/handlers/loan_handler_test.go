package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
)

func setupLoanRouter(handler *LoanHandler) *gin.Engine {
	r := gin.New()
	r.POST("/loans", handler.CheckoutBook)
	r.GET("/loans/:id", handler.GetLoan)
	r.POST("/loans/:id/renew", handler.RenewLoan)
	r.POST("/loans/:id/return", handler.ReturnBook)
	r.GET("/loans/:id/audits", handler.GetLoanAudits)
	r.GET("/books/:id/availability", handler.GetBookAvailability)
	return r
}

func TestLoanHandler_CheckoutBook(t *testing.T) {
	t.Run("returns 201 with the due date", func(t *testing.T) {
		loans := &mockLoanService{
			checkoutBookFn: func(bookID, memberID uint, loanDate time.Time) (*models.Loan, error) {
				return &models.Loan{
					Base:     models.Base{ID: 11},
					BookID:   bookID,
					MemberID: memberID,
					LoanDate: loanDate,
					DueDate:  loanDate.AddDate(0, 0, 14),
				}, nil
			},
		}
		r := setupLoanRouter(NewLoanHandler(loans))

		rec := doRequest(r, "POST", "/loans", `{"book_id":1,"member_id":2,"loan_date":"2024-01-10"}`)

		assertStatus(t, rec, http.StatusCreated)
		loan := parseJSON(t, rec)["loan"].(map[string]interface{})
		if loan["due_date"] != "2024-01-24T00:00:00Z" {
			t.Errorf("expected due date 2024-01-24, got %v", loan["due_date"])
		}
	})

	t.Run("returns 409 when the book is on loan", func(t *testing.T) {
		loans := &mockLoanService{
			checkoutBookFn: func(uint, uint, time.Time) (*models.Loan, error) {
				return nil, apperrors.ErrBookUnavailable
			},
		}
		r := setupLoanRouter(NewLoanHandler(loans))

		rec := doRequest(r, "POST", "/loans", `{"book_id":1,"member_id":2}`)

		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "BOOK_UNAVAILABLE")
	})

	t.Run("returns 400 without a member", func(t *testing.T) {
		r := setupLoanRouter(NewLoanHandler(&mockLoanService{}))

		rec := doRequest(r, "POST", "/loans", `{"book_id":1}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestLoanHandler_RenewLoan(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"overdue", apperrors.ErrLoanOverdue, http.StatusConflict, "LOAN_OVERDUE"},
		{"returned", apperrors.ErrLoanAlreadyReturned, http.StatusConflict, "LOAN_ALREADY_RETURNED"},
		{"missing", apperrors.ErrLoanNotFound, http.StatusNotFound, "LOAN_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loans := &mockLoanService{
				renewLoanFn: func(uint) (*models.Loan, error) { return nil, tt.err },
			}
			r := setupLoanRouter(NewLoanHandler(loans))

			rec := doRequest(r, "POST", "/loans/1/renew", "")

			assertStatus(t, rec, tt.wantStatus)
			assertErrorCode(t, parseJSON(t, rec), tt.wantCode)
		})
	}
}

func TestLoanHandler_ReturnBook(t *testing.T) {
	t.Run("empty body returns today", func(t *testing.T) {
		var gotDate time.Time
		loans := &mockLoanService{
			returnBookFn: func(loanID uint, returnDate time.Time) (*models.Loan, error) {
				gotDate = returnDate
				return &models.Loan{Base: models.Base{ID: loanID}}, nil
			},
		}
		r := setupLoanRouter(NewLoanHandler(loans))

		rec := doRequest(r, "POST", "/loans/3/return", "")

		assertStatus(t, rec, http.StatusOK)
		if !gotDate.IsZero() {
			t.Errorf("expected zero date so the service uses today, got %v", gotDate)
		}
	})

	t.Run("explicit return date", func(t *testing.T) {
		var gotDate time.Time
		loans := &mockLoanService{
			returnBookFn: func(_ uint, returnDate time.Time) (*models.Loan, error) {
				gotDate = returnDate
				return &models.Loan{}, nil
			},
		}
		r := setupLoanRouter(NewLoanHandler(loans))

		rec := doRequest(r, "POST", "/loans/3/return", `{"return_date":"2024-02-01"}`)

		assertStatus(t, rec, http.StatusOK)
		if gotDate.Format(time.DateOnly) != "2024-02-01" {
			t.Errorf("expected 2024-02-01, got %v", gotDate)
		}
	})

	t.Run("second return is rejected", func(t *testing.T) {
		loans := &mockLoanService{
			returnBookFn: func(uint, time.Time) (*models.Loan, error) {
				return nil, apperrors.ErrLoanAlreadyReturned
			},
		}
		r := setupLoanRouter(NewLoanHandler(loans))

		rec := doRequest(r, "POST", "/loans/3/return", "")

		assertStatus(t, rec, http.StatusConflict)
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "LOAN_ALREADY_RETURNED")
		if msg := result["error"].(map[string]interface{})["message"]; msg != "already returned" {
			t.Errorf("expected message %q, got %v", "already returned", msg)
		}
	})
}

func TestLoanHandler_GetLoanAudits(t *testing.T) {
	loans := &mockLoanService{
		getLoanAuditsFn: func(loanID uint) ([]models.LoanAudit, error) {
			return []models.LoanAudit{{ID: 1, LoanID: loanID, Action: models.LoanAuditActionReturned}}, nil
		},
	}
	r := setupLoanRouter(NewLoanHandler(loans))

	rec := doRequest(r, "GET", "/loans/6/audits", "")

	assertStatus(t, rec, http.StatusOK)
	audits := parseJSON(t, rec)["audits"].([]interface{})
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit, got %d", len(audits))
	}
	if audits[0].(map[string]interface{})["action"] != "Book Returned" {
		t.Errorf("unexpected audit %v", audits[0])
	}
}

func TestLoanHandler_GetBookAvailability(t *testing.T) {
	loans := &mockLoanService{
		isBookAvailableFn: func(uint) (bool, error) { return false, nil },
	}
	r := setupLoanRouter(NewLoanHandler(loans))

	rec := doRequest(r, "GET", "/books/2/availability", "")

	assertStatus(t, rec, http.StatusOK)
	result := parseJSON(t, rec)
	if result["available"] != false || result["book_id"] != float64(2) {
		t.Errorf("unexpected availability %v", result)
	}
}
