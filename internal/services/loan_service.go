package services

import (
	"time"

	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	"bookkeeper/internal/database"
	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/metrics"
	"bookkeeper/internal/models"
)

// LoanPolicy holds the lending periods in days.
type LoanPolicy struct {
	LoanPeriodDays    int
	RenewalPeriodDays int
}

// DefaultLoanPolicy lends for 14 days and renews for 7.
func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{LoanPeriodDays: 14, RenewalPeriodDays: 7}
}

// loanService enforces the lending rules. Every check-then-write runs in one
// transaction holding a row lock on the guarded book or loan.
type loanService struct {
	db     *gorm.DB
	clock  clock.Clock
	policy LoanPolicy
}

// NewLoanService creates a new LoanServicer.
func NewLoanService(db *gorm.DB, clk clock.Clock, policy LoanPolicy) LoanServicer {
	return &loanService{db: db, clock: clk, policy: policy}
}

// CheckoutBook lends a book to a member. A zero loanDate means today.
func (s *loanService) CheckoutBook(bookID, memberID uint, loanDate time.Time) (*models.Loan, error) {
	if loanDate.IsZero() {
		loanDate = clock.Today(s.clock)
	}
	loanDate = clock.Date(loanDate)

	var loan *models.Loan
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Clauses(forUpdate).First(&book, bookID).Error; err != nil {
			return lookupError(err, apperrors.ErrBookNotFound)
		}

		var member models.Member
		if err := tx.First(&member, memberID).Error; err != nil {
			return lookupError(err, apperrors.ErrMemberNotFound)
		}

		available, err := bookAvailable(tx, bookID)
		if err != nil {
			return err
		}
		if !available {
			return reject(apperrors.ErrBookUnavailable)
		}

		loan = &models.Loan{
			BookID:   bookID,
			MemberID: memberID,
			LoanDate: loanDate,
			DueDate:  clock.AddDays(loanDate, s.policy.LoanPeriodDays),
		}
		if err := tx.Create(loan).Error; err != nil {
			// the partial unique index on open loans catches a racing checkout
			if isDuplicate(err) {
				return reject(apperrors.ErrBookUnavailable)
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LoanEvents.WithLabelValues("checkout").Inc()
	logger.For("loans").Infow("book checked out",
		"loan_id", loan.ID,
		"book_id", bookID,
		"member_id", memberID,
		"due_date", loan.DueDate.Format(time.DateOnly),
	)
	return loan, nil
}

// IsBookAvailable reports whether the book has no outstanding loan.
func (s *loanService) IsBookAvailable(bookID uint) (bool, error) {
	var book models.Book
	if err := s.db.Select("id").First(&book, bookID).Error; err != nil {
		return false, lookupError(err, apperrors.ErrBookNotFound)
	}
	return bookAvailable(s.db, bookID)
}

func bookAvailable(db *gorm.DB, bookID uint) (bool, error) {
	var open int64
	if err := db.Model(&models.Loan{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&open).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return open == 0, nil
}

// RenewLoan extends the due date of a timely, outstanding loan. The checks
// run in order and only the first failing one is reported.
func (s *loanService) RenewLoan(loanID uint) (*models.Loan, error) {
	today := clock.Today(s.clock)

	var loan models.Loan
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).First(&loan, loanID).Error; err != nil {
			return lookupError(err, apperrors.ErrLoanNotFound)
		}
		if !loan.IsOutstanding() {
			return reject(apperrors.ErrLoanAlreadyReturned)
		}
		if loan.IsOverdueOn(today) {
			return reject(apperrors.ErrLoanOverdue)
		}

		newDue := clock.AddDays(loan.DueDate, s.policy.RenewalPeriodDays)
		if err := tx.Model(&loan).Update("due_date", newDue).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		loan.DueDate = newDue
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LoanEvents.WithLabelValues("renew").Inc()
	logger.For("loans").Infow("loan renewed", "loan_id", loan.ID, "due_date", loan.DueDate.Format(time.DateOnly))
	return &loan, nil
}

// ReturnBook closes an outstanding loan and writes its audit record in the
// same transaction. A zero returnDate means today. Returning twice fails.
func (s *loanService) ReturnBook(loanID uint, returnDate time.Time) (*models.Loan, error) {
	if returnDate.IsZero() {
		returnDate = clock.Today(s.clock)
	}
	returnDate = clock.Date(returnDate)

	var loan models.Loan
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).First(&loan, loanID).Error; err != nil {
			return lookupError(err, apperrors.ErrLoanNotFound)
		}
		if !loan.IsOutstanding() {
			return reject(apperrors.ErrLoanAlreadyReturned)
		}
		if returnDate.Before(loan.LoanDate) {
			return reject(apperrors.ErrReturnBeforeLoan)
		}

		// Conditional on return_date still being NULL so that only one
		// caller can make the transition.
		res := tx.Model(&models.Loan{}).
			Where("id = ? AND return_date IS NULL", loan.ID).
			Update("return_date", returnDate)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected != 1 {
			return reject(apperrors.ErrLoanAlreadyReturned)
		}
		loan.ReturnDate = &returnDate

		audit := &models.LoanAudit{
			LoanID:    loan.ID,
			Action:    models.LoanAuditActionReturned,
			Timestamp: s.clock.Now(),
		}
		if err := tx.Create(audit).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LoanEvents.WithLabelValues("return").Inc()
	logger.For("loans").Infow("book returned", "loan_id", loan.ID, "book_id", loan.BookID)
	return &loan, nil
}

// GetLoanByID returns a loan with its book and member.
func (s *loanService) GetLoanByID(loanID uint) (*models.Loan, error) {
	var loan models.Loan
	if err := s.db.Preload("Book").Preload("Member").First(&loan, loanID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrLoanNotFound)
	}
	return &loan, nil
}

// GetLoanAudits returns the audit trail of a loan, oldest first.
func (s *loanService) GetLoanAudits(loanID uint) ([]models.LoanAudit, error) {
	if _, err := s.GetLoanByID(loanID); err != nil {
		return nil, err
	}

	audits := []models.LoanAudit{}
	if err := s.db.Where("loan_id = ?", loanID).Order("id ASC").Find(&audits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return audits, nil
}
