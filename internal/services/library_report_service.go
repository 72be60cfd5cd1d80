package services

import (
	"sort"

	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
)

// libraryReportService computes read-only lending reports. Grouping that
// depends on calendar functions is done here rather than in SQL so the same
// code runs on postgres and sqlite.
type libraryReportService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewLibraryReportService creates a new LibraryReportServicer.
func NewLibraryReportService(db *gorm.DB, clk clock.Clock) LibraryReportServicer {
	return &libraryReportService{db: db, clock: clk}
}

// OverdueLoans lists outstanding loans whose due date is before today,
// earliest due first.
func (s *libraryReportService) OverdueLoans() ([]OverdueLoan, error) {
	today := clock.Today(s.clock)

	var loans []models.Loan
	if err := s.db.Preload("Book").Preload("Member").
		Where("return_date IS NULL AND due_date < ?", today).
		Order("due_date ASC, id ASC").
		Find(&loans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]OverdueLoan, 0, len(loans))
	for _, l := range loans {
		row := OverdueLoan{
			LoanID:      l.ID,
			BookID:      l.BookID,
			MemberID:    l.MemberID,
			LoanDate:    l.LoanDate,
			DueDate:     l.DueDate,
			DaysOverdue: int(today.Sub(clock.Date(l.DueDate)).Hours() / 24),
		}
		if l.Book != nil {
			row.BookTitle = l.Book.Title
		}
		if l.Member != nil {
			row.MemberName = l.Member.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WeeklyOverdueSummary counts overdue loans per member and ISO week of the
// due date, ordered by week then member.
func (s *libraryReportService) WeeklyOverdueSummary() ([]WeeklyOverdueCount, error) {
	overdue, err := s.OverdueLoans()
	if err != nil {
		return nil, err
	}

	type key struct {
		member     uint
		year, week int
	}
	index := make(map[key]int)
	rows := []WeeklyOverdueCount{}
	for _, o := range overdue {
		year, week := o.DueDate.ISOWeek()
		k := key{member: o.MemberID, year: year, week: week}
		if i, ok := index[k]; ok {
			rows[i].OverdueCount++
			continue
		}
		index[k] = len(rows)
		rows = append(rows, WeeklyOverdueCount{
			MemberID:     o.MemberID,
			MemberName:   o.MemberName,
			ISOYear:      year,
			ISOWeek:      week,
			OverdueCount: 1,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ISOYear != b.ISOYear {
			return a.ISOYear < b.ISOYear
		}
		if a.ISOWeek != b.ISOWeek {
			return a.ISOWeek < b.ISOWeek
		}
		return a.MemberID < b.MemberID
	})
	return rows, nil
}

// TopMembers ranks members by total loans. Ties go to the earlier member.
func (s *libraryReportService) TopMembers(limit int) ([]MemberLoanCount, error) {
	if limit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be positive")
	}

	rows := []MemberLoanCount{}
	if err := s.db.Table("loans").
		Select("loans.member_id AS member_id, members.name AS member_name, COUNT(loans.id) AS loan_count").
		Joins("JOIN members ON members.id = loans.member_id").
		Group("loans.member_id, members.name").
		Order("loan_count DESC, loans.member_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// MemberLoanRunningTotals annotates every loan with the member's cumulative
// loan count in loan-date order, optionally for a single member.
func (s *libraryReportService) MemberLoanRunningTotals(memberID *uint) ([]MemberLoanRunningTotal, error) {
	q := s.db.Model(&models.Loan{})
	if memberID != nil {
		var member models.Member
		if err := s.db.Select("id").First(&member, *memberID).Error; err != nil {
			return nil, lookupError(err, apperrors.ErrMemberNotFound)
		}
		q = q.Where("member_id = ?", *memberID)
	}

	var loans []models.Loan
	if err := q.Order("member_id ASC, loan_date ASC, id ASC").Find(&loans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[uint]int)
	for _, l := range loans {
		totals[l.MemberID]++
	}

	rows := make([]MemberLoanRunningTotal, 0, len(loans))
	running := make(map[uint]int)
	for _, l := range loans {
		running[l.MemberID]++
		rows = append(rows, MemberLoanRunningTotal{
			LoanID:       l.ID,
			MemberID:     l.MemberID,
			BookID:       l.BookID,
			LoanDate:     l.LoanDate,
			RunningCount: running[l.MemberID],
			MemberTotal:  totals[l.MemberID],
		})
	}
	return rows, nil
}
