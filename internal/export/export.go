// Package export renders reports as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"bookkeeper/internal/services"
)

// ContentType is the MIME type of the workbooks written here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OverdueSheet and BudgetSheet name the single sheet of each workbook.
const (
	OverdueSheet = "Overdue"
	BudgetSheet  = "Budget"
)

var (
	overdueHeader = []interface{}{"Loan ID", "Book ID", "Title", "Member ID", "Member", "Loan Date", "Due Date", "Days Overdue"}
	budgetHeader  = []interface{}{"User ID", "User", "Month", "Monthly Budget", "Spent", "Balance Remaining"}
)

// WriteOverdueLoans writes the overdue-loan report to w.
func WriteOverdueLoans(w io.Writer, rows []services.OverdueLoan) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.LoanID, r.BookID, r.BookTitle, r.MemberID, r.MemberName,
			r.LoanDate.Format(time.DateOnly), r.DueDate.Format(time.DateOnly), r.DaysOverdue,
		})
	}
	return writeSheet(w, OverdueSheet, overdueHeader, data)
}

// WriteBudgetStatus writes the monthly budget-status report to w. Amounts are
// written as fixed two-decimal strings so no precision is lost to floats.
func WriteBudgetStatus(w io.Writer, rows []services.BudgetStatus) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.UserID, r.UserName, fmt.Sprintf("%04d-%02d", r.Year, r.Month),
			r.MonthlyBudget.StringFixed(2), r.Spent.StringFixed(2), r.BalanceRemaining.StringFixed(2),
		})
	}
	return writeSheet(w, BudgetSheet, budgetHeader, data)
}

func writeSheet(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
