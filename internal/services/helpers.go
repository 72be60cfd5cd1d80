package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/metrics"
	"bookkeeper/internal/pagination"
)

// forUpdate locks the selected rows until the surrounding transaction ends.
// The sqlite dialect drops the clause; sqlite serialises writers on its own.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// lookupError maps a gorm lookup failure to the given not-found sentinel.
func lookupError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// reject counts a business-rule failure and returns it.
func reject(err *apperrors.AppError) error {
	metrics.Reject(err.Code)
	return err
}

// listPage counts and fetches one page of q ordered by order. Preloads apply
// to the fetch only.
func listPage[T any](q *gorm.DB, page pagination.PageRequest, order string, preloads ...string) (*pagination.PageResponse[T], error) {
	page.Defaults()

	var totalItems int64
	if err := q.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fetch := q
	for _, p := range preloads {
		fetch = fetch.Preload(p)
	}

	var items []T
	if err := fetch.Order(order).Scopes(pagination.Paginate(page)).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// sumAmount returns COALESCE(SUM(amount), 0) over q, rounded to cents.
func sumAmount(q *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total.Round(2), nil
}

// isDuplicate reports a unique-constraint violation (requires TranslateError).
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
