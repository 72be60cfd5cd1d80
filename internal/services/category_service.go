package services

import (
	"strings"

	"gorm.io/gorm"

	"bookkeeper/internal/database"
	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
	"bookkeeper/internal/pagination"
)

// categoryService handles the shared expense categories.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a category with a unique name.
func (s *categoryService) CreateCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if err := s.ensureNameFree(name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := s.db.Create(category).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

func (s *categoryService) ensureNameFree(name string, exceptID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrCategoryNotFound)
	}
	return &category, nil
}

// ListCategories retrieves a paginated list of categories ordered by name.
func (s *categoryService) ListCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	return listPage[models.Category](s.db.Model(&models.Category{}), page, "name ASC, id ASC")
}

// RenameCategory changes a category's name.
func (s *categoryService) RenameCategory(categoryID uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}
	if name == category.Name {
		return category, nil
	}
	if err := s.ensureNameFree(name, categoryID); err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("name", name).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a category no expense refers to.
func (s *categoryService) DeleteCategory(categoryID uint) error {
	return database.RunInTx(s.db, func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, categoryID).Error; err != nil {
			return lookupError(err, apperrors.ErrCategoryNotFound)
		}

		var used int64
		if err := tx.Model(&models.Expense{}).Where("category_id = ?", categoryID).Count(&used).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if used > 0 {
			return apperrors.ErrCategoryInUse
		}

		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
