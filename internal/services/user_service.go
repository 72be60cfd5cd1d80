package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
	"bookkeeper/internal/pagination"
)

// userService handles finance users and their monthly budgets.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser creates a user with a non-negative monthly budget.
func (s *userService) CreateUser(name, email string, monthlyBudget decimal.Decimal) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user name and email are required")
	}
	if monthlyBudget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly budget must not be negative")
	}

	if err := s.ensureEmailFree(email, 0); err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email, MonthlyBudget: monthlyBudget.Round(2)}
	if err := s.db.Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

func (s *userService) ensureEmailFree(email string, exceptID uint) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateEmail
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// ListUsers retrieves a paginated list of users in insertion order.
func (s *userService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	return listPage[models.User](s.db.Model(&models.User{}), page, "id ASC")
}

// UpdateUser updates a user's profile and/or monthly budget.
func (s *userService) UpdateUser(userID uint, name, email string, monthlyBudget *decimal.Decimal) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name = strings.TrimSpace(name); name != "" {
		updates["name"] = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" && email != user.Email {
		if err := s.ensureEmailFree(email, userID); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if monthlyBudget != nil {
		if monthlyBudget.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly budget must not be negative")
		}
		updates["monthly_budget"] = monthlyBudget.Round(2)
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetUserByID(userID)
}
