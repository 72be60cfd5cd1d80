package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/pagination"
	"bookkeeper/internal/services"
)

// FinanceHandler handles finance users and expense categories.
type FinanceHandler struct {
	users      services.UserServicer
	categories services.CategoryServicer
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(users services.UserServicer, categories services.CategoryServicer) *FinanceHandler {
	return &FinanceHandler{users: users, categories: categories}
}

// CreateUserRequest represents the request payload for creating a user.
type CreateUserRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Email         string          `json:"email" binding:"required,email"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget" binding:"gte=0"`
}

// UpdateUserRequest represents the request payload for updating a user.
type UpdateUserRequest struct {
	Name          string           `json:"name" binding:"omitempty,min=1,max=200"`
	Email         string           `json:"email" binding:"omitempty,email"`
	MonthlyBudget *decimal.Decimal `json:"monthly_budget" binding:"omitempty,gte=0"`
}

// CategoryRequest represents the request payload for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateUser handles the creation of a finance user.
// @Summary     Create a user
// @Tags        finance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} models.User "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /finance/users [post]
func (h *FinanceHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.users.CreateUser(req.Name, req.Email, req.MonthlyBudget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetUsers handles listing users.
// @Summary     List users
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Router      /finance/users [get]
func (h *FinanceHandler) GetUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.users.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser handles retrieving a user.
// @Summary     Get user by ID
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} models.User "User details"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id} [get]
func (h *FinanceHandler) GetUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser handles updating a user's profile or budget.
// @Summary     Update user
// @Tags        finance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "User ID"
// @Param       request body UpdateUserRequest true "Updated user details"
// @Success     200 {object} models.User "Updated user"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /finance/users/{id} [put]
func (h *FinanceHandler) UpdateUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.users.UpdateUser(userID, req.Name, req.Email, req.MonthlyBudget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateCategory handles the creation of an expense category.
// @Summary     Create a category
// @Tags        finance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryRequest true "Category name"
// @Success     201 {object} models.Category "Category created"
// @Failure     409 {object} ErrorResponse "Category already exists"
// @Router      /finance/categories [post]
func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categories.CreateCategory(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategories handles listing categories.
// @Summary     List categories
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Category] "Paginated categories"
// @Router      /finance/categories [get]
func (h *FinanceHandler) GetCategories(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.categories.ListCategories(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategory handles retrieving a category.
// @Summary     Get category by ID
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /finance/categories/{id} [get]
func (h *FinanceHandler) GetCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categories.GetCategoryByID(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// RenameCategory handles renaming a category.
// @Summary     Rename category
// @Tags        finance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true "Category ID"
// @Param       request body CategoryRequest true "New name"
// @Success     200 {object} models.Category "Renamed category"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category already exists"
// @Router      /finance/categories/{id} [put]
func (h *FinanceHandler) RenameCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categories.RenameCategory(categoryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting an unused category.
// @Summary     Delete category
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Router      /finance/categories/{id} [delete]
func (h *FinanceHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categories.DeleteCategory(categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
