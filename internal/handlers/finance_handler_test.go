package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
)

func setupFinanceRouter(handler *FinanceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/users", handler.CreateUser)
	r.GET("/users", handler.GetUsers)
	r.GET("/users/:id", handler.GetUser)
	r.PUT("/users/:id", handler.UpdateUser)
	r.POST("/categories", handler.CreateCategory)
	r.GET("/categories", handler.GetCategories)
	r.GET("/categories/:id", handler.GetCategory)
	r.PUT("/categories/:id", handler.RenameCategory)
	r.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestFinanceHandler_CreateUser(t *testing.T) {
	t.Run("returns 201 with the budget", func(t *testing.T) {
		var gotBudget decimal.Decimal
		users := &mockUserService{
			createUserFn: func(name, email string, budget decimal.Decimal) (*models.User, error) {
				gotBudget = budget
				return &models.User{Base: models.Base{ID: 1}, Name: name, Email: email, MonthlyBudget: budget}, nil
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(users, &mockCategoryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":"Grace","email":"grace@example.com","monthly_budget":"15000.00"}`)

		assertStatus(t, rec, http.StatusCreated)
		if !gotBudget.Equal(decimal.NewFromInt(15000)) {
			t.Errorf("expected budget 15000, got %s", gotBudget)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["email"] != "grace@example.com" {
			t.Errorf("unexpected email %v", user["email"])
		}
	})

	t.Run("returns 400 on negative budget", func(t *testing.T) {
		r := setupFinanceRouter(NewFinanceHandler(&mockUserService{}, &mockCategoryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":"Grace","email":"grace@example.com","monthly_budget":-1}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		users := &mockUserService{
			createUserFn: func(string, string, decimal.Decimal) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(users, &mockCategoryService{}))

		rec := doRequest(r, "POST", "/users", `{"name":"Grace","email":"grace@example.com","monthly_budget":100}`)

		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestFinanceHandler_UpdateUser(t *testing.T) {
	t.Run("budget is optional", func(t *testing.T) {
		var gotBudget *decimal.Decimal
		users := &mockUserService{
			updateUserFn: func(id uint, name, _ string, budget *decimal.Decimal) (*models.User, error) {
				gotBudget = budget
				return &models.User{Base: models.Base{ID: id}, Name: name}, nil
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(users, &mockCategoryService{}))

		rec := doRequest(r, "PUT", "/users/1", `{"name":"Grace H."}`)

		assertStatus(t, rec, http.StatusOK)
		if gotBudget != nil {
			t.Errorf("expected no budget change, got %s", gotBudget)
		}
	})

	t.Run("returns 404 for unknown user", func(t *testing.T) {
		users := &mockUserService{
			updateUserFn: func(uint, string, string, *decimal.Decimal) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(users, &mockCategoryService{}))

		rec := doRequest(r, "PUT", "/users/5", `{"monthly_budget":"10"}`)

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})
}

func TestFinanceHandler_GetUser(t *testing.T) {
	r := setupFinanceRouter(NewFinanceHandler(&mockUserService{}, &mockCategoryService{}))

	rec := doRequest(r, "GET", "/users/0", "")

	assertStatus(t, rec, http.StatusBadRequest)
}

func TestFinanceHandler_Categories(t *testing.T) {
	t.Run("create requires a name", func(t *testing.T) {
		r := setupFinanceRouter(NewFinanceHandler(&mockUserService{}, &mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("create returns 409 on duplicate name", func(t *testing.T) {
		categories := &mockCategoryService{
			createCategoryFn: func(string) (*models.Category, error) { return nil, apperrors.ErrDuplicateCategory },
		}
		r := setupFinanceRouter(NewFinanceHandler(&mockUserService{}, categories))

		rec := doRequest(r, "POST", "/categories", `{"name":"Groceries"}`)

		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})

	t.Run("rename", func(t *testing.T) {
		categories := &mockCategoryService{
			renameCategoryFn: func(id uint, name string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: id}, Name: name}, nil
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(&mockUserService{}, categories))

		rec := doRequest(r, "PUT", "/categories/2", `{"name":"Food"}`)

		assertStatus(t, rec, http.StatusOK)
		category := parseJSON(t, rec)["category"].(map[string]interface{})
		if category["name"] != "Food" {
			t.Errorf("expected Food, got %v", category["name"])
		}
	})

	t.Run("delete in use returns 409", func(t *testing.T) {
		categories := &mockCategoryService{
			deleteCategoryFn: func(uint) error { return apperrors.ErrCategoryInUse },
		}
		r := setupFinanceRouter(NewFinanceHandler(&mockUserService{}, categories))

		rec := doRequest(r, "DELETE", "/categories/2", "")

		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})
}
