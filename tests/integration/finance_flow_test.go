package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestFinanceFlow_BudgetEnforcement(t *testing.T) {
	app := setupApp(t)
	userID := app.create(t, "/api/v1/finance/users", "user",
		`{"name":"Grace Hopper","email":"grace@example.com","monthly_budget":"15000"}`)
	categoryID := app.create(t, "/api/v1/finance/categories", "category", `{"name":"Rent"}`)
	expenses := fmt.Sprintf("/api/v1/finance/users/%d/expenses", userID)

	// Step 1: an expense above the whole budget is rejected
	rec := app.request("POST", expenses, fmt.Sprintf(`{"amount":"16000","category_id":%d}`, categoryID))
	mustStatus(t, rec, http.StatusUnprocessableEntity)
	if code := errorCode(t, rec); code != "BUDGET_EXCEEDED" {
		t.Errorf("expected BUDGET_EXCEEDED, got %s", code)
	}

	// Step 2: one within budget is accepted
	rec = app.request("POST", expenses, fmt.Sprintf(`{"amount":"14000","category_id":%d}`, categoryID))
	mustStatus(t, rec, http.StatusCreated)

	// Step 3: the remainder is enforced cumulatively
	rec = app.request("POST", expenses, fmt.Sprintf(`{"amount":"1000.01","category_id":%d}`, categoryID))
	mustStatus(t, rec, http.StatusUnprocessableEntity)
	rec = app.request("POST", expenses, fmt.Sprintf(`{"amount":"1000","category_id":%d}`, categoryID))
	mustStatus(t, rec, http.StatusCreated)

	// Step 4: budget status shows the month fully spent
	rec = app.request("GET", fmt.Sprintf("/api/v1/finance/users/%d/budget-status?year=2025&month=3", userID), "")
	mustStatus(t, rec, http.StatusOK)
	status := parseJSON(t, rec)["status"].(map[string]interface{})
	if status["spent"] != "15000" || status["balance_remaining"] != "0" {
		t.Errorf("unexpected status %v", status)
	}

	// Step 5: the log holds only accepted expenses
	rec = app.request("GET", fmt.Sprintf("/api/v1/finance/users/%d/logs", userID), "")
	mustStatus(t, rec, http.StatusOK)
	logs := parseJSON(t, rec)["data"].([]interface{})
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	if logs[0].(map[string]interface{})["action"] != "Expense: 14000.00" {
		t.Errorf("unexpected first log %v", logs[0])
	}

	// Step 6: a new month starts from zero
	rec = app.request("POST", expenses, fmt.Sprintf(`{"amount":"500","category_id":%d,"date":"2025-04-02"}`, categoryID))
	mustStatus(t, rec, http.StatusCreated)

	rec = app.request("GET", expenses+"?from_date=2025-04-01&to_date=2025-04-30", "")
	mustStatus(t, rec, http.StatusOK)
	if total := parseJSON(t, rec)["total_items"]; total != float64(1) {
		t.Errorf("expected 1 april expense, got %v", total)
	}
}

func TestFinanceFlow_IncomeGrowsBudgetAndCloseMonth(t *testing.T) {
	app := setupApp(t)
	userID := app.create(t, "/api/v1/finance/users", "user",
		`{"name":"Linus Pauling","email":"linus@example.com","monthly_budget":"15000"}`)
	categoryID := app.create(t, "/api/v1/finance/categories", "category", `{"name":"Groceries"}`)
	base := fmt.Sprintf("/api/v1/finance/users/%d", userID)

	rec := app.request("POST", base+"/incomes", `{"amount":"1000","source":"Salary"}`)
	mustStatus(t, rec, http.StatusCreated)
	income := parseJSON(t, rec)["income"].(map[string]interface{})
	if dateOf(income["date"]) != "2025-03-20" {
		t.Errorf("expected income dated today, got %v", income["date"])
	}

	rec = app.request("GET", base, "")
	mustStatus(t, rec, http.StatusOK)
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["monthly_budget"] != "15200" {
		t.Errorf("expected budget 15200, got %v", user["monthly_budget"])
	}

	rec = app.request("POST", base+"/expenses", fmt.Sprintf(`{"amount":"250","category_id":%d}`, categoryID))
	mustStatus(t, rec, http.StatusCreated)

	rec = app.request("GET", base+"/spend-ratio?year=2025&month=3", "")
	mustStatus(t, rec, http.StatusOK)
	ratio := parseJSON(t, rec)["ratio"].(map[string]interface{})
	if ratio["ratio"] != "25" {
		t.Errorf("expected ratio 25, got %v", ratio["ratio"])
	}

	rec = app.request("POST", base+"/close-month", "")
	mustStatus(t, rec, http.StatusCreated)
	entry := parseJSON(t, rec)["log"].(map[string]interface{})
	if entry["action"] != "Month Closed: Income=1000.00, Expense=250.00" {
		t.Errorf("unexpected close entry %v", entry["action"])
	}

	rec = app.request("GET", base+"/logs", "")
	mustStatus(t, rec, http.StatusOK)
	logs := parseJSON(t, rec)["data"].([]interface{})
	want := []string{"Income: 1000.00", "Expense: 250.00", "Month Closed: Income=1000.00, Expense=250.00"}
	if len(logs) != len(want) {
		t.Fatalf("expected %d log entries, got %d", len(want), len(logs))
	}
	for i, w := range want {
		if got := logs[i].(map[string]interface{})["action"]; got != w {
			t.Errorf("log %d: expected %q, got %v", i, w, got)
		}
	}
}

func TestFinanceFlow_Reports(t *testing.T) {
	app := setupApp(t)
	grace := app.create(t, "/api/v1/finance/users", "user",
		`{"name":"Grace","email":"grace@example.com","monthly_budget":"5000"}`)
	linus := app.create(t, "/api/v1/finance/users", "user",
		`{"name":"Linus","email":"linus@example.com","monthly_budget":"5000"}`)
	rent := app.create(t, "/api/v1/finance/categories", "category", `{"name":"Rent"}`)
	food := app.create(t, "/api/v1/finance/categories", "category", `{"name":"Food"}`)

	spend := func(user, category uint, amount string) {
		rec := app.request("POST", fmt.Sprintf("/api/v1/finance/users/%d/expenses", user),
			fmt.Sprintf(`{"amount":%q,"category_id":%d}`, amount, category))
		mustStatus(t, rec, http.StatusCreated)
	}
	spend(grace, rent, "1200")
	spend(grace, food, "80.50")
	spend(linus, food, "19.50")

	rec := app.request("GET", "/api/v1/finance/reports/category-totals?year=2025&month=3", "")
	mustStatus(t, rec, http.StatusOK)
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	top := categories[0].(map[string]interface{})
	second := categories[1].(map[string]interface{})
	if top["category_name"] != "Rent" || top["total"] != "1200" {
		t.Errorf("unexpected top category %v", top)
	}
	if second["category_name"] != "Food" || second["total"] != "100" {
		t.Errorf("unexpected second category %v", second)
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/finance/reports/category-totals?year=2025&month=3&user_id=%d", linus), "")
	mustStatus(t, rec, http.StatusOK)
	if n := len(parseJSON(t, rec)["categories"].([]interface{})); n != 1 {
		t.Errorf("expected 1 category for linus, got %d", n)
	}

	// Neither user has income, so the ratio is undefined.
	rec = app.request("GET", fmt.Sprintf("/api/v1/finance/users/%d/spend-ratio?year=2025&month=3", grace), "")
	mustStatus(t, rec, http.StatusUnprocessableEntity)
	if code := errorCode(t, rec); code != "DIVISION_UNDEFINED" {
		t.Errorf("expected DIVISION_UNDEFINED, got %s", code)
	}

	rec = app.request("GET", "/api/v1/finance/reports/spend-ratios?year=2025&month=3", "")
	mustStatus(t, rec, http.StatusOK)
	for _, u := range parseJSON(t, rec)["users"].([]interface{}) {
		if r := u.(map[string]interface{})["ratio"]; r != nil {
			t.Errorf("expected null ratio, got %v", r)
		}
	}

	rec = app.request("GET", "/api/v1/finance/reports/budget-status?year=2025&month=3", "")
	mustStatus(t, rec, http.StatusOK)
	users := parseJSON(t, rec)["users"].([]interface{})
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].(map[string]interface{})["spent"] != "1280.5" {
		t.Errorf("unexpected spent %v", users[0])
	}

	rec = app.request("GET", "/api/v1/finance/reports/budget-status?year=2025&month=3&format=xlsx", "")
	mustStatus(t, rec, http.StatusOK)

	rec = app.request("DELETE", fmt.Sprintf("/api/v1/finance/categories/%d", food), "")
	mustStatus(t, rec, http.StatusConflict)
	if code := errorCode(t, rec); code != "CATEGORY_IN_USE" {
		t.Errorf("expected CATEGORY_IN_USE, got %s", code)
	}
}
