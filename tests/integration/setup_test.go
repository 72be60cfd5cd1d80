package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bookkeeper/internal/clock"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/middleware"
	"bookkeeper/internal/server"
	"bookkeeper/internal/testutil"
	"bookkeeper/internal/validator"
)

const testSecret = "integration-test-secret"

// today is the fixed date every integration test runs on.
var today = clock.On(2025, time.March, 20)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	token  string
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	router := server.NewRouter(db, server.Options{
		JWTSecret: testSecret,
		Clock:     today,
	})

	token, err := middleware.GenerateAccessToken(testSecret, "integration", "admin", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	return &testApp{DB: db, Router: router, token: token}
}

// request makes an authenticated HTTP request to the test router.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	return app.requestAs(method, path, body, app.token)
}

func (app *testApp) requestAs(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test unless rec has the wanted status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// create POSTs body to path, expects 201 and returns the id of the object under key.
func (app *testApp) create(t *testing.T, path, key, body string) uint {
	t.Helper()
	rec := app.request("POST", path, body)
	mustStatus(t, rec, http.StatusCreated)
	obj := parseJSON(t, rec)[key].(map[string]interface{})
	return uint(obj["id"].(float64))
}

func (app *testApp) createBook(t *testing.T, title string) uint {
	t.Helper()
	author := app.create(t, "/api/v1/library/authors", "author", `{"name":"Author of `+title+`"}`)
	return app.create(t, "/api/v1/library/books", "book",
		fmt.Sprintf(`{"title":%q,"genre":"Fiction","author_ids":[%d]}`, title, author))
}

func (app *testApp) createMember(t *testing.T, name string) uint {
	t.Helper()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	return app.create(t, "/api/v1/library/members", "member",
		fmt.Sprintf(`{"name":%q,"email":%q,"join_date":"2024-01-01"}`, name, email))
}
