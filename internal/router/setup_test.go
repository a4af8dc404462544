package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendwise/internal/analytics"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/testutil"
	"spendwise/internal/validator"
)

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
	logger.Init("test")
	validator.Register()
}

// firstMessage makes the dashboard message deterministic.
var firstMessage = analytics.PickerFunc(func(int) int { return 0 })

// setupApp creates the full stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	return &testApp{DB: db, Router: New(NewServices(db, nil, firstMessage))}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test unless rec carries the wanted status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int, step string) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("%s: expected %d, got %d: %s", step, want, rec.Code, rec.Body.String())
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

// errorCode extracts error.code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// login authenticates and returns the bearer token.
func (app *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	mustStatus(t, rec, http.StatusOK, "login")
	return parseJSON(t, rec)["token"].(string)
}

// loginNewUser creates a fixture user with the given role and logs in.
func (app *testApp) loginNewUser(t *testing.T, role models.UserRole) (*models.User, string) {
	t.Helper()
	user := testutil.CreateTestUserWithRole(t, app.DB, role)
	return user, app.login(t, user.Username, testutil.TestPassword)
}
