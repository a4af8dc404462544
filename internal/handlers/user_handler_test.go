package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	admin := r.Group("/admin", injectUser(testUserID, models.UserRoleAdmin))
	admin.GET("/users", handler.GetUsers)
	admin.GET("/users/summaries", handler.GetUserSummaries)
	admin.POST("/users", handler.CreateUser)
	admin.GET("/users/:id", handler.GetUser)
	admin.PUT("/users/:id", handler.UpdateUser)
	admin.DELETE("/users/:id", handler.DeleteUser)
	admin.PATCH("/users/:id/toggle-status", handler.ToggleUserStatus)
	return r
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("creates user and hides password", func(t *testing.T) {
		audit := &mockAuditService{}
		var gotRole models.UserRole
		svc := &mockUserService{
			createUserFn: func(username, email, password, firstName, lastName string, role models.UserRole, currency string) (*models.User, error) {
				gotRole = role
				return &models.User{
					Base:      models.Base{ID: testOtherID},
					Username:  username,
					Email:     email,
					Password:  "hashed",
					FirstName: firstName,
					LastName:  lastName,
					Role:      models.UserRoleUser,
					IsActive:  true,
					Currency:  models.DefaultCurrency,
				}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc, audit))

		rec := doRequest(r, "POST", "/admin/users",
			`{"username":"alice","email":"alice@example.com","password":"secret1","first_name":"Alice","last_name":"Ng"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["full_name"] != "Alice Ng" {
			t.Errorf("expected full name, got %v", user["full_name"])
		}
		if _, ok := user["password"]; ok {
			t.Error("password must not be serialized")
		}
		if gotRole != "" {
			t.Errorf("expected empty role to reach service, got %q", gotRole)
		}
		if audit.lastAction() != "CREATE_USER" {
			t.Errorf("expected CREATE_USER audit entry, got %q", audit.lastAction())
		}
	})

	t.Run("returns 409 on duplicate username", func(t *testing.T) {
		svc := &mockUserService{
			createUserFn: func(string, string, string, string, string, models.UserRole, string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUsername
			},
		}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/admin/users", `{"username":"alice","email":"a@example.com","password":"secret1"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_USERNAME")
	})

	tests := []struct {
		name string
		body string
	}{
		{"short username", `{"username":"al","email":"a@example.com","password":"secret1"}`},
		{"bad email", `{"username":"alice","email":"nope","password":"secret1"}`},
		{"short password", `{"username":"alice","email":"a@example.com","password":"123"}`},
		{"unknown role", `{"username":"alice","email":"a@example.com","password":"secret1","role":"Root"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/admin/users", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestUserHandler_GetUsers(t *testing.T) {
	svc := &mockUserService{
		getUsersFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
			page.Defaults()
			users := []models.User{
				{Base: models.Base{ID: testUserID}, Username: "admin", Password: "hash", Role: models.UserRoleAdmin},
				{Base: models.Base{ID: testOtherID}, Username: "bob", Password: "hash", Role: models.UserRoleUser},
			}
			resp := pagination.NewPageResponse(users, page.Page, page.PageSize, 2)
			return &resp, nil
		},
	}
	r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/admin/users", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 users, got %d", len(data))
	}
	if _, ok := data[0].(map[string]interface{})["password"]; ok {
		t.Error("password must not be serialized")
	}
	if result["total_items"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", result["total_items"])
	}
}

func TestUserHandler_GetUserSummaries(t *testing.T) {
	svc := &mockUserService{
		getSummariesFn: func(context.Context) ([]services.UserSummary, error) {
			return []services.UserSummary{
				{ID: testOtherID, Username: "bob", TotalExpenses: decimal.RequireFromString("700.25"), ExpenseCount: 3},
			}, nil
		},
	}
	r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/admin/users/summaries", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	users := parseJSON(t, rec)["users"].([]interface{})
	first := users[0].(map[string]interface{})
	if first["total_expenses"].(float64) != 700.25 || first["expense_count"].(float64) != 3 {
		t.Errorf("unexpected summary: %v", first)
	}
}

func TestUserHandler_GetUser(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"found", "/admin/users/" + testOtherID, nil, http.StatusOK, ""},
		{"not found", "/admin/users/" + testOtherID, apperrors.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"bad id", "/admin/users/abc", nil, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUserService{
				getUserByIDFn: func(id string) (*models.User, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.User{Base: models.Base{ID: id}, Username: "bob"}, nil
				},
			}
			r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "GET", tt.path, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantCode != "" {
				assertErrorCode(t, parseJSON(t, rec), tt.wantCode)
			}
		})
	}
}

func TestUserHandler_UpdateUser(t *testing.T) {
	var got services.UserUpdate
	svc := &mockUserService{
		updateUserFn: func(id string, update services.UserUpdate) (*models.User, error) {
			got = update
			return &models.User{Base: models.Base{ID: id}, Email: *update.Email}, nil
		},
	}
	r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/admin/users/"+testOtherID, `{"email":"new@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Email == nil || *got.Email != "new@example.com" {
		t.Errorf("expected email update, got %v", got.Email)
	}
	if got.FirstName != nil || got.Currency != nil {
		t.Error("expected untouched fields to stay nil")
	}
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("rejects deleting yourself", func(t *testing.T) {
		called := false
		svc := &mockUserService{deleteUserFn: func(string) error { called = true; return nil }}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/admin/users/"+testUserID, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("service must not be called")
		}
	})

	t.Run("deletes another user", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupUserRouter(NewUserHandler(&mockUserService{}, audit))

		rec := doRequest(r, "DELETE", "/admin/users/"+testOtherID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if audit.lastAction() != "DELETE_USER" {
			t.Errorf("expected DELETE_USER audit entry, got %q", audit.lastAction())
		}
	})
}

func TestUserHandler_ToggleUserStatus(t *testing.T) {
	t.Run("rejects toggling yourself", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/admin/users/"+testUserID+"/toggle-status", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns new status", func(t *testing.T) {
		svc := &mockUserService{
			toggleUserStatusFn: func(id string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, IsActive: false}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/admin/users/"+testOtherID+"/toggle-status", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["is_active"] != false {
			t.Errorf("expected inactive user, got %v", user)
		}
	})
}
