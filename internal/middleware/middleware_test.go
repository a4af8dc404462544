package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"spendwise/internal/config"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %v", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

func testUser(role models.UserRole) *models.User {
	return &models.User{
		Base:     models.Base{ID: "0190a1b2-0000-7000-8000-000000000001"},
		Username: "tester",
		Role:     role,
	}
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(ContextUserID),
			"username": c.GetString(ContextUsername),
		})
	})
	r.GET("/admin", AuthMiddleware(), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doAuthRequest(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerateAndParseToken(t *testing.T) {
	user := testUser(models.UserRoleAdmin)

	token, expiresAt, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expected expiry in the future, got %v", expiresAt)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "tester" || claims.Role != models.UserRoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsForeignTokens(t *testing.T) {
	t.Run("wrong key", func(t *testing.T) {
		claims := &JWTClaims{
			UserID: "x",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-key"))
		if _, err := ParseToken(token); err == nil {
			t.Error("expected error for token signed with another key")
		}
	})

	t.Run("expired", func(t *testing.T) {
		claims := &JWTClaims{
			UserID: "x",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Get().JWTSecret))
		if _, err := ParseToken(token); err == nil {
			t.Error("expected error for expired token")
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	r := setupAuthRouter()
	token, _, err := GenerateToken(testUser(models.UserRoleUser))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(r, "/me", tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if code := errorCode(t, rec); code != "UNAUTHORIZED" {
					t.Errorf("expected UNAUTHORIZED, got %s", code)
				}
				return
			}
			body := parseBody(t, rec)
			if body["username"] != "tester" {
				t.Errorf("expected username in context, got %v", body)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	r := setupAuthRouter()

	userToken, _, _ := GenerateToken(testUser(models.UserRoleUser))
	adminToken, _, _ := GenerateToken(testUser(models.UserRoleAdmin))

	rec := doAuthRequest(r, "/admin", "Bearer "+userToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN, got %s", code)
	}

	rec = doAuthRequest(r, "/admin", "Bearer "+adminToken)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for admin, got %d", rec.Code)
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrGoalNotFound)
	})
	r.GET("/wrapped", func(c *gin.Context) {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/bind", func(c *gin.Context) {
		var body struct {
			Amount string `json:"amount" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err)
		}
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/app", http.StatusNotFound, "GOAL_NOT_FOUND"},
		{"/wrapped", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/bind", http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.path == "/bind" {
				req = httptest.NewRequest(http.MethodGet, tt.path, jsonBody("{}"))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		id := rec.Header().Get(requestIDHeader)
		if id == "" || id != rec.Body.String() {
			t.Errorf("expected generated request id in header and context, got %q and %q", id, rec.Body.String())
		}
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set(requestIDHeader, "trace-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get(requestIDHeader); got != "trace-123" {
			t.Errorf("expected trace-123, got %q", got)
		}
	})
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
