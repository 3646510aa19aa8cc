package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-service/internal/middleware"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{`Bearer "abc"`, "abc", true},
		{"Bearer 'abc'", "abc", true},
		{"Bearer abc, mid", "abc", true},
		{"Bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := middleware.ExtractBearerToken(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ExtractBearerToken(%q) = %q,%v; want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func signToken(t *testing.T, secret string, userID uuid.UUID, role string) string {
	t.Helper()
	claims := middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func testRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthRequired(secret, zap.NewNop()), func(c *gin.Context) {
		uid, _ := c.Get(middleware.CtxUserID)
		role, _ := c.Get(middleware.CtxUserRole)
		c.JSON(200, gin.H{"user_id": uid.(uuid.UUID).String(), "role": string(role.(service.Role))})
	})
	r.GET("/admin", middleware.AuthRequired(secret, zap.NewNop()), middleware.AdminRequired(), func(c *gin.Context) {
		c.Status(204)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	const secret = "test-secret"
	r := testRouter(secret)
	userID := uuid.New()

	// валидный токен
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, userID, string(service.RoleCustomer)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: status %d body %s", w.Code, w.Body.String())
	}

	// без заголовка
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status %d", w.Code)
	}

	// чужой секрет
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", userID, string(service.RoleCustomer)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status %d", w.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	const secret = "test-secret"
	r := testRouter(secret)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, uuid.New(), string(service.RoleCustomer)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, uuid.New(), string(service.RoleAdmin)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("admin on admin route: status %d", w.Code)
	}
}
