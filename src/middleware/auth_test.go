package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-for-unit-tests-32ch!"

func withTestSecret(t *testing.T) {
	t.Helper()
	originalSecret := JWTSecret
	if err := SetJWTSecret(testSecret); err != nil {
		t.Fatalf("SetJWTSecret failed: %v", err)
	}
	t.Cleanup(func() { JWTSecret = originalSecret })
}

func TestSetJWTSecret_Rules(t *testing.T) {
	originalSecret := JWTSecret
	defer func() { JWTSecret = originalSecret }()

	if err := SetJWTSecret(""); err == nil {
		t.Error("expected error for empty secret")
	}
	if err := SetJWTSecret("too-short"); err == nil {
		t.Error("expected error for short secret")
	}
	if err := SetJWTSecret(testSecret); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateAdminToken(t *testing.T) {
	withTestSecret(t)

	adminID := uuid.New()
	token, err := GenerateAdminToken(adminID, "operator1")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateAdminToken(token)
	if err != nil {
		t.Fatalf("ValidateAdminToken failed: %v", err)
	}
	if claims.AdminID != adminID.String() {
		t.Errorf("expected admin_id %s, got %s", adminID, claims.AdminID)
	}
	if claims.Username != "operator1" {
		t.Errorf("expected username operator1, got %s", claims.Username)
	}

	// Token validity window is 12 hours
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 11*time.Hour || remaining > TokenTTL {
		t.Errorf("unexpected expiry window: %v", remaining)
	}
}

func TestAdminAuthMiddleware_ValidHeader(t *testing.T) {
	withTestSecret(t)
	gin.SetMode(gin.TestMode)

	adminID := uuid.New()
	token, err := GenerateAdminToken(adminID, "operator1")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Use(AdminAuthMiddleware())
	router.GET("/test", func(c *gin.Context) {
		id, ok := AdminIDFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "identity missing"})
			return
		}
		username, _ := c.Get(ContextUsername)
		c.JSON(http.StatusOK, gin.H{"admin_id": id.String(), "username": username})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminAuthMiddleware_MissingToken(t *testing.T) {
	withTestSecret(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Use(AdminAuthMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAdminAuthMiddleware_GarbledToken(t *testing.T) {
	withTestSecret(t)
	gin.SetMode(gin.TestMode)

	for _, header := range []string{
		"Bearer not.a.token",
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"justgarbage",
	} {
		w := httptest.NewRecorder()
		_, router := gin.CreateTestContext(w)
		router.Use(AdminAuthMiddleware())
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected status 401, got %d", header, w.Code)
		}
	}
}

func TestAdminAuthMiddleware_ExpiredToken(t *testing.T) {
	withTestSecret(t)
	gin.SetMode(gin.TestMode)

	claims := AdminClaims{
		AdminID:  uuid.New().String(),
		Username: "operator1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-13 * time.Hour)),
			Issuer:    "rentroll-server",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Use(AdminAuthMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for expired token, got %d", w.Code)
	}
}

func TestAdminIDFromContext_Invalid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if _, ok := AdminIDFromContext(c); ok {
		t.Error("expected false when identity is unset")
	}

	c.Set(ContextAdminID, "not-a-uuid")
	if _, ok := AdminIDFromContext(c); ok {
		t.Error("expected false for malformed admin id")
	}
}
