package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the validity window of an admin token
const TokenTTL = 12 * time.Hour

// Context keys for the authenticated identity
const (
	ContextAdminID  = "admin_id"
	ContextUsername = "username"
)

// JWTSecret should be loaded from environment via config
var JWTSecret string

// SetJWTSecret initializes the JWT secret from config
func SetJWTSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if len(secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	JWTSecret = secret
	return nil
}

// AdminClaims represents JWT claims for admin users
type AdminClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateAdminToken creates a JWT token for an admin
func GenerateAdminToken(adminID uuid.UUID, username string) (string, error) {
	if JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not initialized")
	}

	claims := AdminClaims{
		AdminID:  adminID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "rentroll-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(JWTSecret))
}

// ValidateAdminToken verifies JWT token and returns claims
func ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	if JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret not initialized")
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}

// AdminAuthMiddleware checks for a valid bearer token in the Authorization
// header and attaches the authenticated admin identity to the request context.
// Handlers behind it never trust client-supplied ownership.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authentication token"})
			c.Abort()
			return
		}

		claims, err := ValidateAdminToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// AdminIDFromContext returns the authenticated admin id set by
// AdminAuthMiddleware
func AdminIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextAdminID)
	if !exists {
		return uuid.Nil, false
	}
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
