package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// RoleAdmin marks back-office operators.
	RoleAdmin = "admin"

	customerIDKey = "customer_id"
	roleKey       = "role"
)

// Claims are the token claims issued at sign-in: subject is the customer id,
// role distinguishes admins from customers.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Middleware validates the bearer token (HS256) and stores the caller's
// customer id and role in the gin context. Missing or invalid tokens get 401.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(customerIDKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the validated token carries the admin
// role. Must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CustomerID returns the authenticated caller's customer id.
func CustomerID(c *gin.Context) string {
	return c.GetString(customerIDKey)
}

// Role returns the authenticated caller's role.
func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *gin.Context) bool {
	return Role(c) == RoleAdmin
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}
