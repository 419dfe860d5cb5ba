package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/checkout/internal/port/outbound"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// SubjectKey is the context key for the token subject.
	SubjectKey = "subject"
	// EmailKey is the context key for email.
	EmailKey = "email"
)

// TokenValidator defines the interface for bearer token validation.
type TokenValidator interface {
	ValidateToken(token string) (*outbound.OperatorClaims, error)
}

// Auth returns a middleware that validates bearer tokens.
// If the token is valid, it sets subject and email in the context.
// If optional is true, the middleware will not abort on missing/invalid tokens.
func Auth(validator TokenValidator, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			if !optional {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{
						"code":    "UNAUTHORIZED",
						"message": "Authorization header required",
					},
				})
				return
			}
			c.Next()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			if !optional {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{
						"code":    "INVALID_TOKEN",
						"message": "Invalid or expired token",
					},
				})
				return
			}
			c.Next()
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Set(EmailKey, claims.Email)

		c.Next()
	}
}

// RequireAuth returns a middleware that requires a valid bearer token.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return Auth(validator, false)
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
}

// GetSubject returns the token subject from context.
// Returns empty string if not found.
func GetSubject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}

// GetEmail returns the email from context.
// Returns empty string if not found.
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}
