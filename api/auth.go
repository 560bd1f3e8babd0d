package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

// UserIDKey is the gin context key holding the verified user identity
const UserIDKey = "userID"

// Claims is the token payload minted by the external auth layer. Only the
// subject (the user id) matters to this service.
type Claims struct {
	jwt.RegisteredClaims
}

// parseUserID verifies the bearer token and returns the user id it carries.
// Returns empty when no token is present, an error when one is present but bad.
func parseUserID(c *gin.Context, secret string) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", nil
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return "", fmt.Errorf("authorization header is not a bearer token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return claims.Subject, nil
}

// OptionalAuth attaches the verified user id to the context when a valid token
// is present and leaves it empty otherwise. Used by status, which serves a
// zeroed logged-out view to anonymous callers.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseUserID(c, secret)
		if err != nil {
			log.WithError(err).Debug("Ignoring invalid token on optional-auth route")
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token. Used by spin.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseUserID(c, secret)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the verified user id set by the auth middleware
func currentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
