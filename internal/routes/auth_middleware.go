// Authentication middleware
// Checks for a valid session token in the auth cookie or Authorization header.
// If valid, sets the user id in the context; protected routes abort with 401
// otherwise.
package routes

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	. "timetracker-sync/internal/config"
	"timetracker-sync/internal/jwt"
	"timetracker-sync/internal/storage"
)

const AUTH_COOKIE_NAME = "auth_token"

var (
	ErrUserNotInContext = errors.New("user not found in context")
)

// Set the session cookie. The cookie expires together with the token.
func setAuthCookie(c *gin.Context, token string) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"

	c.SetCookie(
		AUTH_COOKIE_NAME,
		token,
		int(Cfg.SessionTTL),
		"/",
		"",
		secure,
		true,
	)
}

func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(AUTH_COOKIE_NAME); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// SessionMiddleware decodes the session token, if any, and stores the user
// id in the context. It never aborts; RequireAuth does.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwt.DecodeSessionJWT(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// RequireAuth aborts with 401 unless a valid session was established.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("userID"); !exists {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated user's id from the context.
func GetUser(c *gin.Context) (int64, error) {
	uid, exists := c.Get("userID")
	if !exists {
		return 0, ErrUserNotInContext
	}
	userID, ok := uid.(int64)
	if !ok {
		return 0, ErrUserNotInContext
	}
	return userID, nil
}

// getStorage returns the storage provider injected by the server.
func getStorage(c *gin.Context) (storage.Provider, error) {
	value, exists := c.Get("Storage")
	if !exists {
		return nil, ErrStorageProviderNotFound
	}
	provider, ok := value.(storage.Provider)
	if !ok {
		return nil, ErrStorageProviderNotFound
	}
	return provider, nil
}
