package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/pkg/redis"
	"github.com/PeterSayer/CottageChooser/pkg/token"
)

// Context keys for session information
const (
	UserNameKey     = "user_name"
	SessionTokenKey = "session_token"
)

type SessionMiddleware struct {
	secret string
}

func NewSessionMiddleware(secret string) *SessionMiddleware {
	return &SessionMiddleware{
		secret: secret,
	}
}

// abortNotLoggedIn rejects the request with the status marker clients
// key off, alongside the machine-readable error code.
func abortNotLoggedIn(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "not_logged_in",
		"error":   code,
		"message": message,
	})
}

func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}
	// WebSocket clients cannot set headers, they pass the token in the
	// query string instead.
	if t := c.Query("token"); t != "" {
		return t, true
	}
	return "", false
}

// Require validates the session token and aborts without one.
func (m *SessionMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		tok, ok := extractToken(c)
		if !ok {
			log.Warn("Missing or malformed session token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			abortNotLoggedIn(c, errors.SessionRequired, "Please join the voting group to do that")
			return
		}

		claims, err := token.Validate(tok, m.secret)
		if err != nil {
			log.Warn("Session token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == token.ErrExpiredToken {
				abortNotLoggedIn(c, errors.SessionTokenExpired, "Your session has expired, please join again")
			} else {
				abortNotLoggedIn(c, errors.SessionTokenInvalid, "Invalid session token")
			}
			return
		}

		if redis.Enabled() {
			revoked, err := redis.IsTokenRevoked(c.Request.Context(), tok)
			if err != nil {
				log.Error("Failed to check token revocation", err, nil)
			} else if revoked {
				log.Warn("Revoked session token presented", map[string]interface{}{
					"user_name": claims.UserName,
				})
				abortNotLoggedIn(c, errors.SessionTokenRevoked, "You have left the group, please join again")
				return
			}
		}

		c.Set(UserNameKey, claims.UserName)
		c.Set(SessionTokenKey, tok)

		log.Debug("Session validated", map[string]interface{}{
			"user_name": claims.UserName,
		})

		c.Next()
	}
}

// GetUserName extracts the session user name from context.
func GetUserName(c *gin.Context) (string, bool) {
	name, exists := c.Get(UserNameKey)
	if !exists {
		return "", false
	}
	return name.(string), true
}

// GetSessionToken extracts the raw session token from context.
func GetSessionToken(c *gin.Context) (string, bool) {
	tok, exists := c.Get(SessionTokenKey)
	if !exists {
		return "", false
	}
	return tok.(string), true
}
