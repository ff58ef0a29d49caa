package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterSayer/CottageChooser/pkg/token"
)

const testSecret = "session-middleware-test-secret"

func setupSessionTest(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	m := NewSessionMiddleware(testSecret)
	router.GET("/protected", m.Require(), handler)
	return router
}

func whoami(c *gin.Context) {
	name, _ := GetUserName(c)
	c.JSON(http.StatusOK, gin.H{"user_name": name})
}

func TestRequire(t *testing.T) {
	router := setupSessionTest(t, whoami)

	t.Run("Valid token passes", func(t *testing.T) {
		tok, err := token.Generate("Peter", testSecret, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Peter")
	})

	t.Run("Token via query parameter", func(t *testing.T) {
		tok, err := token.Generate("Carol", testSecret, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected?token="+tok, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Carol")
	})

	t.Run("Missing token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "SESSION_REQUIRED")
		assert.Contains(t, w.Body.String(), `"status":"not_logged_in"`)
	})

	t.Run("Malformed header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "NotBearer abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Expired token rejected with code", func(t *testing.T) {
		tok, err := token.Generate("Peter", testSecret, -time.Minute)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "SESSION_TOKEN_EXPIRED")
	})

	t.Run("Forged token rejected", func(t *testing.T) {
		tok, err := token.Generate("Peter", "some-other-secret", time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "SESSION_TOKEN_INVALID")
	})
}
