package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"els_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, tokens *utils.TokenManager, roles ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuthMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(ContextUserID), "role": c.GetString(ContextUserRole)})
	})
	engine.GET("/protected", handlers...)
	return engine
}

func doRequest(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := utils.NewTokenManager("middleware-secret", time.Hour)
	require.NoError(t, err)
	engine := newTestEngine(t, tokens)

	token, err := tokens.GenerateAccessToken(9, "dana", "waiter")
	require.NoError(t, err)

	w := doRequest(engine, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(9), body["user_id"])
	assert.Equal(t, "waiter", body["role"])

	for _, header := range []string{"", "Token " + token, "Bearer", "Bearer not-a-jwt"} {
		w := doRequest(engine, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)

		var envelope struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.False(t, envelope.Success)
		assert.NotEmpty(t, envelope.Message)
		assert.Equal(t, utils.ErrCodeUnauthorized, envelope.Error.Code)
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	tokens, err := utils.NewTokenManager("middleware-secret", time.Hour)
	require.NoError(t, err)
	engine := newTestEngine(t, tokens, "admin", "manager")

	managerToken, err := tokens.GenerateAccessToken(1, "lee", "Manager")
	require.NoError(t, err)
	waiterToken, err := tokens.GenerateAccessToken(2, "sam", "waiter")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(engine, "Bearer "+managerToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(engine, "Bearer "+waiterToken).Code)
}
