package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowflake-admin/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.GenerateToken("jdoe", []string{RoleViewer})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.True(t, claims.HasRole(RoleViewer))
	assert.False(t, claims.HasAnyRole(RoleAdmin))
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	other := NewJWTManager("other", time.Hour)
	token, err := other.GenerateToken("jdoe", nil)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute)
	token, err = expired.GenerateToken("jdoe", nil)
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Bearer ", "Basic abc", "bearer abc"} {
		_, err := ExtractTokenFromHeader(header)
		assert.ErrorIs(t, err, ErrMissingBearer, header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	auth := NewAuthMiddleware(m)

	r := gin.New()
	r.Use(middleware.CorrelationID(), auth.RequireAuth())
	r.GET("/read", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.UserIDKey)) })
	r.POST("/write", auth.RequireAnyRole(RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	viewer, err := m.GenerateToken("viewer-user", []string{RoleViewer})
	require.NoError(t, err)
	admin, err := m.GenerateToken("admin-user", []string{RoleAdmin})
	require.NoError(t, err)
	stale, err := NewJWTManager("secret", -time.Minute).GenerateToken("old", []string{RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		body   string
	}{
		{"no header", http.MethodGet, "/read", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", http.MethodGet, "/read", stale, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"garbage", http.MethodGet, "/read", "nope", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"viewer reads", http.MethodGet, "/read", viewer, http.StatusOK, "viewer-user"},
		{"viewer writes", http.MethodPost, "/write", viewer, http.StatusForbidden, "FORBIDDEN"},
		{"admin writes", http.MethodPost, "/write", admin, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
