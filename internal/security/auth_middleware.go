package security

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"snowflake-admin/internal/middleware"
	"snowflake-admin/internal/utils"
	"snowflake-admin/pkg/response"
)

const claimsKey = "user_claims"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	jwtManager *JWTManager
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtManager *JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
	}
}

// RequireAuth rejects requests without a valid bearer token
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.UnauthorizedResponse(
				err.Error(),
				middleware.GetCorrelationID(c),
			))
			return
		}

		claims, err := am.jwtManager.ValidateToken(token)
		if err != nil {
			code, message := utils.ErrCodeInvalidToken, "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				code, message = utils.ErrCodeTokenExpired, "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse(
				code, message, "", middleware.GetCorrelationID(c),
			))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(middleware.UserIDKey, claims.Subject)

		c.Next()
	}
}

// RequireAnyRole rejects authenticated requests lacking all of roles. It must
// run after RequireAuth.
func (am *AuthMiddleware) RequireAnyRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetUserClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.UnauthorizedResponse(
				"User claims not found",
				middleware.GetCorrelationID(c),
			))
			return
		}

		if !claims.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse(
				utils.ErrCodeForbidden,
				"Insufficient permissions",
				"",
				middleware.GetCorrelationID(c),
			))
			return
		}

		c.Next()
	}
}

// GetUserClaims extracts user claims from context
func GetUserClaims(c *gin.Context) (*Claims, bool) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	userClaims, ok := claims.(*Claims)
	return userClaims, ok
}
