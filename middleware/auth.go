package middleware

import (
	"strings"

	"tonotes/logger"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware accepts HS256 access tokens signed with secret and puts the
// token's user_id claim on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Unauthorized(c, "Unauthorized")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(tokenString, claims, keyFunc); err != nil {
			logger.Debug(c.Request.Context(), "rejected token", logger.Err(err))
			utils.TrackError("auth", "invalid_token")
			utils.Unauthorized(c, "Unauthorized")
			return
		}

		// refresh tokens cannot be used as access tokens
		if tokenType, _ := claims["type"].(string); tokenType == "refresh" {
			utils.Unauthorized(c, "Unauthorized")
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			utils.Unauthorized(c, "Unauthorized")
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
