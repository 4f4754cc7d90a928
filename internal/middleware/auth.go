package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sprint-board-api/internal/response"
)

// Context keys set by Auth
const (
	ContextUserID   = "user_id"
	ContextJWTToken = "jwtToken"
	ContextAuthTime = "auth_time"
)

// Auth returns a middleware that validates HS256 JWT tokens locally and stores
// the user id, raw token and authentication time in the gin context.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid token claims")
			return
		}

		// support multiple claim formats
		var userIDStr string
		if uid, ok := claims["user_id"].(string); ok {
			userIDStr = uid
		} else if sub, ok := claims["sub"].(string); ok {
			userIDStr = sub
		} else if uid, ok := claims["uid"].(string); ok {
			userIDStr = uid
		} else {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in token")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid user ID format")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextJWTToken, tokenString)
		if authTime, ok := authenticatedAt(claims); ok {
			c.Set(ContextAuthTime, authTime)
		}

		c.Next()
	}
}

// authenticatedAt reads the auth_time claim, falling back to iat
func authenticatedAt(claims jwt.MapClaims) (time.Time, bool) {
	if v, ok := claims["auth_time"].(float64); ok {
		return time.Unix(int64(v), 0), true
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		return iat.Time, true
	}
	return time.Time{}, false
}
