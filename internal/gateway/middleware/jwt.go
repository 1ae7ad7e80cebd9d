package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beerhall/internal/utils"
)

const AdminCookie = "admin_token"

// AdminAuth gates every /admin route behind the signed session cookie.
// Any failure mode answers 401 with no further detail.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookie)
		if err != nil || token == "" {
			unauthorized(c)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil || claims.Role != "admin" {
			unauthorized(c)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Unauthorized",
	})
}
