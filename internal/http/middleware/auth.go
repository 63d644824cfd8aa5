package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vinifvision/alerta-conecta-mobile/internal/upstream"
)

// BearerToken requires an Authorization header and makes the raw token
// available to the stores, which forward it to the occurrence backend.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Token de acesso ausente ou inválido",
				},
			})
			return
		}
		c.Request = c.Request.WithContext(upstream.WithToken(c.Request.Context(), token))
		c.Next()
	}
}
