package middleware

import (
	"net/http"

	"gabinete-digital/internal/models"

	"github.com/gin-gonic/gin"
)

// RequirePermission bloqueia quem não tem a permissão no papel atual
func RequirePermission(permission models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := currentRole(c)
		if !ok {
			return
		}

		if !userRole.HasPermission(permission) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "Permissão insuficiente",
				"required":  permission,
				"user_role": userRole,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole exige papel igual ou superior a minRole
func RequireRole(minRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := currentRole(c)
		if !ok {
			return
		}

		if !userRole.IsHigherOrEqual(minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "Permissão insuficiente",
				"required_role": minRole,
				"user_role":     userRole,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// currentRole lê o papel gravado por AuthMiddleware. Em caso de falha a
// resposta já foi escrita e a cadeia abortada.
func currentRole(c *gin.Context) (models.UserRole, bool) {
	roleStr := c.GetString(ContextRole)
	if roleStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Usuário não autenticado",
		})
		c.Abort()
		return "", false
	}

	userRole, ok := models.FromString(roleStr)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Papel inválido",
		})
		c.Abort()
		return "", false
	}
	return userRole, true
}
