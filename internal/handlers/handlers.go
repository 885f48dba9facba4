// Package handlers expõe os serviços por HTTP (gin).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gabinete-digital/internal/services"
	"gabinete-digital/internal/utils"
	"gabinete-digital/pkg/validator"

	"github.com/gin-gonic/gin"
)

// requestTimeout limita cada ida ao armazenamento
const requestTimeout = 10 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError traduz os erros dos serviços em status HTTP
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		body := gin.H{"error": "Dados inválidos"}
		if fields := validator.Describe(err); fields != nil {
			body["fields"] = fields
		} else {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, utils.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordenadas inválidas"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro não encontrado"})
	case errors.Is(err, services.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": services.SlugTakenMessage})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Tempo esgotado ao acessar o banco"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno. Tente novamente."})
	}
}

// bindJSON decodifica o corpo; a validação fica com os serviços
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Corpo da requisição inválido",
			"details": err.Error(),
		})
		return false
	}
	return true
}
