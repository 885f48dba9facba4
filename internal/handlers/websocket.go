package handlers

import (
	"net/http"

	"gabinete-digital/internal/middleware"
	"gabinete-digital/internal/models"
	"gabinete-digital/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WebSocketHandler struct {
	hub *realtime.Hub
	log logrus.FieldLogger
}

func NewWebSocketHandler(hub *realtime.Hub, log logrus.FieldLogger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: log}
}

// Connect troca a conexão autenticada por websocket
func (h *WebSocketHandler) Connect(c *gin.Context) {
	role := models.UserRole(c.GetString(middleware.ContextRole))
	if err := h.hub.ServeWS(c.Writer, c.Request, c.GetString(middleware.ContextUserID), role); err != nil {
		// O upgrader já respondeu ao cliente
		h.log.WithError(err).Warn("Falha no upgrade do websocket")
	}
}

// Stats informa quantos painéis estão conectados
func (h *WebSocketHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conectados": h.hub.Clients()})
}
