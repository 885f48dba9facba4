package handlers

import (
	"net/http"

	"gabinete-digital/internal/listview"
	"gabinete-digital/internal/services"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	filters := listview.ParseMessageQuery(c.Request.URL.Query()).Filters()
	messages, err := h.messages.List(ctx, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensagens": messages,
		"total":     len(messages),
	})
}

func (h *MessageHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	message, err := h.messages.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	message, err := h.messages.MarkRead(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) MarkAnswered(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	message, err := h.messages.MarkAnswered(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Unread(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.messages.CountUnread(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"naoLidas": count})
}

func (h *MessageHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.messages.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
