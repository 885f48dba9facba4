package handlers

import (
	"net/http"

	"gabinete-digital/internal/services"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

type PutSettingRequest struct {
	Value any `json:"valor"`
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.settings.All(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"configuracoes": settings})
}

func (h *SettingsHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	setting, err := h.settings.Get(ctx, c.Param("chave"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

func (h *SettingsHandler) Put(c *gin.Context) {
	var req PutSettingRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	setting, err := h.settings.Put(ctx, c.Param("chave"), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}
