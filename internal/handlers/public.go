package handlers

import (
	"net/http"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/services"

	"github.com/gin-gonic/gin"
)

// PublicHandler atende o site: envio de demandas e mensagens, leitura de notícias
type PublicHandler struct {
	demands  *services.DemandService
	messages *services.MessageService
	news     *services.NewsService
}

type PublicNewsFilters struct {
	Limit int `form:"limit"`
}

type statusOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func NewPublicHandler(demands *services.DemandService, messages *services.MessageService, news *services.NewsService) *PublicHandler {
	return &PublicHandler{
		demands:  demands,
		messages: messages,
		news:     news,
	}
}

// Meta devolve as listas fixas usadas pelos formulários
func (h *PublicHandler) Meta(c *gin.Context) {
	demandStatuses := make([]statusOption, 0, len(models.DemandStatuses))
	for _, s := range models.DemandStatuses {
		demandStatuses = append(demandStatuses, statusOption{ID: string(s), Label: s.Label()})
	}
	newsStatuses := make([]statusOption, 0, len(models.NewsStatuses))
	for _, s := range models.NewsStatuses {
		newsStatuses = append(newsStatuses, statusOption{ID: string(s), Label: s.Label()})
	}

	c.JSON(http.StatusOK, gin.H{
		"tiposDemanda":  models.DemandTypes,
		"statusDemanda": demandStatuses,
		"bairros":       models.Neighborhoods,
		"tagsSugeridas": models.SuggestedTags,
		"categorias":    models.NewsCategories,
		"statusNoticia": newsStatuses,
	})
}

// CreateDemand recebe o envio do assistente de demandas
func (h *PublicHandler) CreateDemand(c *gin.Context) {
	var req models.CreateDemandInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	demand, err := h.demands.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        demand.ID,
		"protocolo": demand.Protocol,
		"status":    demand.Status,
	})
}

func (h *PublicHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.messages.Send(ctx, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Mensagem enviada com sucesso",
	})
}

func (h *PublicHandler) ListNews(c *gin.Context) {
	var filters PublicNewsFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Parâmetros inválidos",
			"details": err.Error(),
		})
		return
	}
	if filters.Limit <= 0 || filters.Limit > 50 {
		filters.Limit = 12
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	articles, err := h.news.ListPublished(ctx, filters.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"noticias": articles})
}

// GetNews conta a visualização e devolve a notícia publicada
func (h *PublicHandler) GetNews(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.news.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}
