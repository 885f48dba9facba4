package handlers

import (
	"net/http"

	"gabinete-digital/internal/listview"
	"gabinete-digital/internal/models"
	"gabinete-digital/internal/services"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct {
	news *services.NewsService
}

func NewNewsHandler(news *services.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

func (h *NewsHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	filters := listview.ParseNewsQuery(c.Request.URL.Query()).Filters()
	articles, err := h.news.List(ctx, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"noticias": articles,
		"total":    len(articles),
	})
}

// Get lê pelo id e não conta visualização
func (h *NewsHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.news.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *NewsHandler) Create(c *gin.Context) {
	var req models.CreateNewsInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.news.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *NewsHandler) Update(c *gin.Context) {
	var req models.UpdateNewsInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.news.Update(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.news.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
