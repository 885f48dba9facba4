package handlers

import (
	"fmt"
	"net/http"
	"time"

	"gabinete-digital/internal/export"
	"gabinete-digital/internal/listview"
	"gabinete-digital/internal/models"
	"gabinete-digital/internal/services"

	"github.com/gin-gonic/gin"
)

type DemandHandler struct {
	demands *services.DemandService
}

// NearbyParams são os parâmetros da busca por proximidade
type NearbyParams struct {
	Latitude  float64 `form:"lat" binding:"required"`
	Longitude float64 `form:"lng" binding:"required"`
	RadiusKm  float64 `form:"raio"`
}

func NewDemandHandler(demands *services.DemandService) *DemandHandler {
	return &DemandHandler{demands: demands}
}

// demandFilters lê ?search=&status=&tipo= como a listagem do painel e ?bairro=
func demandFilters(c *gin.Context) models.DemandFilters {
	filters := listview.ParseDemandQuery(c.Request.URL.Query()).Filters()
	filters.Neighborhood = c.Query("bairro")
	return filters
}

func (h *DemandHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	demands, err := h.demands.List(ctx, demandFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"demandas": demands,
		"total":    len(demands),
	})
}

func (h *DemandHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	demand, err := h.demands.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, demand)
}

// Create é o cadastro manual pelo painel; o status inicial é sempre "nova"
func (h *DemandHandler) Create(c *gin.Context) {
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

	c.JSON(http.StatusCreated, demand)
}

func (h *DemandHandler) Update(c *gin.Context) {
	var req models.UpdateDemandInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	demand, err := h.demands.Update(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, demand)
}

func (h *DemandHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.demands.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DemandHandler) Stats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.demands.Stats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *DemandHandler) Nearby(c *gin.Context) {
	var params NearbyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Parâmetros inválidos",
			"details": err.Error(),
		})
		return
	}
	if params.RadiusKm <= 0 {
		params.RadiusKm = 1
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	demands, err := h.demands.Nearby(ctx, params.Latitude, params.Longitude, params.RadiusKm, demandFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"demandas": demands,
		"raio":     params.RadiusKm,
	})
}

// Export baixa a listagem filtrada como planilha
func (h *DemandHandler) Export(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	demands, err := h.demands.List(ctx, demandFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := export.Demands(demands)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("demandas-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, data)
}
