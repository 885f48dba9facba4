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

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// contactFilters lê ?search=&apoiador=, ?bairro= e ?tag= (repetível)
func contactFilters(c *gin.Context) models.ContactFilters {
	filters := listview.ParseContactQuery(c.Request.URL.Query()).Filters()
	filters.Neighborhood = c.Query("bairro")
	filters.Tags = c.QueryArray("tag")
	return filters
}

func (h *ContactHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	contacts, err := h.contacts.List(ctx, contactFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contatos": contacts,
		"total":    len(contacts),
	})
}

func (h *ContactHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	contact, err := h.contacts.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req models.CreateContactInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	contact, err := h.contacts.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var req models.UpdateContactInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	contact, err := h.contacts.Update(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.contacts.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ContactHandler) Stats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.contacts.Stats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ContactHandler) Export(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	contacts, err := h.contacts.List(ctx, contactFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := export.Contacts(contacts)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("contatos-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, data)
}
