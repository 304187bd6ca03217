package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voyatra/tripbook/internal/domain"
	"github.com/voyatra/tripbook/internal/service/resources"
)

type ResourceHandler struct {
	service resources.ResourceUseCase
}

func NewResourceHandler(service resources.ResourceUseCase) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func (h *ResourceHandler) Register(router *gin.RouterGroup) {
	router.GET("/:kind", h.list)
	router.GET("/:kind/:id", h.get)
}

func (h *ResourceHandler) list(c *gin.Context) {
	kind := domain.ResourceKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource kind"})
		return
	}
	list, err := h.service.List(c.Request.Context(), kind)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ResourceHandler) get(c *gin.Context) {
	kind := domain.ResourceKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource kind"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	resource, err := h.service.GetByID(c.Request.Context(), kind, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resource)
}
