// Package specialty exposes specialty CRUD within the active tenant.
package specialty

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/handler"
	"github.com/vetdesk/backoffice-api/internal/middleware"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
	specialtyservice "github.com/vetdesk/backoffice-api/internal/service/specialty"
)

type Handler struct {
	service *specialtyservice.Service
}

func NewHandler(service *specialtyservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	specialties := r.Group("/specialties")
	{
		specialties.GET("", h.List)
		specialties.POST("", h.Create)
		specialties.GET("/:id", h.Get)
		specialties.PATCH("/:id", h.Update)
		specialties.DELETE("/:id", h.Delete)
		specialties.POST("/:id/restore", h.Restore)
	}
}

type createRequest struct {
	Name       string  `json:"name" binding:"required"`
	DefaultFee float64 `json:"defaultFee"`
}

type updateRequest struct {
	Name       *string  `json:"name"`
	DefaultFee *float64 `json:"defaultFee"`
}

func (h *Handler) List(c *gin.Context) {
	filter, err := crud.ParseFilter(c.Query("includeDeleted"), "")
	if err != nil {
		handler.Error(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	specialties, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, specialties)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadID(c)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	specialty, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, specialty)
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	specialty, err := h.service.Create(c.Request.Context(), tenantID, middleware.UserID(c), specialtyservice.CreateInput{
		Name:       req.Name,
		DefaultFee: req.DefaultFee,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, specialty)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadID(c)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	specialty, err := h.service.Update(c.Request.Context(), tenantID, id, middleware.UserID(c), specialtyservice.UpdateInput{
		Name:       req.Name,
		DefaultFee: req.DefaultFee,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, specialty)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadID(c)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	if err := h.service.Delete(c.Request.Context(), tenantID, id, middleware.UserID(c)); err != nil {
		handler.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadID(c)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	specialty, err := h.service.Restore(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, specialty)
}
