// Package appointment exposes appointment CRUD within the active tenant.
// Listings accept a month filter alongside the usual deleted-state switch.
package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/handler"
	"github.com/vetdesk/backoffice-api/internal/middleware"
	appointmentservice "github.com/vetdesk/backoffice-api/internal/service/appointment"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
)

type Handler struct {
	service *appointmentservice.Service
}

func NewHandler(service *appointmentservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.List)
		appointments.POST("", h.Create)
		appointments.GET("/:id", h.Get)
		appointments.PATCH("/:id", h.Update)
		appointments.DELETE("/:id", h.Delete)
		appointments.POST("/:id/restore", h.Restore)
	}
}

type createRequest struct {
	DoctorID         uuid.UUID `json:"doctorId" binding:"required"`
	Datetime         time.Time `json:"datetime" binding:"required"`
	Fee              *float64  `json:"fee"`
	PercProfessional *float64  `json:"percProfessional"`
}

type updateRequest struct {
	DoctorID         *uuid.UUID `json:"doctorId"`
	Datetime         *time.Time `json:"datetime"`
	Fee              *float64   `json:"fee"`
	PercProfessional *float64   `json:"percProfessional"`
}

func (h *Handler) List(c *gin.Context) {
	filter, err := crud.ParseFilter(c.Query("includeDeleted"), c.Query("month"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	appointments, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadID(c)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	appointment, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	appointment, err := h.service.Create(c.Request.Context(), tenantID, middleware.UserID(c), appointmentservice.CreateInput{
		DoctorID:         req.DoctorID,
		Datetime:         req.Datetime,
		Fee:              req.Fee,
		PercProfessional: req.PercProfessional,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
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
	appointment, err := h.service.Update(c.Request.Context(), tenantID, id, middleware.UserID(c), appointmentservice.UpdateInput{
		DoctorID:         req.DoctorID,
		Datetime:         req.Datetime,
		Fee:              req.Fee,
		PercProfessional: req.PercProfessional,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
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
	appointment, err := h.service.Restore(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}
