// Package doctor exposes doctor CRUD within the active tenant.
package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/handler"
	"github.com/vetdesk/backoffice-api/internal/middleware"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
	doctorservice "github.com/vetdesk/backoffice-api/internal/service/doctor"
)

type Handler struct {
	service *doctorservice.Service
}

func NewHandler(service *doctorservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.List)
		doctors.POST("", h.Create)
		doctors.GET("/:id", h.Get)
		doctors.PATCH("/:id", h.Update)
		doctors.DELETE("/:id", h.Delete)
		doctors.POST("/:id/restore", h.Restore)
	}
}

type createRequest struct {
	FirstName        string     `json:"firstName" binding:"required"`
	LastName         string     `json:"lastName" binding:"required"`
	CRM              *string    `json:"crm"`
	SpecialtyID      *uuid.UUID `json:"specialtyId"`
	PercProfessional float64    `json:"percProfessional"`
	AppointmentFee   float64    `json:"appointmentFee"`
}

type updateRequest struct {
	FirstName        *string    `json:"firstName"`
	LastName         *string    `json:"lastName"`
	CRM              *string    `json:"crm"`
	SpecialtyID      *uuid.UUID `json:"specialtyId"`
	PercProfessional *float64   `json:"percProfessional"`
	AppointmentFee   *float64   `json:"appointmentFee"`
}

func (h *Handler) List(c *gin.Context) {
	filter, err := crud.ParseFilter(c.Query("includeDeleted"), "")
	if err != nil {
		handler.Error(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	doctors, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadID(c)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	doctor, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	doctor, err := h.service.Create(c.Request.Context(), tenantID, middleware.UserID(c), doctorservice.CreateInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		CRM:              req.CRM,
		SpecialtyID:      req.SpecialtyID,
		PercProfessional: req.PercProfessional,
		AppointmentFee:   req.AppointmentFee,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, doctor)
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
	doctor, err := h.service.Update(c.Request.Context(), tenantID, id, middleware.UserID(c), doctorservice.UpdateInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		CRM:              req.CRM,
		SpecialtyID:      req.SpecialtyID,
		PercProfessional: req.PercProfessional,
		AppointmentFee:   req.AppointmentFee,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
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
	doctor, err := h.service.Restore(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}
