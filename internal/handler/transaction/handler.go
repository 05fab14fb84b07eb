// Package transaction exposes manual ledger CRUD within the active tenant.
package transaction

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/handler"
	"github.com/vetdesk/backoffice-api/internal/middleware"
	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
	transactionservice "github.com/vetdesk/backoffice-api/internal/service/transaction"
)

type Handler struct {
	service *transactionservice.Service
}

func NewHandler(service *transactionservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	transactions := r.Group("/transactions")
	{
		transactions.GET("", h.List)
		transactions.POST("", h.Create)
		transactions.GET("/:id", h.Get)
		transactions.PATCH("/:id", h.Update)
		transactions.DELETE("/:id", h.Delete)
		transactions.POST("/:id/restore", h.Restore)
	}
}

type createRequest struct {
	Description string                `json:"description" binding:"required"`
	Type        model.TransactionType `json:"type" binding:"required"`
	Amount      float64               `json:"amount"`
	Datetime    time.Time             `json:"datetime" binding:"required"`
}

type updateRequest struct {
	Description *string                `json:"description"`
	Type        *model.TransactionType `json:"type"`
	Amount      *float64               `json:"amount"`
	Datetime    *time.Time             `json:"datetime"`
}

func (h *Handler) List(c *gin.Context) {
	filter, err := crud.ParseFilter(c.Query("includeDeleted"), c.Query("month"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	transactions, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadID(c)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	transaction, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	transaction, err := h.service.Create(c.Request.Context(), tenantID, middleware.UserID(c), transactionservice.CreateInput{
		Description: req.Description,
		Type:        req.Type,
		Amount:      req.Amount,
		Datetime:    req.Datetime,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
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
	transaction, err := h.service.Update(c.Request.Context(), tenantID, id, middleware.UserID(c), transactionservice.UpdateInput{
		Description: req.Description,
		Type:        req.Type,
		Amount:      req.Amount,
		Datetime:    req.Datetime,
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
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
	transaction, err := h.service.Restore(c.Request.Context(), tenantID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}
