// Package report exposes the financial report endpoints. Routes are mounted
// behind the admin-or-dev gate.
package report

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/handler"
	"github.com/vetdesk/backoffice-api/internal/middleware"
	"github.com/vetdesk/backoffice-api/internal/model"
	reportservice "github.com/vetdesk/backoffice-api/internal/service/report"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

type Handler struct {
	service *reportservice.Service
}

func NewHandler(service *reportservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/doctors", h.Doctors)
		reports.GET("/monthly-income-outcome", h.MonthlyIncomeOutcome)
	}
}

func (h *Handler) Doctors(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctorId"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("doctorId is required"))
		return
	}
	month, err := queryMonth(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	days, err := h.service.DoctorsReport(c.Request.Context(), tenantID, doctorID, month)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *Handler) MonthlyIncomeOutcome(c *gin.Context) {
	month, err := queryMonth(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	tenantID, _ := middleware.TenantID(c)
	result, err := h.service.MonthlyIncomeOutcome(c.Request.Context(), tenantID, month)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// queryMonth reads the optional month parameter, defaulting to the current
// month.
func queryMonth(c *gin.Context) (model.Month, error) {
	raw := c.Query("month")
	if raw == "" {
		return model.CurrentMonth(time.Now()), nil
	}
	month, err := model.ParseMonth(raw)
	if err != nil {
		return model.Month{}, apperrors.BadRequest(err.Error())
	}
	return month, nil
}
