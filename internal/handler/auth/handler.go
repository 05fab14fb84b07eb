// Package auth exposes login, logout, tenant switching and the /init
// endpoint. The handler owns the session cookie; services below it never see
// HTTP.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/config"
	"github.com/vetdesk/backoffice-api/internal/handler"
	"github.com/vetdesk/backoffice-api/internal/middleware"
	authservice "github.com/vetdesk/backoffice-api/internal/service/auth"
	"github.com/vetdesk/backoffice-api/internal/service/session"
)

type Handler struct {
	auth     *authservice.Service
	sessions *session.Service
	cookie   config.SessionConfig
}

func NewHandler(auth *authservice.Service, sessions *session.Service, cookie config.SessionConfig) *Handler {
	return &Handler{
		auth:     auth,
		sessions: sessions,
		cookie:   cookie,
	}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

// RegisterRoutes mounts the endpoints that require an authenticated session.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/tenants", h.ListTenants)
	r.POST("/auth/switch-tenant", h.SwitchTenant)
	r.GET("/init", h.Init)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type switchTenantRequest struct {
	TenantID uuid.UUID `json:"tenantId" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	identity, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	var tenantID *uuid.UUID
	if identity.Tenant != nil {
		tenantID = &identity.Tenant.ID
	}
	_, token, err := h.sessions.Start(c.Request.Context(), identity.User.ID, tenantID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.setCookie(c, token, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, identity)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), middleware.SessionID(c)); err != nil {
		handler.Error(c, err)
		return
	}
	h.setCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Init rebuilds the identity for an existing session, used by the frontend on
// page load.
func (h *Handler) Init(c *gin.Context) {
	var tenantID *uuid.UUID
	if id, ok := middleware.TenantID(c); ok {
		tenantID = &id
	}

	identity, err := h.auth.GetCurrentUser(c.Request.Context(), middleware.UserID(c), tenantID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}

func (h *Handler) ListTenants(c *gin.Context) {
	tenants, err := h.auth.GetAvailableTenants(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

// SwitchTenant re-points the session at another tenant. On any failure the
// session keeps its previous tenant.
func (h *Handler) SwitchTenant(c *gin.Context) {
	var req switchTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	identity, err := h.auth.SwitchTenant(c.Request.Context(), middleware.UserID(c), req.TenantID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if err := h.sessions.SwitchTenant(c.Request.Context(), middleware.SessionID(c), req.TenantID); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.CookieSecure, true)
}
