// Package handler holds the helpers shared by all HTTP handlers. Error
// bodies are always {"message": ...}; internal causes are logged, never
// serialized.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

type errorBody struct {
	Message string `json:"message"`
}

// Error maps a service error onto its HTTP status and canonical body.
func Error(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("request failed")
	}
	c.JSON(status, errorBody{Message: apperrors.Message(err)})
}

// BindError reports a malformed request payload.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
}

// BadID reports an unparseable id path parameter.
func BadID(c *gin.Context) {
	c.JSON(http.StatusBadRequest, errorBody{Message: "invalid id"})
}
