package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/viewstate"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, viewstate.ErrUnknownKind),
		errors.Is(err, viewstate.ErrInvalidValue),
		dbx.IsInvalidText(err):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail answers with {"error": "Failed to <action>"}. Validation problems
// also carry details; server errors are logged and never leak.
func (h *Handler) fail(c *gin.Context, action string, err error) {
	status := statusOf(err)
	body := gin.H{"error": "Failed to " + action}
	if status == http.StatusBadRequest {
		body["details"] = err.Error()
	}
	if status == http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "action", action, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, body)
}

// badRequest answers a malformed request.
func (h *Handler) badRequest(c *gin.Context, action string, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to " + action, "details": err.Error()})
}
