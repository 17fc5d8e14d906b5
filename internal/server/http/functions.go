package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/server/services"
)

type deleteUserRequest struct {
	UserID string `json:"userId"`
}

// deleteAuthUser removes an account together with its sessions. The caller's
// role is read from the database, not from the token, so a demoted admin
// loses the right immediately.
func (h *Handler) deleteAuthUser(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.String(http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if bearerToken(c) == "" {
		c.String(http.StatusUnauthorized, "Missing authorization header")
		return
	}
	if ok, _ := h.authenticate(c); !ok {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx := c.Request.Context()
	callerID := c.GetString(ctxUserID)
	caller, err := h.svc.Users.Profile(ctx, callerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.String(http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.log.Error(ctx, "loading caller profile", "error", err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	if !caller.IsAdmin() {
		c.String(http.StatusForbidden, "Forbidden: admin access required")
		return
	}

	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.String(http.StatusBadRequest, "Missing userId")
		return
	}

	if err := h.svc.Users.DeleteUser(ctx, callerID, req.UserID); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.String(http.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrorForbidden):
			c.String(http.StatusForbidden, "Forbidden")
		default:
			h.log.Error(ctx, "deleting user", "user_id", req.UserID, "error", err)
			c.String(http.StatusInternalServerError, "Failed to delete user")
		}
		return
	}
	h.opts.ViewState.ClearOwner(req.UserID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) deleteOldImage(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.String(http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req services.DeleteOldImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" || req.TableName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "imageUrl and tableName are required"})
		return
	}

	res, err := h.svc.Images.DeleteOldImage(c.Request.Context(), req)
	if err != nil {
		h.log.Error(c.Request.Context(), "deleting old image", "url", req.ImageURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "skipped": res.Skipped, "deleted": res.Deleted, "path": res.Path})
}
