package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

type messageRequest struct {
	ReceiverID      string  `json:"receiverId" binding:"required"`
	Content         string  `json:"content"`
	ReferenceItemID *string `json:"referenceItemId"`
}

func (h *Handler) conversations(c *gin.Context) {
	list, err := h.svc.Messages.Conversations(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		h.fail(c, "load conversations", err)
		return
	}
	if list == nil {
		list = []models.Conversation{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) conversation(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.svc.Messages.Conversation(c.Request.Context(), c.GetString(ctxUserID), c.Param("userId"), limit)
	if err != nil {
		h.fail(c, "load messages", err)
		return
	}
	if list == nil {
		list = []models.Message{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) unreadMessages(c *gin.Context) {
	n, err := h.svc.Messages.UnreadCount(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		h.fail(c, "count unread messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "send message", err)
		return
	}
	msg, err := h.svc.Messages.Send(c.Request.Context(), c.GetString(ctxUserID), req.ReceiverID, req.Content, req.ReferenceItemID)
	if err != nil {
		h.fail(c, "send message", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) markMessageRead(c *gin.Context) {
	if err := h.svc.Messages.MarkRead(c.Request.Context(), c.GetString(ctxUserID), c.Param("id")); err != nil {
		h.fail(c, "mark message as read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.svc.Notifications.List(c.Request.Context(), c.GetString(ctxUserID), limit)
	if err != nil {
		h.fail(c, "load notifications", err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) unreadNotifications(c *gin.Context) {
	n, err := h.svc.Notifications.UnreadCount(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		h.fail(c, "count unread notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	if err := h.svc.Notifications.MarkRead(c.Request.Context(), c.GetString(ctxUserID), c.Param("id")); err != nil {
		h.fail(c, "mark notification as read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	if err := h.svc.Notifications.MarkAllRead(c.Request.Context(), c.GetString(ctxUserID)); err != nil {
		h.fail(c, "mark notifications as read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) follow(c *gin.Context) {
	if err := h.svc.Follows.Follow(c.Request.Context(), c.GetString(ctxUserID), c.Param("id")); err != nil {
		h.fail(c, "follow user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) unfollow(c *gin.Context) {
	if err := h.svc.Follows.Unfollow(c.Request.Context(), c.GetString(ctxUserID), c.Param("id")); err != nil {
		h.fail(c, "unfollow user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) isFollowing(c *gin.Context) {
	ok, err := h.svc.Follows.IsFollowing(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		h.fail(c, "check follow status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ok})
}

func (h *Handler) followers(c *gin.Context) {
	list, err := h.svc.Follows.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load followers", err)
		return
	}
	c.JSON(http.StatusOK, publicUsers(list))
}

func (h *Handler) following(c *gin.Context) {
	list, err := h.svc.Follows.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load followed users", err)
		return
	}
	c.JSON(http.StatusOK, publicUsers(list))
}

func publicUsers(list []models.User) []models.User {
	out := make([]models.User, len(list))
	for i, u := range list {
		u.Email = ""
		out[i] = u
	}
	return out
}

func (h *Handler) followStats(c *gin.Context) {
	stats, err := h.svc.Follows.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load follow stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) listBadges(c *gin.Context) {
	list, err := h.svc.Points.Badges(c.Request.Context())
	if err != nil {
		h.fail(c, "load badges", err)
		return
	}
	if list == nil {
		list = []models.Badge{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) userBadges(c *gin.Context) {
	list, err := h.svc.Points.UserBadges(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load badges", err)
		return
	}
	if list == nil {
		list = []models.UserBadge{}
	}
	c.JSON(http.StatusOK, list)
}
