package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/server/repositories/users"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type profileRequest struct {
	Username  *string `json:"username"`
	About     *string `json:"about"`
	AvatarURL *string `json:"avatarUrl"`
	CountryID *string `json:"countryId"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "register", err)
		return
	}
	u, err := h.svc.Users.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.fail(c, "register", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "log in", err)
		return
	}
	pair, err := h.svc.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, "log in", err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "refresh session", err)
		return
	}
	pair, err := h.svc.Users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, "refresh session", err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *Handler) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "log out", err)
		return
	}
	if err := h.svc.Users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.fail(c, "log out", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.Users.Profile(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		h.fail(c, "load profile", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) updateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update profile", err)
		return
	}
	u, err := h.svc.Users.UpdateProfile(c.Request.Context(), c.GetString(ctxUserID), users.ProfileUpdate{
		Username:  req.Username,
		About:     req.About,
		AvatarURL: req.AvatarURL,
		CountryID: req.CountryID,
	})
	if err != nil {
		h.fail(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) setRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update role", err)
		return
	}
	if err := h.svc.Users.SetRole(c.Request.Context(), actorOf(c), c.Param("id"), req.Role); err != nil {
		h.fail(c, "update role", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// profile is the public view of a user; the email stays private.
func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.Users.ProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.fail(c, "load profile", err)
		return
	}
	u.Email = ""
	c.JSON(http.StatusOK, u)
}
