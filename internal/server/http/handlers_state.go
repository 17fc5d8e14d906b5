package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/server/services"
	"github.com/ottocollect/ottocollect/internal/server/viewstate"
)

const maxViewStateSize = 64 << 10

type presignRequest struct {
	Ext string `json:"ext" binding:"required"`
}

func (h *Handler) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "upload image", err)
		return
	}
	if fh.Size > services.MaxImageSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Failed to upload image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, "upload image", err)
		return
	}
	defer f.Close()

	url, err := h.svc.Images.Upload(c.Request.Context(), c.GetString(ctxUserID), fh.Filename, f)
	if err != nil {
		h.fail(c, "upload image", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *Handler) presignImage(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "prepare upload", err)
		return
	}
	up, err := h.svc.Images.PresignUpload(c.Request.Context(), c.GetString(ctxUserID), req.Ext)
	if err != nil {
		h.fail(c, "prepare upload", err)
		return
	}
	c.JSON(http.StatusOK, up)
}

func viewStateKey(c *gin.Context) viewstate.Key {
	return viewstate.Key{
		Owner:   c.GetString(ctxUserID),
		Kind:    viewstate.Kind(c.Param("kind")),
		Country: c.Param("country"),
	}
}

func (h *Handler) saveViewState(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxViewStateSize+1))
	if err != nil {
		h.badRequest(c, "save view state", err)
		return
	}
	if len(body) > maxViewStateSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Failed to save view state"})
		return
	}
	if err := h.opts.ViewState.Save(viewStateKey(c), body); err != nil {
		h.fail(c, "save view state", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) loadViewState(c *gin.Context) {
	value, ok, err := h.opts.ViewState.Load(viewStateKey(c))
	if err != nil {
		h.fail(c, "load view state", err)
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Failed to load view state"})
		return
	}
	c.Data(http.StatusOK, "application/json", value)
}

func (h *Handler) clearViewState(c *gin.Context) {
	h.opts.ViewState.Clear(viewStateKey(c))
	c.Status(http.StatusNoContent)
}

func (h *Handler) realtime(c *gin.Context) {
	h.opts.Socket.Serve(c.Writer, c.Request, c.GetString(ctxUserID))
}
