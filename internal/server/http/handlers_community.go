package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/imageurl"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

// postRequest accepts imageUrls as a list or a single URL.
type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	ImageURLs any    `json:"imageUrls"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func (r postRequest) post(board models.Board) *models.Post {
	return &models.Post{
		Board:     board,
		Title:     r.Title,
		Content:   r.Content,
		Excerpt:   r.Excerpt,
		ImageURLs: imageurl.NormalizeImageURLs(r.ImageURLs),
	}
}

// boardRoutes registers the same post and comment routes for a board.
func (h *Handler) boardRoutes(api, authed *gin.RouterGroup, board models.Board) {
	prefix := "/" + string(board)

	api.GET(prefix+"/posts", func(c *gin.Context) { h.listPosts(c, board) })
	api.GET(prefix+"/posts/:id", func(c *gin.Context) { h.getPost(c, board) })
	api.GET(prefix+"/posts/:id/comments", func(c *gin.Context) { h.listComments(c, board) })
	authed.POST(prefix+"/posts", func(c *gin.Context) { h.createPost(c, board) })
	authed.PUT(prefix+"/posts/:id", func(c *gin.Context) { h.updatePost(c, board) })
	authed.DELETE(prefix+"/posts/:id", func(c *gin.Context) { h.deletePost(c, board) })
	authed.POST(prefix+"/posts/:id/comments", func(c *gin.Context) { h.addComment(c, board) })
	authed.DELETE(prefix+"/comments/:id", h.deleteComment)
}

func (h *Handler) listPosts(c *gin.Context, board models.Board) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	list, err := h.svc.Community.ListPosts(c.Request.Context(), board, limit, offset)
	if err != nil {
		h.fail(c, "load posts", err)
		return
	}
	if list == nil {
		list = []models.Post{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getPost(c *gin.Context, board models.Board) {
	p, err := h.svc.Community.GetPost(c.Request.Context(), board, c.Param("id"))
	if err != nil {
		h.fail(c, "load post", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) createPost(c *gin.Context, board models.Board) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create post", err)
		return
	}
	p, err := h.svc.Community.CreatePost(c.Request.Context(), actorOf(c), req.post(board))
	if err != nil {
		h.fail(c, "create post", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updatePost(c *gin.Context, board models.Board) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update post", err)
		return
	}
	p := req.post(board)
	p.ID = c.Param("id")
	updated, err := h.svc.Community.UpdatePost(c.Request.Context(), actorOf(c), p)
	if err != nil {
		h.fail(c, "update post", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deletePost(c *gin.Context, board models.Board) {
	if err := h.svc.Community.DeletePost(c.Request.Context(), actorOf(c), board, c.Param("id")); err != nil {
		h.fail(c, "delete post", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listComments(c *gin.Context, board models.Board) {
	list, err := h.svc.Community.ListComments(c.Request.Context(), board, c.Param("id"))
	if err != nil {
		h.fail(c, "load comments", err)
		return
	}
	if list == nil {
		list = []models.Comment{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) addComment(c *gin.Context, board models.Board) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "add comment", err)
		return
	}
	comment, err := h.svc.Community.AddComment(c.Request.Context(), actorOf(c), board, c.Param("id"), req.Content)
	if err != nil {
		h.fail(c, "add comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) deleteComment(c *gin.Context) {
	if err := h.svc.Community.DeleteComment(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		h.fail(c, "delete comment", err)
		return
	}
	c.Status(http.StatusNoContent)
}
