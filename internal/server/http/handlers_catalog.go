package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/paging"
)

type countryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	DisplayOrder int    `json:"displayOrder"`
}

type definitionRequest struct {
	Kind         models.DefinitionKind `json:"kind" binding:"required"`
	CountryID    string                `json:"countryId" binding:"required"`
	Name         string                `json:"name" binding:"required"`
	DisplayOrder int                   `json:"displayOrder"`
	ImageURL     string                `json:"imageUrl"`
}

type orderRequest struct {
	DisplayOrder *int `json:"displayOrder" binding:"required"`
}

// revealed is a lazily revealed slice of a listing.
type revealed[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// reveal applies ?page= to an already loaded list. Without the parameter the
// whole list is returned.
func reveal[T any](c *gin.Context, items []T, size int) (any, bool) {
	raw := c.Query("page")
	if raw == "" {
		if items == nil {
			items = []T{}
		}
		return items, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return nil, false
	}
	window := paging.Window(items, page, size)
	if window == nil {
		window = []T{}
	}
	return revealed[T]{Items: window, Page: page, Total: len(items), HasMore: len(window) < len(items)}, true
}

// waitReveal holds back every page after the first by RevealDelay. It
// reports false when the client went away meanwhile.
func (h *Handler) waitReveal(c *gin.Context) bool {
	if h.opts.RevealDelay <= 0 || h.opts.Clock == nil {
		return true
	}
	if page := c.Query("page"); page == "" || page == "1" {
		return true
	}
	select {
	case <-c.Request.Context().Done():
		c.Abort()
		return false
	case <-h.opts.Clock.After(h.opts.RevealDelay):
		return true
	}
}

// splitList reads a repeated or comma separated query parameter.
func splitList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func banknoteFilter(c *gin.Context) models.BanknoteFilter {
	return models.BanknoteFilter{
		CountryID:  c.Query("country"),
		Search:     c.Query("search"),
		Categories: splitList(c, "category"),
		Types:      splitList(c, "type"),
		Sort:       c.Query("sort"),
	}
}

func (h *Handler) listCountries(c *gin.Context) {
	list, err := h.svc.Catalog.Countries(c.Request.Context())
	if err != nil {
		h.fail(c, "load countries", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getCountry(c *gin.Context) {
	country, err := h.svc.Catalog.Country(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load country", err)
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *Handler) getCountryByName(c *gin.Context) {
	country, err := h.svc.Catalog.CountryByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, "load country", err)
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *Handler) createCountry(c *gin.Context) {
	var req countryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create country", err)
		return
	}
	country, err := h.svc.Catalog.CreateCountry(c.Request.Context(), &models.Country{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		h.fail(c, "create country", err)
		return
	}
	c.JSON(http.StatusCreated, country)
}

func (h *Handler) deleteCountry(c *gin.Context) {
	if err := h.svc.Catalog.DeleteCountry(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete country", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listDefinitions(c *gin.Context) {
	defs, err := h.svc.Catalog.Definitions(c.Request.Context(), models.DefinitionKind(c.Param("kind")), c.Param("id"))
	if err != nil {
		h.fail(c, "load "+c.Param("kind"), err)
		return
	}
	if defs == nil {
		defs = []models.Definition{}
	}
	c.JSON(http.StatusOK, defs)
}

func (h *Handler) sultanOrder(c *gin.Context) {
	m, err := h.svc.Catalog.SultanOrderMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load sultan order", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) categoryOrder(c *gin.Context) {
	m, err := h.svc.Catalog.CategoryOrderMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load category order", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) createDefinition(c *gin.Context) {
	var req definitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create definition", err)
		return
	}
	d, err := h.svc.Catalog.CreateDefinition(c.Request.Context(), &models.Definition{
		Kind:         req.Kind,
		CountryID:    req.CountryID,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.fail(c, "create definition", err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) updateDefinitionOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update display order", err)
		return
	}
	if err := h.svc.Catalog.UpdateDefinitionOrder(c.Request.Context(), c.Param("id"), *req.DisplayOrder); err != nil {
		h.fail(c, "update display order", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteDefinition(c *gin.Context) {
	if err := h.svc.Catalog.DeleteDefinition(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete definition", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listBanknotes(c *gin.Context) {
	filter := banknoteFilter(c)
	if filter.CountryID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to load banknotes", "details": "country is required"})
		return
	}
	notes, err := h.svc.Banknotes.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "load banknotes", err)
		return
	}
	if !h.waitReveal(c) {
		return
	}
	body, ok := reveal(c, notes, h.opts.RevealPageSize)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to load banknotes", "details": "invalid page"})
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) banknoteGroups(c *gin.Context) {
	filter := banknoteFilter(c)
	if filter.CountryID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to group banknotes", "details": "country is required"})
		return
	}
	bySultan, _ := strconv.ParseBool(c.DefaultQuery("bySultan", "false"))
	groups, err := h.svc.Banknotes.Groups(c.Request.Context(), filter, bySultan)
	if err != nil {
		h.fail(c, "group banknotes", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *Handler) getBanknote(c *gin.Context) {
	b, err := h.svc.Banknotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load banknote", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) banknoteImages(c *gin.Context) {
	images, err := h.svc.Banknotes.ImageFields(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load banknote images", err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *Handler) createBanknote(c *gin.Context) {
	var b models.Banknote
	if err := c.ShouldBindJSON(&b); err != nil {
		h.badRequest(c, "create banknote", err)
		return
	}
	created, err := h.svc.Banknotes.Create(c.Request.Context(), &b)
	if err != nil {
		h.fail(c, "create banknote", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateBanknote(c *gin.Context) {
	var b models.Banknote
	if err := c.ShouldBindJSON(&b); err != nil {
		h.badRequest(c, "update banknote", err)
		return
	}
	b.ID = c.Param("id")
	updated, err := h.svc.Banknotes.Update(c.Request.Context(), &b)
	if err != nil {
		h.fail(c, "update banknote", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteBanknote(c *gin.Context) {
	if err := h.svc.Banknotes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete banknote", err)
		return
	}
	c.Status(http.StatusNoContent)
}
