package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type collectionItemRequest struct {
	BanknoteID    string           `json:"banknoteId"`
	Condition     string           `json:"condition"`
	GradeBy       string           `json:"gradeBy"`
	Grade         string           `json:"grade"`
	PublicNote    string           `json:"publicNote"`
	PrivateNote   string           `json:"privateNote"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	PurchaseDate  string           `json:"purchaseDate"`
	IsPrivate     bool             `json:"isPrivate"`
	ObverseImage  string           `json:"obverseImage"`
	ReverseImage  string           `json:"reverseImage"`
}

func (r collectionItemRequest) item() (*models.CollectionItem, error) {
	item := &models.CollectionItem{
		BanknoteID:    r.BanknoteID,
		Condition:     r.Condition,
		GradeBy:       r.GradeBy,
		Grade:         r.Grade,
		PublicNote:    r.PublicNote,
		PrivateNote:   r.PrivateNote,
		PurchasePrice: r.PurchasePrice,
		IsPrivate:     r.IsPrivate,
		ObverseImage:  r.ObverseImage,
		ReverseImage:  r.ReverseImage,
	}
	if r.PurchaseDate != "" {
		d, err := time.Parse(dateLayout, r.PurchaseDate)
		if err != nil {
			return nil, err
		}
		item.PurchaseDate = &d
	}
	return item, nil
}

type saleRequest struct {
	ForSale bool             `json:"forSale"`
	Price   *decimal.Decimal `json:"price"`
}

type listingRequest struct {
	CollectionItemID string          `json:"collectionItemId" binding:"required"`
	Price            decimal.Decimal `json:"price"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) listCollection(c *gin.Context) {
	items, err := h.svc.Collection.List(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), c.Query("country"))
	if err != nil {
		h.fail(c, "load collection", err)
		return
	}
	if !h.waitReveal(c) {
		return
	}
	body, ok := reveal(c, items, h.opts.RevealPageSize)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to load collection", "details": "invalid page"})
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) collectionGroups(c *gin.Context) {
	bySultan, _ := strconv.ParseBool(c.DefaultQuery("bySultan", "false"))
	groups, err := h.svc.Collection.Groups(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), c.Query("country"), bySultan)
	if err != nil {
		h.fail(c, "group collection", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *Handler) getCollectionItem(c *gin.Context) {
	item, err := h.svc.Collection.Get(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		h.fail(c, "load collection item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) addCollectionItem(c *gin.Context) {
	var req collectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "add collection item", err)
		return
	}
	item, err := req.item()
	if err != nil {
		h.badRequest(c, "add collection item", err)
		return
	}
	created, err := h.svc.Collection.Add(c.Request.Context(), actorOf(c), item)
	if err != nil {
		h.fail(c, "add collection item", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateCollectionItem(c *gin.Context) {
	var req collectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update collection item", err)
		return
	}
	item, err := req.item()
	if err != nil {
		h.badRequest(c, "update collection item", err)
		return
	}
	item.ID = c.Param("id")
	updated, err := h.svc.Collection.Update(c.Request.Context(), actorOf(c), item)
	if err != nil {
		h.fail(c, "update collection item", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteCollectionItem(c *gin.Context) {
	if err := h.svc.Collection.Delete(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		h.fail(c, "delete collection item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setForSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update sale status", err)
		return
	}
	listing, err := h.svc.Collection.SetForSale(c.Request.Context(), actorOf(c), c.Param("id"), req.ForSale, req.Price)
	if err != nil {
		h.fail(c, "update sale status", err)
		return
	}
	if listing == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) listMarketplace(c *gin.Context) {
	items, err := h.svc.Marketplace.List(c.Request.Context(), c.Query("country"), c.Query("status"))
	if err != nil {
		h.fail(c, "load marketplace", err)
		return
	}
	if !h.waitReveal(c) {
		return
	}
	body, ok := reveal(c, items, h.opts.RevealPageSize)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to load marketplace", "details": "invalid page"})
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) getListing(c *gin.Context) {
	item, err := h.svc.Marketplace.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "load listing", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createListing(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create listing", err)
		return
	}
	listing, err := h.svc.Marketplace.Create(c.Request.Context(), actorOf(c), req.CollectionItemID, req.Price)
	if err != nil {
		h.fail(c, "create listing", err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *Handler) updateListingStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update listing", err)
		return
	}
	if err := h.svc.Marketplace.UpdateStatus(c.Request.Context(), actorOf(c), c.Param("id"), req.Status); err != nil {
		h.fail(c, "update listing", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeListing(c *gin.Context) {
	if err := h.svc.Marketplace.Remove(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		h.fail(c, "remove listing", err)
		return
	}
	c.Status(http.StatusNoContent)
}
