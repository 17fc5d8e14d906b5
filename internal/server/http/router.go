package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(svc Services, opts Options, log logging.Logger) *gin.Engine {
	h := &Handler{svc: svc, opts: opts, log: log.With("module", "http")}

	r := gin.New()
	r.Use(h.recovery(), h.accessLog())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(h.corsMiddleware())
	if opts.RateLimitPerSecond > 0 {
		r.Use(h.rateLimit())
	}

	r.GET("/healthz", h.healthz)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	fn := r.Group("/functions/v1")
	{
		fn.Any("/delete-auth-user", h.deleteAuthUser)
		fn.Any("/delete-old-image", h.deleteOldImage)
		fn.GET("/og-banknote", h.ogBanknote)
	}

	api := r.Group("/api/v1")
	authed := api.Group("", h.requireAuth())
	public := api.Group("", h.optionalAuth())
	admin := api.Group("", h.requireAuth(), h.requireAdmin())

	// auth and profiles
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.POST("/auth/refresh", h.refresh)
	api.POST("/auth/logout", h.logout)
	authed.GET("/me", h.me)
	authed.PATCH("/me", h.updateMe)
	authed.PUT("/users/:id/role", h.setRole)
	api.GET("/profiles/:username", h.profile)

	// catalog
	api.GET("/countries", h.listCountries)
	api.GET("/countries/:id", h.getCountry)
	api.GET("/countries/by-name/:name", h.getCountryByName)
	api.GET("/countries/:id/definitions/:kind", h.listDefinitions)
	api.GET("/countries/:id/sultan-order", h.sultanOrder)
	api.GET("/countries/:id/category-order", h.categoryOrder)
	admin.POST("/countries", h.createCountry)
	admin.DELETE("/countries/:id", h.deleteCountry)
	admin.POST("/definitions", h.createDefinition)
	admin.PATCH("/definitions/:id/order", h.updateDefinitionOrder)
	admin.DELETE("/definitions/:id", h.deleteDefinition)

	api.GET("/banknotes", h.listBanknotes)
	api.GET("/banknotes/groups", h.banknoteGroups)
	api.GET("/banknotes/:id", h.getBanknote)
	api.GET("/banknotes/:id/images", h.banknoteImages)
	admin.POST("/banknotes", h.createBanknote)
	admin.PUT("/banknotes/:id", h.updateBanknote)
	admin.DELETE("/banknotes/:id", h.deleteBanknote)

	// collection and marketplace
	public.GET("/users/:id/collection", h.listCollection)
	public.GET("/users/:id/collection/groups", h.collectionGroups)
	public.GET("/collection/:id", h.getCollectionItem)
	authed.POST("/collection", h.addCollectionItem)
	authed.PUT("/collection/:id", h.updateCollectionItem)
	authed.DELETE("/collection/:id", h.deleteCollectionItem)
	authed.PUT("/collection/:id/sale", h.setForSale)

	api.GET("/marketplace", h.listMarketplace)
	api.GET("/marketplace/:id", h.getListing)
	authed.POST("/marketplace", h.createListing)
	authed.PATCH("/marketplace/:id/status", h.updateListingStatus)
	authed.DELETE("/marketplace/:id", h.removeListing)

	// community
	for _, board := range []models.Board{models.BoardForum, models.BoardBlog} {
		h.boardRoutes(api, authed, board)
	}

	// social
	authed.GET("/messages/conversations", h.conversations)
	authed.GET("/messages/with/:userId", h.conversation)
	authed.GET("/messages/unread-count", h.unreadMessages)
	authed.POST("/messages", h.sendMessage)
	authed.POST("/messages/:id/read", h.markMessageRead)

	authed.GET("/notifications", h.listNotifications)
	authed.GET("/notifications/unread-count", h.unreadNotifications)
	authed.POST("/notifications/:id/read", h.markNotificationRead)
	authed.POST("/notifications/read-all", h.markAllNotificationsRead)

	authed.POST("/users/:id/follow", h.follow)
	authed.DELETE("/users/:id/follow", h.unfollow)
	authed.GET("/users/:id/is-following", h.isFollowing)
	api.GET("/users/:id/followers", h.followers)
	api.GET("/users/:id/following", h.following)
	api.GET("/users/:id/follow-stats", h.followStats)

	api.GET("/badges", h.listBadges)
	api.GET("/users/:id/badges", h.userBadges)

	// images, view state, realtime
	authed.POST("/images", h.uploadImage)
	authed.POST("/images/presign", h.presignImage)

	authed.PUT("/view-state/:kind/:country", h.saveViewState)
	authed.GET("/view-state/:kind/:country", h.loadViewState)
	authed.DELETE("/view-state/:kind/:country", h.clearViewState)

	authed.GET("/realtime", h.realtime)

	return r
}

func (h *Handler) healthz(c *gin.Context) {
	if h.opts.Health != nil {
		if err := h.opts.Health(c.Request.Context()); err != nil {
			h.log.Warn(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
