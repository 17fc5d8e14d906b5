package http

import (
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/server/auth"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/services"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.log.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	})
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	if len(h.opts.CORSOrigins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     h.opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func (h *Handler) rateLimit() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: h.opts.RateLimitPerSecond,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Millisecond).String(),
			})
		},
		KeyFunc: func(c *gin.Context) string { return c.ClientIP() },
	})
}

// bearerToken extracts the access token from the Authorization header or,
// for websocket handshakes, the token query parameter.
func bearerToken(c *gin.Context) string {
	if v := c.GetHeader(common.AuthorizationHeaderName); strings.HasPrefix(v, common.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(v, common.BearerPrefix))
	}
	return c.Query("token")
}

// authenticate parses the token if there is one. It reports false only for
// present but invalid tokens.
func (h *Handler) authenticate(c *gin.Context) (bool, error) {
	token := bearerToken(c)
	if token == "" {
		return true, nil
	}
	claims, err := auth.ParseToken(token, h.opts.SecretKey)
	if err != nil {
		return false, err
	}
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	return true, nil
}

// requireAuth rejects requests without a valid access token.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := h.authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "details": err.Error()})
			return
		}
		if c.GetString(ctxUserID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		c.Next()
	}
}

// optionalAuth identifies the caller when a token is sent, for endpoints
// that show more to owners.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, err := h.authenticate(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "details": err.Error()})
			return
		}
		c.Next()
	}
}

// requireAdmin must run after requireAuth.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !models.IsAdminRole(c.GetString(ctxRole)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}
		c.Next()
	}
}

func actorOf(c *gin.Context) services.Actor {
	return services.Actor{UserID: c.GetString(ctxUserID), Role: c.GetString(ctxRole)}
}
