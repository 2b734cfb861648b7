package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"restaurant-menu-api/errs"
	"restaurant-menu-api/middleware"
	"restaurant-menu-api/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the catalog API over one Store.
type Handler struct {
	store *store.Store
	auth  *middleware.Auth
	log   zerolog.Logger
}

func New(s *store.Store, auth *middleware.Auth, log zerolog.Logger) *Handler {
	return &Handler{store: s, auth: auth, log: log}
}

// Health reports whether the database answers.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Restaurant Menu API",
		"version": "1.0.0",
	})
}

// Welcome lists the entry points.
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Welcome to the Restaurant Menu API",
		"health":      "/health",
		"restaurants": "/api/restaurants",
		"menus":       "/api/menus",
		"items":       "/api/items",
	})
}

// fail answers with the status the error's kind maps to.
func (h *Handler) fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.Error().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.JSON(status, gin.H{"error": errs.Public(err)})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// paramID parses a positive key from the named path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// includes reads ?include=Menus,Items into association names.
func includes(c *gin.Context) []string {
	raw := c.Query("include")
	if raw == "" {
		return nil
	}
	var names []string
	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// filters copies the allowed query parameters into an equality predicate.
// Values stay strings; the store converts "true"/"false" for bool columns.
func filters(c *gin.Context, allowed ...string) store.Where {
	where := store.Where{}
	for _, key := range allowed {
		if v, ok := c.GetQuery(key); ok {
			where[key] = v
		}
	}
	return where
}

type idsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,dive,gt=0"`
}
