package handlers

import (
	"net/http"

	"restaurant-menu-api/models"
	"restaurant-menu-api/store"

	"github.com/gin-gonic/gin"
)

// ── Restaurants ─────────────────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Cuisine  string `json:"cuisine"`
}

// ListRestaurants returns every restaurant, optionally filtered by
// ?name=, ?location= or ?cuisine= and with ?include=Menus.
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.store.Restaurants.FindAll(c.Request.Context(),
		filters(c, "name", "location", "cuisine"), includes(c)...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// GetRestaurant returns a single restaurant
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.store.Restaurants.FindByKey(c.Request.Context(), id, includes(c)...)
	if err != nil {
		h.fail(c, err)
		return
	}
	if restaurant == nil {
		notFound(c, "Restaurant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// CreateRestaurant adds a restaurant to the catalog
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant := models.Restaurant{
		Name:     req.Name,
		Location: req.Location,
		Cuisine:  req.Cuisine,
	}
	if err := h.store.Restaurants.Create(c.Request.Context(), &restaurant); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// UpdateRestaurant merges the posted attributes into the restaurant
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	restaurant, err := h.store.Restaurants.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if restaurant == nil {
		notFound(c, "Restaurant")
		return
	}
	if err := h.store.Restaurants.Update(ctx, restaurant, store.Attrs(req)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// DeleteRestaurant removes a restaurant. Its menus are kept, unowned.
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	restaurant, err := h.store.Restaurants.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if restaurant == nil {
		notFound(c, "Restaurant")
		return
	}
	if err := h.store.Restaurants.Destroy(ctx, restaurant); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

// GetRestaurantMenus returns the menus a restaurant owns
func (h *Handler) GetRestaurantMenus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	restaurant, err := h.store.Restaurants.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if restaurant == nil {
		notFound(c, "Restaurant")
		return
	}
	menus, err := h.store.Restaurants.GetMenus(ctx, restaurant)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant.Name, "count": len(menus), "menus": menus})
}

// AddRestaurantMenus attaches existing menus, by id, to a restaurant
func (h *Handler) AddRestaurantMenus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menus := make([]*models.Menu, len(req.IDs))
	for i, menuID := range req.IDs {
		menus[i] = &models.Menu{ID: menuID}
	}
	if err := h.store.Restaurants.AddMenus(c.Request.Context(), &models.Restaurant{ID: id}, menus...); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menus attached", "restaurant_id": id, "menu_ids": req.IDs})
}
