package handlers

import (
	"net/http"

	"restaurant-menu-api/models"
	"restaurant-menu-api/store"

	"github.com/gin-gonic/gin"
)

// ── Menus ───────────────────────────────────────────────────────────────────

type CreateMenuRequest struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	RestaurantID *uint  `json:"restaurant_id"`
}

// ListMenus returns every menu, optionally with ?include=Items
func (h *Handler) ListMenus(c *gin.Context) {
	menus, err := h.store.Menus.FindAll(c.Request.Context(), filters(c, "name"), includes(c)...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(menus), "menus": menus})
}

// GetMenu returns a single menu
func (h *Handler) GetMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	menu, err := h.store.Menus.FindByKey(c.Request.Context(), id, includes(c)...)
	if err != nil {
		h.fail(c, err)
		return
	}
	if menu == nil {
		notFound(c, "Menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": menu})
}

// CreateMenu adds a menu, optionally owned by a restaurant. "title" is
// accepted in place of "name".
func (h *Handler) CreateMenu(c *gin.Context) {
	var req CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := req.Name
	if name == "" {
		name = req.Title
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	menu := models.Menu{Name: name, RestaurantID: req.RestaurantID}
	if err := h.store.Menus.Create(c.Request.Context(), &menu); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu created", "menu": menu})
}

// UpdateMenu merges the posted attributes into the menu
func (h *Handler) UpdateMenu(c *gin.Context) {
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
	menu, err := h.store.Menus.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if menu == nil {
		notFound(c, "Menu")
		return
	}
	if err := h.store.Menus.Update(ctx, menu, store.Attrs(req)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu updated", "menu": menu})
}

// DeleteMenu removes a menu and its item links; the items stay.
func (h *Handler) DeleteMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	menu, err := h.store.Menus.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if menu == nil {
		notFound(c, "Menu")
		return
	}
	if err := h.store.Menus.Destroy(ctx, menu); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted"})
}

// GetMenuItems returns the menu's items in the order they were added
func (h *Handler) GetMenuItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	menu, err := h.store.Menus.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if menu == nil {
		notFound(c, "Menu")
		return
	}
	items, err := h.store.Menus.GetItems(ctx, menu)
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"menu": menu.Name, "count": len(items), "items": items})
}

func itemRefs(ids []uint) []*models.Item {
	items := make([]*models.Item, len(ids))
	for i, id := range ids {
		items[i] = &models.Item{ID: id}
	}
	return items
}

// AddMenuItems appends items, by id and in the posted order, to a menu
func (h *Handler) AddMenuItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.Menus.AddItems(c.Request.Context(), &models.Menu{ID: id}, itemRefs(req.IDs)...); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Items added", "menu_id": id, "item_ids": req.IDs})
}

// RemoveMenuItems unlinks items, by id, from a menu
func (h *Handler) RemoveMenuItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	removed, err := h.store.Menus.RemoveItems(c.Request.Context(), &models.Menu{ID: id}, itemRefs(req.IDs)...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Items removed", "menu_id": id, "removed": removed})
}
