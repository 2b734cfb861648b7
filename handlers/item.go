package handlers

import (
	"net/http"

	"restaurant-menu-api/models"
	"restaurant-menu-api/store"

	"github.com/gin-gonic/gin"
)

// ── Items ───────────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name       string  `json:"name" binding:"required"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	Vegetarian bool    `json:"vegetarian"`
}

// ListItems returns every item; ?vegetarian=true narrows to veg items
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.store.Items.FindAll(c.Request.Context(), filters(c, "name", "vegetarian"), includes(c)...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// GetItem returns a single item, optionally with ?include=Menus
func (h *Handler) GetItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := h.store.Items.FindByKey(c.Request.Context(), id, includes(c)...)
	if err != nil {
		h.fail(c, err)
		return
	}
	if item == nil {
		notFound(c, "Item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateItem adds an item to the catalog
func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.Item{
		Name:       req.Name,
		Image:      req.Image,
		Price:      req.Price,
		Vegetarian: req.Vegetarian,
	}
	if err := h.store.Items.Create(c.Request.Context(), &item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item created", "item": item})
}

// UpdateItem merges the posted attributes into the item
func (h *Handler) UpdateItem(c *gin.Context) {
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
	item, err := h.store.Items.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if item == nil {
		notFound(c, "Item")
		return
	}
	if err := h.store.Items.Update(ctx, item, store.Attrs(req)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated", "item": item})
}

// DeleteItem removes an item from the catalog and from every menu
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	item, err := h.store.Items.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if item == nil {
		notFound(c, "Item")
		return
	}
	if err := h.store.Items.Destroy(ctx, item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// GetItemMenus returns the menus an item appears on
func (h *Handler) GetItemMenus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	item, err := h.store.Items.FindByKey(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if item == nil {
		notFound(c, "Item")
		return
	}
	menus, err := h.store.Items.GetMenus(ctx, item)
	if err != nil {
		h.fail(c, err)
		return
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	c.JSON(http.StatusOK, gin.H{"item": item.Name, "count": len(menus), "menus": menus})
}
