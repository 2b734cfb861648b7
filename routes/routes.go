package routes

import (
	"restaurant-menu-api/handlers"
	"restaurant-menu-api/middleware"
	"restaurant-menu-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth *middleware.Auth) {
	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		// Catalog reads (no auth needed)
		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:id", h.GetRestaurant)
		public.GET("/restaurants/:id/menus", h.GetRestaurantMenus)

		public.GET("/menus", h.ListMenus)
		public.GET("/menus/:id", h.GetMenu)
		public.GET("/menus/:id/items", h.GetMenuItems)

		public.GET("/items", h.ListItems)
		public.GET("/items/:id", h.GetItem)
		public.GET("/items/:id/menus", h.GetItemMenus)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(auth.Required())
	{
		authed.GET("/profile", h.GetProfile)
	}

	// ── Manager routes ─────────────────────────────────────────────
	manager := r.Group("/api")
	manager.Use(auth.Required(), middleware.RoleRequired(models.RoleManager))
	{
		manager.POST("/restaurants", h.CreateRestaurant)
		manager.PUT("/restaurants/:id", h.UpdateRestaurant)
		manager.DELETE("/restaurants/:id", h.DeleteRestaurant)
		manager.POST("/restaurants/:id/menus", h.AddRestaurantMenus)

		manager.POST("/menus", h.CreateMenu)
		manager.PUT("/menus/:id", h.UpdateMenu)
		manager.DELETE("/menus/:id", h.DeleteMenu)
		manager.POST("/menus/:id/items", h.AddMenuItems)
		manager.DELETE("/menus/:id/items", h.RemoveMenuItems)

		manager.POST("/items", h.CreateItem)
		manager.PUT("/items/:id", h.UpdateItem)
		manager.DELETE("/items/:id", h.DeleteItem)
	}
}
