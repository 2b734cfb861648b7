// Package seed provides the fixture records used to populate an empty
// catalog for tests and local development.
package seed

import (
	"context"
	"fmt"

	"restaurant-menu-api/models"
	"restaurant-menu-api/store"
)

// Restaurants returns a fresh copy of the restaurant fixtures.
func Restaurants() []*models.Restaurant {
	return []*models.Restaurant{
		{Name: "AppleBees", Location: "Texas", Cuisine: "FastFood"},
		{Name: "LittleSheep", Location: "Dallas", Cuisine: "Hotpot"},
		{Name: "Spice Grill", Location: "Houston", Cuisine: "Indian"},
	}
}

// MenuTitles are the display labels of the menu fixtures.
var MenuTitles = []string{"Breakfast", "Lunch", "Dinner"}

// Menus returns a fresh copy of the menu fixtures, unattached to any restaurant.
func Menus() []*models.Menu {
	menus := make([]*models.Menu, len(MenuTitles))
	for i, title := range MenuTitles {
		menus[i] = &models.Menu{Name: title}
	}
	return menus
}

// Items returns a fresh copy of the item fixtures.
func Items() []*models.Item {
	return []*models.Item{
		{Name: "bhindi masala", Image: "someimage.jpg", Price: 9.50, Vegetarian: true},
		{Name: "egusi soup", Image: "someimage.jpg", Price: 10.95, Vegetarian: false},
		{Name: "hamburger", Image: "someimage.jpg", Price: 6.49, Vegetarian: false},
	}
}

// Fixtures holds the records Load created, keys filled in.
type Fixtures struct {
	Restaurants []*models.Restaurant
	Menus       []*models.Menu
	Items       []*models.Item
}

// Load bulk-creates every fixture into s and returns the created records.
func Load(ctx context.Context, s *store.Store) (*Fixtures, error) {
	f := &Fixtures{
		Restaurants: Restaurants(),
		Menus:       Menus(),
		Items:       Items(),
	}

	if err := s.Restaurants.BulkCreate(ctx, f.Restaurants); err != nil {
		return nil, fmt.Errorf("seed restaurants: %w", err)
	}
	if err := s.Menus.BulkCreate(ctx, f.Menus); err != nil {
		return nil, fmt.Errorf("seed menus: %w", err)
	}
	if err := s.Items.BulkCreate(ctx, f.Items); err != nil {
		return nil, fmt.Errorf("seed items: %w", err)
	}
	return f, nil
}
