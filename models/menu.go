package models

import "time"

// Menu belongs to at most one Restaurant. Destroying the restaurant leaves
// the menu in place with RestaurantID cleared.
type Menu struct {
	ID           uint  `json:"id" gorm:"primaryKey"`
	RestaurantID *uint `json:"restaurant_id" gorm:"index"`
	// Name is the display label. Older fixtures call it "title".
	Name      string    `json:"name" gorm:"size:255" validate:"max=255"`
	Items     []Item    `json:"items,omitempty" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m Menu) Key() uint { return m.ID }
