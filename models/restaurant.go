package models

import "time"

// Record is implemented by every persisted entity. Key is the store-assigned
// surrogate key, zero until the record has been created.
type Record interface {
	Key() uint
}

type Restaurant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255" validate:"max=255"`
	Location  string    `json:"location" gorm:"size:255" validate:"max=255"`
	Cuisine   string    `json:"cuisine" gorm:"size:255" validate:"max=255"`
	Menus     []Menu    `json:"menus,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Restaurant) Key() uint { return r.ID }
