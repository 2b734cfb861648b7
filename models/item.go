package models

import "time"

type Item struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:255" validate:"max=255"`
	Image      string    `json:"image" gorm:"size:255" validate:"max=255"`
	Price      float64   `json:"price" validate:"finite"`
	Vegetarian bool      `json:"vegetarian"`
	Menus      []Menu    `json:"menus,omitempty" gorm:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (i Item) Key() uint { return i.ID }
