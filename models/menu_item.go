package models

import "time"

// MenuItem is one row of the Menu↔Item join. ID doubles as the insertion
// sequence, so ordering by it replays the order items were added to a menu.
// The same pair may appear more than once.
type MenuItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MenuID    uint      `json:"menu_id" gorm:"not null;index"`
	Menu      *Menu     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ItemID    uint      `json:"item_id" gorm:"not null;index"`
	Item      *Item     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

func (MenuItem) TableName() string { return "menu_items" }

func (j MenuItem) Key() uint { return j.ID }

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &Restaurant{}, &Menu{}, &Item{}, &MenuItem{}}
}
