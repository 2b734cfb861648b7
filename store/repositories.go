package store

import (
	"context"
	"fmt"

	"restaurant-menu-api/errs"
	"restaurant-menu-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ── Restaurants ─────────────────────────────────────────────────────────────

type RestaurantRepository struct {
	*Table[models.Restaurant]
}

func newRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	r := &RestaurantRepository{Table: newTable[models.Restaurant](db, nil)}

	preloadMenus := func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Menus", func(db *gorm.DB) *gorm.DB {
			return db.Order("menus.id")
		})
	}
	r.declare("Menus", include[models.Restaurant]{prepare: preloadMenus})
	r.declare("Menus.Items", include[models.Restaurant]{
		prepare: preloadMenus,
		load: func(tx *gorm.DB, restaurants []*models.Restaurant) error {
			var menus []*models.Menu
			for _, rest := range restaurants {
				for i := range rest.Menus {
					menus = append(menus, &rest.Menus[i])
				}
			}
			return loadMenuItems(tx, menus)
		},
	})
	return r
}

// AddMenus moves menus under restaurant. Every record must already exist;
// otherwise nothing changes.
func (r *RestaurantRepository) AddMenus(ctx context.Context, restaurant *models.Restaurant, menus ...*models.Menu) error {
	if len(menus) == 0 {
		return nil
	}
	if restaurant == nil || restaurant.ID == 0 {
		return errs.Reference("restaurant", "restaurant has not been created", nil)
	}
	ids := make([]uint, 0, len(menus))
	for _, m := range menus {
		if m == nil || m.ID == 0 {
			return errs.Reference("menu", "menu has not been created", nil)
		}
		ids = append(ids, m.ID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireKeys[models.Restaurant](tx, "restaurant", []uint{restaurant.ID}); err != nil {
			return err
		}
		if err := requireKeys[models.Menu](tx, "menu", ids); err != nil {
			return err
		}
		return tx.Model(&models.Menu{}).Where("id IN ?", ids).Update("restaurant_id", restaurant.ID).Error
	})
	if err != nil {
		return translate("menu", err)
	}

	for _, m := range menus {
		id := restaurant.ID
		m.RestaurantID = &id
	}
	return nil
}

// GetMenus returns the restaurant's menus in key order.
func (r *RestaurantRepository) GetMenus(ctx context.Context, restaurant *models.Restaurant) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurant.ID).Order("id").Find(&menus).Error
	if err != nil {
		return nil, fmt.Errorf("menus of restaurant %d: %w", restaurant.ID, err)
	}
	return menus, nil
}

// ── Menus ───────────────────────────────────────────────────────────────────

type MenuRepository struct {
	*Table[models.Menu]
}

func newMenuRepository(db *gorm.DB) *MenuRepository {
	r := &MenuRepository{Table: newTable[models.Menu](db, map[string]string{
		"title":        "name",
		"RestaurantId": "restaurant_id",
	})}
	r.declare("Items", include[models.Menu]{load: loadMenuItems})
	return r
}

// AddItems appends items to menu in argument order. Adding an item twice
// adds it twice. If the menu or any item does not exist nothing is written.
func (r *MenuRepository) AddItems(ctx context.Context, menu *models.Menu, items ...*models.Item) error {
	if len(items) == 0 {
		return nil
	}
	if menu == nil || menu.ID == 0 {
		return errs.Reference("menu", "menu has not been created", nil)
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it == nil || it.ID == 0 {
			return errs.Reference("item", "item has not been created", nil)
		}
		ids = append(ids, it.ID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireKeys[models.Menu](tx, "menu", []uint{menu.ID}); err != nil {
			return err
		}
		if err := requireKeys[models.Item](tx, "item", ids); err != nil {
			return err
		}
		rows := make([]models.MenuItem, len(ids))
		for i, id := range ids {
			rows[i] = models.MenuItem{MenuID: menu.ID, ItemID: id}
		}
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
	return translate("menu_item", err)
}

// RemoveItems deletes every join row linking menu to the given items and
// reports how many were removed.
func (r *MenuRepository) RemoveItems(ctx context.Context, menu *models.Menu, items ...*models.Item) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	res := r.db.WithContext(ctx).
		Where("menu_id = ? AND item_id IN ?", menu.ID, ids).
		Delete(&models.MenuItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("remove items from menu %d: %w", menu.ID, res.Error)
	}
	return res.RowsAffected, nil
}

// GetItems reads the menu's items in the order they were added.
func (r *MenuRepository) GetItems(ctx context.Context, menu *models.Menu) ([]models.Item, error) {
	grouped, err := loadThrough[models.Item](r.db.WithContext(ctx), itemsOfMenu, []uint{menu.ID})
	if err != nil {
		return nil, err
	}
	return grouped[menu.ID], nil
}

// ── Items ───────────────────────────────────────────────────────────────────

type ItemRepository struct {
	*Table[models.Item]
}

func newItemRepository(db *gorm.DB) *ItemRepository {
	r := &ItemRepository{Table: newTable[models.Item](db, nil)}
	r.declare("Menus", include[models.Item]{load: loadItemMenus})
	return r
}

// GetMenus reads the menus the item has been added to, in the order the
// associations were made.
func (r *ItemRepository) GetMenus(ctx context.Context, item *models.Item) ([]models.Menu, error) {
	grouped, err := loadThrough[models.Menu](r.db.WithContext(ctx), menusOfItem, []uint{item.ID})
	if err != nil {
		return nil, err
	}
	return grouped[item.ID], nil
}

// ── Users ───────────────────────────────────────────────────────────────────

type UserRepository struct {
	*Table[models.User]
}

func newUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Table: newTable[models.User](db, nil)}
}

// FindByEmail returns the account registered under email, or nil.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, Where{"email": email})
}
