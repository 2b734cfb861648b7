package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"restaurant-menu-api/errs"
	"restaurant-menu-api/models"

	"gorm.io/gorm"
)

const joinTable = "menu_items"

// through describes one direction across the menu_items join.
type through struct {
	related string // table holding the related records
	near    string // join column holding the root key
	far     string // join column holding the related key
}

var (
	itemsOfMenu = through{related: "items", near: "menu_id", far: "item_id"}
	menusOfItem = through{related: "menus", near: "item_id", far: "menu_id"}
)

// joinRow is a related record tagged with the root it was reached from.
type joinRow[R any] struct {
	Record  R    `gorm:"embedded"`
	OwnerID uint `gorm:"column:owner_id"`
}

// loadThrough fetches, in one join query, every record related to the given
// roots and groups them by root key. Within a root the order is the order the
// join rows were inserted. A record related to several roots appears once
// under each of them as an independent copy.
func loadThrough[R any](tx *gorm.DB, via through, keys []uint) (map[uint][]R, error) {
	grouped := make(map[uint][]R, len(keys))
	if len(keys) == 0 {
		return grouped, nil
	}

	var rows []joinRow[R]
	err := tx.Table(via.related).
		Select(fmt.Sprintf("%s.*, %s.%s AS owner_id", via.related, joinTable, via.near)).
		Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.id", joinTable, joinTable, via.far, via.related)).
		Where(fmt.Sprintf("%s.%s IN ?", joinTable, via.near), keys).
		Order(joinTable + ".id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load %s through %s: %w", via.related, joinTable, err)
	}

	for _, r := range rows {
		grouped[r.OwnerID] = append(grouped[r.OwnerID], r.Record)
	}
	return grouped, nil
}

func loadMenuItems(tx *gorm.DB, menus []*models.Menu) error {
	grouped, err := loadThrough[models.Item](tx, itemsOfMenu, keysOf(menus))
	if err != nil {
		return err
	}
	for _, m := range menus {
		m.Items = grouped[m.ID]
		if m.Items == nil {
			m.Items = []models.Item{}
		}
	}
	return nil
}

func loadItemMenus(tx *gorm.DB, items []*models.Item) error {
	grouped, err := loadThrough[models.Menu](tx, menusOfItem, keysOf(items))
	if err != nil {
		return err
	}
	for _, it := range items {
		it.Menus = grouped[it.ID]
		if it.Menus == nil {
			it.Menus = []models.Menu{}
		}
	}
	return nil
}

// requireKeys fails with a reference error unless every key names an
// existing row of T.
func requireKeys[T any](tx *gorm.DB, entity string, keys []uint) error {
	want := unique(keys)

	var found []uint
	if err := tx.Model(new(T)).Where("id IN ?", want).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("check %s keys: %w", entity, err)
	}
	if len(found) == len(want) {
		return nil
	}

	have := make(map[uint]bool, len(found))
	for _, k := range found {
		have[k] = true
	}
	var missing []string
	for _, k := range want {
		if !have[k] {
			missing = append(missing, strconv.FormatUint(uint64(k), 10))
		}
	}
	return errs.Reference(entity, fmt.Sprintf("no %s with id %s", entity, strings.Join(missing, ", ")), nil)
}

func unique(keys []uint) []uint {
	seen := make(map[uint]bool, len(keys))
	out := make([]uint, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
