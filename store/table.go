package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"restaurant-menu-api/errs"
	"restaurant-menu-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// include is a named association that can be eager-loaded with a query.
// prepare adjusts the root query (gorm Preload); load runs after the roots
// are fetched and fills them in place. Either may be nil.
type include[T any] struct {
	prepare func(tx *gorm.DB) *gorm.DB
	load    func(tx *gorm.DB, roots []*T) error
}

// Table is the CRUD handle for one entity type.
type Table[T models.Record] struct {
	db       *gorm.DB
	entity   string
	schema   *schema.Schema
	attrs    *attributeSet
	includes map[string]include[T]
}

func newTable[T models.Record](db *gorm.DB, aliases map[string]string) *Table[T] {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		panic(fmt.Sprintf("store: parse schema for %T: %v", *new(T), err))
	}
	entity := strings.ToLower(stmt.Schema.Name)

	return &Table[T]{
		db:       db,
		entity:   entity,
		schema:   stmt.Schema,
		attrs:    newAttributeSet(entity, stmt.Schema, aliases),
		includes: make(map[string]include[T]),
	}
}

func (t *Table[T]) declare(name string, inc include[T]) {
	t.includes[name] = inc
}

// Associations lists, sorted, the include names this table accepts.
func (t *Table[T]) Associations() []string {
	names := make([]string, 0, len(t.includes))
	for name := range t.includes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table[T]) resolve(names []string) ([]include[T], error) {
	incs := make([]include[T], 0, len(names))
	for _, name := range names {
		inc, ok := t.includes[name]
		if !ok {
			return nil, errs.Configuration(t.entity, "association %q is not declared (declared: %s)",
				name, strings.Join(t.Associations(), ", "))
		}
		incs = append(incs, inc)
	}
	return incs, nil
}

var byKey = clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}

// find runs a filtered query and its eager loads inside one read
// transaction, so the roots and their associations come from the same
// snapshot.
func (t *Table[T]) find(ctx context.Context, where Where, limit int, includes []string) ([]T, error) {
	incs, err := t.resolve(includes)
	if err != nil {
		return nil, err
	}
	cols, err := t.attrs.columns(where)
	if err != nil {
		return nil, err
	}

	var out []T
	run := func(tx *gorm.DB) error {
		q := tx
		if len(cols) > 0 {
			q = q.Where(cols)
		}
		for _, inc := range incs {
			if inc.prepare != nil {
				q = inc.prepare(q)
			}
		}
		q = q.Order(byKey)
		if limit > 0 {
			q = q.Limit(limit)
		}
		if err := q.Find(&out).Error; err != nil {
			return err
		}
		if len(out) == 0 {
			return nil
		}

		roots := make([]*T, len(out))
		for i := range out {
			roots[i] = &out[i]
		}
		for _, inc := range incs {
			if inc.load == nil {
				continue
			}
			if err := inc.load(tx, roots); err != nil {
				return err
			}
		}
		return nil
	}

	db := t.db.WithContext(ctx)
	if len(incs) == 0 {
		err = run(db)
	} else {
		err = db.Transaction(run)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", t.entity, err)
	}
	return out, nil
}

// Create validates rec, persists it and fills in its generated key.
func (t *Table[T]) Create(ctx context.Context, rec *T) error {
	if (*rec).Key() != 0 {
		return errs.Validation(t.entity, "id", "is assigned by the store")
	}
	if err := check(t.entity, rec); err != nil {
		return err
	}
	err := t.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error
	return translate(t.entity, err)
}

// BulkCreate inserts recs in one transaction. Nothing is written if any
// record fails validation or insertion.
func (t *Table[T]) BulkCreate(ctx context.Context, recs []*T) error {
	if len(recs) == 0 {
		return nil
	}
	for i, rec := range recs {
		if (*rec).Key() != 0 {
			return errs.Validation(t.entity, "id", "record %d: is assigned by the store", i)
		}
		if err := check(t.entity, rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).CreateInBatches(recs, 100).Error
	})
	return translate(t.entity, err)
}

// FindOne returns the first record, by key, matching where. A nil record and
// nil error mean nothing matched.
func (t *Table[T]) FindOne(ctx context.Context, where Where, includes ...string) (*T, error) {
	out, err := t.find(ctx, where, 1, includes)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

// FindAll returns every record matching where in key order.
func (t *Table[T]) FindAll(ctx context.Context, where Where, includes ...string) ([]T, error) {
	return t.find(ctx, where, 0, includes)
}

// FindByKey looks a record up by its key. A nil record and nil error mean it
// does not exist.
func (t *Table[T]) FindByKey(ctx context.Context, key uint, includes ...string) (*T, error) {
	return t.FindOne(ctx, Where{t.schema.PrioritizedPrimaryField.DBName: key}, includes...)
}

// Count returns the number of records matching where.
func (t *Table[T]) Count(ctx context.Context, where Where) (int64, error) {
	cols, err := t.attrs.columns(where)
	if err != nil {
		return 0, err
	}
	var n int64
	q := t.db.WithContext(ctx).Model(new(T))
	if len(cols) > 0 {
		q = q.Where(cols)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", t.entity, err)
	}
	return n, nil
}

// Update merges attrs into rec and persists only those columns. rec is
// reloaded afterwards, so eager-loaded collections on it are dropped.
// Attributes not named keep their stored values.
func (t *Table[T]) Update(ctx context.Context, rec *T, attrs Attrs) error {
	key := (*rec).Key()
	if key == 0 {
		return errs.Validation(t.entity, "id", "record has not been created")
	}
	assign, err := t.attrs.assignments(attrs)
	if err != nil {
		return err
	}
	if len(assign) == 0 {
		return nil
	}

	merged := *rec
	rv := reflect.ValueOf(&merged).Elem()
	cols := make(map[string]any, len(assign))
	for f, v := range assign {
		rv.FieldByIndex(f.StructField.Index).Set(reflect.ValueOf(v))
		cols[f.DBName] = v
	}
	if err := check(t.entity, &merged); err != nil {
		return err
	}

	pk := t.schema.PrioritizedPrimaryField.DBName
	var fresh T
	err = t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(T)).Where(map[string]any{pk: key}).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Reference(t.entity, fmt.Sprintf("record %d does not exist", key), nil)
		}
		return tx.Where(map[string]any{pk: key}).Take(&fresh).Error
	})
	if err != nil {
		return translate(t.entity, err)
	}

	*rec = fresh
	return nil
}

// Destroy removes rec. Looking it up afterwards yields no record.
func (t *Table[T]) Destroy(ctx context.Context, rec *T) error {
	key := (*rec).Key()
	if key == 0 {
		return errs.Validation(t.entity, "id", "record has not been created")
	}
	err := t.db.WithContext(ctx).Delete(new(T), key).Error
	return translate(t.entity, err)
}

func keysOf[T models.Record](roots []*T) []uint {
	keys := make([]uint, len(roots))
	for i, r := range roots {
		keys[i] = (*r).Key()
	}
	return keys
}
