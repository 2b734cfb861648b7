// Package store is the persistence layer for the restaurant catalog.
//
// A Store owns the single *gorm.DB for the process. It is built once by the
// composition root with Open, migrated with Sync and released with Close.
// Each entity is reached through a typed repository built on Table.
package store

import (
	"context"
	"fmt"
	"strings"

	"restaurant-menu-api/config"
	"restaurant-menu-api/logger"
	"restaurant-menu-api/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Store struct {
	DB  *gorm.DB
	log zerolog.Logger

	Restaurants *RestaurantRepository
	Menus       *MenuRepository
	Items       *ItemRepository
	Users       *UserRepository
}

// SyncOptions controls schema synchronisation.
type SyncOptions struct {
	// Force drops every table before migrating. Test setup only.
	Force bool
}

// Open connects to the SQLite database named in cfg with foreign keys enforced.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.ParseGormLevel(cfg.LogLevel), cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if isMemory(cfg.Name) {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := &Store{DB: db, log: log.With().Str("component", "store").Logger()}
	s.Restaurants = newRestaurantRepository(db)
	s.Menus = newMenuRepository(db)
	s.Items = newItemRepository(db)
	s.Users = newUserRepository(db)

	s.log.Info().Str("database", cfg.Name).Msg("database connected")
	return s, nil
}

func isMemory(name string) bool {
	return name == ":memory:" || strings.HasPrefix(name, "file::memory:")
}

func dsn(cfg config.DatabaseConfig) string {
	name := cfg.Name
	if name == ":memory:" {
		name = "file::memory:"
	}
	sep := "?"
	if strings.Contains(name, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		name, sep, cfg.BusyTimeout.Milliseconds())
}

// Sync creates or updates the schema. With Force set every table is dropped
// first, destroying all data.
func (s *Store) Sync(ctx context.Context, opts SyncOptions) error {
	tx := s.DB.WithContext(ctx)

	if opts.Force {
		// children before parents so no foreign key is left dangling
		if err := tx.Migrator().DropTable(&models.MenuItem{}, &models.Menu{}, &models.Item{}, &models.Restaurant{}, &models.User{}); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
		s.log.Warn().Msg("schema dropped")
	}

	if err := tx.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	s.log.Info().Bool("force", opts.Force).Msg("schema synchronised")
	return nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	s.log.Info().Msg("database closed")
	return sqlDB.Close()
}
