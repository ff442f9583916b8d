package db

import (
	"fmt"
	"strings"

	"palette-wardrobe/stylist/internal/config"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// InitORM opens the configured database. Unique violations surface as
// gorm.ErrDuplicatedKey on both drivers.
func InitORM(cfg *config.Config) (*gormlib.DB, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		return InitPostgresORM(cfg.PostgresDSN())
	case DriverSQLite:
		return InitSQLiteORM(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func InitPostgresORM(dsn string) (*gormlib.DB, error) {
	db, err := gormlib.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

func InitSQLiteORM(path string) (*gormlib.DB, error) {
	db, err := gormlib.Open(sqlite.Open(sqliteDSN(path)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	logging.Info("Opened SQLite via GORM", "path", path)
	return db, nil
}

// AutoMigrate creates or updates every wardrobe table.
func AutoMigrate(db *gormlib.DB) error {
	if err := db.AutoMigrate(gorm.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// sqliteDSN turns on foreign key enforcement for every pooled connection.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func gormConfig() *gormlib.Config {
	return &gormlib.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}
