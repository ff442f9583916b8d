package db

import (
	"fmt"
	"time"

	"palette-wardrobe/stylist/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	gormlib "gorm.io/gorm"
)

// InitSQLX returns the sqlx handle used for raw compatibility-table queries
// and health pings. Postgres gets its own lib/pq pool; SQLite shares the
// GORM connection so both see the same database file or memory.
func InitSQLX(cfg *config.Config, orm *gormlib.DB) (*sqlx.DB, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		return connectPostgres(cfg.PostgresDSN())
	case DriverSQLite:
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		return sqlx.NewDb(sqlDB, "sqlite3"), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func connectPostgres(dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return db, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres via sqlx: %w", err)
}
