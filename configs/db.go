package configs

import (
	"fmt"
	"strings"
	"time"

	"rta-backend/entity"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the configured database and migrates it.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	database, err := Open(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := SetupDatabase(database); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

func Open(driver, source string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", "sqlite":
		dialector = sqlite.Open(source)
	case "mysql":
		dialector = mysql.Open(source)
	case "postgres", "postgresql":
		dialector = postgres.Open(source)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if driver == "" || strings.EqualFold(driver, "sqlite") {
		// in-memory sqlite lives as long as one connection stays open
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	return gdb, nil
}

// OpenSQLiteMemory opens a private, migrated in-memory database named name.
func OpenSQLiteMemory(name string) (*gorm.DB, error) {
	gdb, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		return nil, err
	}
	if err := SetupDatabase(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

func SetupDatabase(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.OutboundMessage{},
	)
}
