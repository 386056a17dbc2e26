package db

import (
	"fmt"

	"musewave/config"
	"musewave/logger"
	"musewave/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormDB owns schema migration. The repositories run raw SQL against the
// same database through the plain sql.DB handle; GORM is only used to keep
// the schema in sync with the model structs.
var GormDB *gorm.DB

// ConnectGormDB establishes the GORM connection used for migrations.
func ConnectGormDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// Cascades are handled explicitly in the repositories.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	return nil
}

// CloseGormDB closes the GORM database connection.
func CloseGormDB() error {
	if GormDB == nil {
		return nil
	}

	sqlDB, err := GormDB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// MigrateSchema auto-migrates all application models.
func MigrateSchema() error {
	if GormDB == nil {
		return fmt.Errorf("GORM database not initialized")
	}

	err := GormDB.AutoMigrate(
		&model.User{},
		&model.Album{},
		&model.Track{},
		&model.Like{},
		&model.Follow{},
		&model.Play{},
		&model.Download{},
		&model.Comment{},
		&model.Playlist{},
		&model.PlaylistTrack{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}

	logger.Info("Database schema migrated")
	return nil
}
