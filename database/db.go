package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkravets/taskboard/internal/config"
	"github.com/mkravets/taskboard/internal/models"
)

// Init opens the configured database, runs migrations and seeds the
// predefined tags. Fatal on any failure; the server cannot run without
// its store.
func Init(cfg config.Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if err := ensureDir(cfg.SQLitePath); err != nil {
			zap.L().Fatal("Failed to prepare sqlite path", zap.Error(err))
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := Open(dialector)
	if err != nil {
		zap.L().Fatal("Failed to initialise database", zap.Error(err))
	}

	zap.L().Info("Database initialised and migrated successfully",
		zap.String("driver", cfg.Driver))
	return db
}

// Open connects through the given dialector, registers the join tables
// and migrates the schema. Split out from Init so tests can open
// throwaway sqlite databases.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The join rows carry their own created_at, so gorm must use our
	// models instead of implicit two-column tables.
	if err := db.SetupJoinTable(&models.Task{}, "Owners", &models.TaskOwner{}); err != nil {
		return nil, fmt.Errorf("register task_owners join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Task{}, "Tags", &models.TaskTag{}); err != nil {
		return nil, fmt.Errorf("register task_tags join table: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Board{},
		&models.Project{},
		&models.Owner{},
		&models.Tag{},
		&models.Event{},
		&models.Task{},
		&models.Note{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if err := seedTags(db); err != nil {
		return nil, err
	}
	return db, nil
}

func seedTags(db *gorm.DB) error {
	for _, name := range models.PredefinedTags {
		var n int64
		if err := db.Model(&models.Tag{}).Where("name = ?", name).Count(&n).Error; err != nil {
			return fmt.Errorf("check predefined tag %q: %w", name, err)
		}
		if n > 0 {
			continue
		}
		if err := db.Create(&models.Tag{Name: name, IsPredefined: true}).Error; err != nil {
			return fmt.Errorf("seed predefined tag %q: %w", name, err)
		}
	}
	return nil
}

func ensureDir(path string) error {
	if strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
