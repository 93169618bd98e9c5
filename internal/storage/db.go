package storage

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chaptermark/internal/appdirs"
	"chaptermark/internal/types"
	"chaptermark/log"
)

var DB *gorm.DB
var appDirsResolver = appdirs.Resolve

func InitDB() {
	dbPath, err := resolveDBPath()
	if err != nil {
		log.GetLogger().Fatal("failed to resolve database path", zap.Error(err))
	}
	if err := InitDBAt(dbPath); err != nil {
		log.GetLogger().Fatal("failed to initialize database", zap.String("path", dbPath), zap.Error(err))
	}
	log.GetLogger().Info("database initialized", zap.String("path", dbPath))
}

// InitDBAt opens (creating if needed) the sqlite database at the given
// path and migrates the schema.
func InitDBAt(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&types.ChapterTask{}); err != nil {
		return err
	}

	DB = db
	return nil
}

func resolveDBPath() (string, error) {
	dirs, err := appDirsResolver()
	if err != nil {
		return "", err
	}
	return appdirs.DBPathFor(dirs), nil
}
