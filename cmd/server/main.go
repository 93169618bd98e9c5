package main

import (
	"os"

	"go.uber.org/zap"

	"chaptermark/config"
	"chaptermark/internal/server"
	"chaptermark/internal/storage"
	"chaptermark/log"
)

func main() {
	log.InitLogger()
	defer log.GetLogger().Sync()

	created, err := config.LoadOrCreateConfig()
	if err != nil {
		log.GetLogger().Error("failed to load config", zap.Error(err))
		os.Exit(1)
	}
	if created {
		log.GetLogger().Info("wrote default config, fill in the llm credentials before first use")
	}
	if err := config.CheckConfig(); err != nil {
		log.GetLogger().Error("invalid config", zap.Error(err))
		os.Exit(1)
	}

	storage.InitDB()

	// Clean up tasks interrupted by a previous shutdown.
	if count, err := storage.MarkStaleTasks(); err != nil {
		log.GetLogger().Warn("failed to mark stale tasks", zap.Error(err))
	} else if count > 0 {
		log.GetLogger().Info("marked stale tasks as failed", zap.Int64("count", count))
	}

	if err := server.StartBackend(); err != nil {
		log.GetLogger().Error("backend failed", zap.Error(err))
		os.Exit(1)
	}
}
