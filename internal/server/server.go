// Package server assembles the HTTP backend: service, executor, routes.
package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chaptermark/config"
	"chaptermark/internal/handler"
	"chaptermark/internal/queue"
	"chaptermark/internal/router"
	"chaptermark/internal/service"
	"chaptermark/internal/taskrunner"
	"chaptermark/log"
)

// StartBackend wires the service to an executor and serves the API.
// Blocks until the listener stops.
func StartBackend() error {
	svc := service.NewService()

	if addr := config.Conf.Queue.RedisAddr; addr != "" {
		q := queue.NewQueue(queue.ConfigFromApp())
		svc.SetExecutor(q)
		go func() {
			if err := queue.StartWorker(q, svc); err != nil {
				log.GetLogger().Error("queue worker stopped", zap.Error(err))
			}
		}()
		log.GetLogger().Info("using redis-backed queue", zap.String("redis_addr", addr))
	} else {
		runner := taskrunner.New(svc, taskrunner.Config{
			Concurrency: config.Conf.Queue.Concurrency,
		})
		svc.SetExecutor(runner)
		log.GetLogger().Info("using in-process task runner")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	router.SetupRouter(engine, handler.NewHandler(svc))

	addr := fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
	log.GetLogger().Info("backend listening", zap.String("addr", addr))
	return engine.Run(addr)
}
