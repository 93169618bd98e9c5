package router

import (
	"github.com/gin-gonic/gin"

	"chaptermark/internal/handler"
)

func SetupRouter(r *gin.Engine, hdl *handler.Handler) {
	api := r.Group("/api")
	{
		api.POST("/chapter/task", hdl.StartChapterTask)
		api.GET("/chapter/task", hdl.GetChapterTask)
		api.GET("/chapter/history", hdl.GetTaskHistory)
		api.DELETE("/chapter/task/:taskId", hdl.DeleteTask)
		api.POST("/chapter/task/:taskId/retry", hdl.RetryTask)
	}
}
