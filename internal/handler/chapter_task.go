package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chaptermark/config"
	"chaptermark/internal/dto"
	"chaptermark/internal/response"
	"chaptermark/log"
	apperrors "chaptermark/pkg/errors"
)

// StartChapterTask accepts either a multipart upload (field "file") or a
// JSON body with inline SRT text, and starts an async generation run.
func (h *Handler) StartChapterTask(c *gin.Context) {
	var req dto.StartChapterTaskReq

	if file, err := c.FormFile("file"); err == nil {
		if max := config.Conf.App.MaxUploadBytes; max > 0 && file.Size > max {
			response.ErrorResponse(c, apperrors.ErrFileTooLarge)
			return
		}
		f, err := file.Open()
		if err != nil {
			response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "failed to read upload", err))
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "failed to read upload", err))
			return
		}
		req.FileName = file.Filename
		req.SrtText = string(data)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("StartChapterTask bind err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}

	data, err := h.Service.StartChapterTask(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

// GetChapterTask polls the status and result of one task.
func (h *Handler) GetChapterTask(c *gin.Context) {
	var req dto.GetChapterTaskReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}

	data, err := h.Service.GetTaskStatus(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

// GetTaskHistory lists recent tasks, newest first.
func (h *Handler) GetTaskHistory(c *gin.Context) {
	tasks, err := h.Service.GetTaskHistory(200)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, tasks)
}

// DeleteTask removes a task and its stored input.
func (h *Handler) DeleteTask(c *gin.Context) {
	taskId := c.Param("taskId")
	if taskId == "" {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "taskId is required", nil))
		return
	}

	if err := h.Service.DeleteTask(taskId); err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, gin.H{"task_id": taskId})
}

// RetryTask re-runs a failed task on its stored input.
func (h *Handler) RetryTask(c *gin.Context) {
	taskId := c.Param("taskId")
	if taskId == "" {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "taskId is required", nil))
		return
	}

	data, err := h.Service.RetryTask(taskId)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}
