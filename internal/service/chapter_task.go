package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"chaptermark/config"
	"chaptermark/internal/appdirs"
	"chaptermark/internal/dto"
	"chaptermark/internal/storage"
	"chaptermark/internal/types"
	"chaptermark/log"
	"chaptermark/pkg/errors"
)

var appDirsResolver = appdirs.Resolve

// StartChapterTask validates the upload, persists a new task and hands it
// to the executor. The pipeline itself runs asynchronously; clients poll
// GetTaskStatus.
func (s *Service) StartChapterTask(req dto.StartChapterTaskReq) (*dto.StartChapterTaskResData, error) {
	raw := req.SrtText
	if strings.TrimSpace(raw) == "" {
		return nil, errors.Wrap(errors.CodeInvalidParams, "subtitle content is required", nil)
	}
	if max := config.Conf.App.MaxUploadBytes; max > 0 && int64(len(raw)) > max {
		return nil, errors.WrapWithDetail(errors.CodeFileTooLarge, "Subtitle file exceeds the size limit",
			fmt.Sprintf("%d bytes, limit %d", len(raw), max), nil)
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = "subtitle.srt"
	}
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != ".srt" {
		return nil, errors.ErrUnsupportedExt
	}

	taskId := fmt.Sprintf("chapter_%s", uuid.NewString())
	srtPath, err := s.persistInput(taskId, raw)
	if err != nil {
		return nil, errors.Wrap(errors.CodeFileWriteError, "failed to store subtitle file", err)
	}

	task := &types.ChapterTask{
		TaskId:   taskId,
		FileName: fileName,
		SrtPath:  srtPath,
		Status:   types.ChapterTaskStatusProcessing,
		StatusMsg: "queued",
	}
	if err := storage.SaveTask(task); err != nil {
		return nil, errors.Wrap(errors.CodeDBError, "failed to persist task", err)
	}

	log.GetLogger().Info("chapter task started",
		zap.String("task_id", taskId), zap.String("file_name", fileName))

	s.dispatch(taskId)
	return &dto.StartChapterTaskResData{TaskId: taskId}, nil
}

func (s *Service) persistInput(taskId, raw string) (string, error) {
	dirs, err := appDirsResolver()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dirs.DataDir, "tasks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, taskId+".srt")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) dispatch(taskId string) {
	if s.executor != nil {
		if err := s.executor.Submit(taskId); err == nil {
			return
		} else {
			log.GetLogger().Warn("executor rejected task, running inline",
				zap.String("task_id", taskId), zap.Error(err))
		}
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.GetLogger().Error("chapter task panicked",
					zap.String("task_id", taskId), zap.Any("panic", r))
				s.failTask(taskId, fmt.Sprintf("internal error: %v", r))
			}
		}()
		_ = s.ProcessTask(context.Background(), taskId)
	}()
}

// ProcessTask runs the pipeline for a persisted task and stores the
// outcome. Called by the task runner, the queue worker or inline.
func (s *Service) ProcessTask(ctx context.Context, taskId string) error {
	task, err := storage.GetTask(taskId)
	if err != nil {
		return errors.Wrap(errors.CodeNotFound, "task not found", err)
	}

	raw, err := os.ReadFile(task.SrtPath)
	if err != nil {
		s.failTask(taskId, "stored subtitle file is missing")
		return errors.Wrap(errors.CodeFileNotFound, "stored subtitle file is missing", err)
	}

	task.Status = types.ChapterTaskStatusProcessing
	task.StatusMsg = "analyzing"
	task.ProcessPct = 20
	_ = storage.SaveTask(task)

	result, err := s.Pipeline.Run(ctx, string(raw))
	if err != nil {
		log.GetLogger().Error("chapter task failed",
			zap.String("task_id", taskId), zap.Error(err))
		s.failTask(taskId, err.Error())
		return err
	}

	chaptersJson, _ := json.Marshal(result.Chapters)
	warningsJson, _ := json.Marshal(result.Warnings)

	task.Status = types.ChapterTaskStatusSuccess
	task.StatusMsg = "done"
	task.ProcessPct = 100
	task.FailReason = ""
	task.DurationSeconds = result.Metadata.DurationSeconds
	task.MomentTarget = result.Plan.TargetMomentCount
	task.TargetMet = result.TargetMet
	task.ChunkCount = result.ChunkCount
	task.FailedChunks = len(result.FailedChunks)
	task.ChaptersJson = string(chaptersJson)
	task.WarningsJson = string(warningsJson)
	if err := storage.SaveTask(task); err != nil {
		return errors.Wrap(errors.CodeDBError, "failed to persist result", err)
	}

	log.GetLogger().Info("chapter task completed",
		zap.String("task_id", taskId),
		zap.Int("chapters", len(result.Chapters)),
		zap.Int("failed_chunks", len(result.FailedChunks)))
	return nil
}

func (s *Service) failTask(taskId, reason string) {
	task, err := storage.GetTask(taskId)
	if err != nil {
		return
	}
	task.Status = types.ChapterTaskStatusFailed
	task.StatusMsg = "failed"
	task.FailReason = reason
	_ = storage.SaveTask(task)
}

// GetTaskStatus returns the current state of a task, including the final
// chapter list once the run succeeded.
func (s *Service) GetTaskStatus(req dto.GetChapterTaskReq) (*dto.GetChapterTaskResData, error) {
	task, err := storage.GetTask(req.TaskId)
	if err != nil {
		return nil, errors.Wrap(errors.CodeNotFound, "task not found", err)
	}
	return taskToDto(task), nil
}

// GetTaskHistory lists recent tasks, newest first.
func (s *Service) GetTaskHistory(limit int) ([]dto.GetChapterTaskResData, error) {
	tasks, err := storage.GetTaskHistory(limit)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDBError, "failed to load history", err)
	}
	return lo.Map(tasks, func(t types.ChapterTask, _ int) dto.GetChapterTaskResData {
		return *taskToDto(&t)
	}), nil
}

// DeleteTask removes the task record and its stored input.
func (s *Service) DeleteTask(taskId string) error {
	task, err := storage.GetTask(taskId)
	if err == nil && task.SrtPath != "" {
		if err := os.Remove(task.SrtPath); err != nil && !os.IsNotExist(err) {
			log.GetLogger().Warn("failed to remove stored subtitle",
				zap.String("task_id", taskId), zap.Error(err))
		}
	}
	if err := storage.DeleteTask(taskId); err != nil {
		return errors.Wrap(errors.CodeDBError, "failed to delete task", err)
	}
	return nil
}

// RetryTask re-runs a failed task on its stored input.
func (s *Service) RetryTask(taskId string) (*dto.StartChapterTaskResData, error) {
	task, err := storage.GetTask(taskId)
	if err != nil {
		return nil, errors.Wrap(errors.CodeNotFound, "task not found", err)
	}
	if task.Status != types.ChapterTaskStatusFailed {
		return nil, errors.Wrap(errors.CodeInvalidParams, "only failed tasks can be retried", nil)
	}

	task.Status = types.ChapterTaskStatusProcessing
	task.StatusMsg = "queued"
	task.ProcessPct = 0
	task.FailReason = ""
	if err := storage.SaveTask(task); err != nil {
		return nil, errors.Wrap(errors.CodeDBError, "failed to persist task", err)
	}

	s.dispatch(taskId)
	return &dto.StartChapterTaskResData{TaskId: taskId}, nil
}

func taskToDto(task *types.ChapterTask) *dto.GetChapterTaskResData {
	res := &dto.GetChapterTaskResData{
		TaskId:          task.TaskId,
		FileName:        task.FileName,
		Status:          task.Status,
		StatusMsg:       task.StatusMsg,
		ProcessPct:      task.ProcessPct,
		FailReason:      task.FailReason,
		DurationSeconds: task.DurationSeconds,
		MomentTarget:    task.MomentTarget,
		TargetMet:       task.TargetMet,
		ChunkCount:      task.ChunkCount,
		FailedChunks:    task.FailedChunks,
	}
	if task.ChaptersJson != "" {
		_ = json.Unmarshal([]byte(task.ChaptersJson), &res.Chapters)
	}
	if task.WarningsJson != "" {
		_ = json.Unmarshal([]byte(task.WarningsJson), &res.Warnings)
	}
	return res
}
