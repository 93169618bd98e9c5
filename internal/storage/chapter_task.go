package storage

import (
	"errors"

	"gorm.io/gorm"

	"chaptermark/internal/types"
)

func SaveTask(task *types.ChapterTask) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	// TaskId is the public handle; Id stays internal. Upsert by TaskId.
	var existing types.ChapterTask
	result := DB.Where("task_id = ?", task.TaskId).First(&existing)
	if result.Error == nil {
		task.Id = existing.Id
		return DB.Save(task).Error
	}
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return DB.Create(task).Error
	}
	return result.Error
}

func GetTask(taskId string) (*types.ChapterTask, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var task types.ChapterTask
	if err := DB.Where("task_id = ?", taskId).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func GetTaskHistory(limit int) ([]types.ChapterTask, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var tasks []types.ChapterTask
	if err := DB.Order("create_time desc").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func DeleteTask(taskId string) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	return DB.Where("task_id = ?", taskId).Delete(&types.ChapterTask{}).Error
}

// MarkStaleTasks fails every task still marked as processing. Called on
// server startup to clean up runs interrupted by a previous shutdown.
func MarkStaleTasks() (int64, error) {
	if DB == nil {
		return 0, errors.New("database not initialized")
	}
	result := DB.Model(&types.ChapterTask{}).
		Where("status = ?", types.ChapterTaskStatusProcessing).
		Updates(map[string]interface{}{
			"status":      types.ChapterTaskStatusFailed,
			"fail_reason": "task interrupted by server restart",
			"status_msg":  "interrupted",
		})
	return result.RowsAffected, result.Error
}
