package types

// ChapterTaskStatus values follow the usual lifecycle: 1 processing,
// 2 success, 3 failed.
type ChapterTaskStatus = uint8

const (
	ChapterTaskStatusProcessing ChapterTaskStatus = 1
	ChapterTaskStatusSuccess    ChapterTaskStatus = 2
	ChapterTaskStatusFailed     ChapterTaskStatus = 3
)

// ChapterTask is the persisted record for one chapter generation run.
type ChapterTask struct {
	Id              uint    `gorm:"primaryKey" json:"-"`
	TaskId          string  `gorm:"uniqueIndex;size:64" json:"task_id"`
	FileName        string  `json:"file_name"`
	SrtPath         string  `json:"-"`
	Status          uint8   `json:"status"`
	StatusMsg       string  `json:"status_msg"`
	FailReason      string  `json:"fail_reason"`
	ProcessPct      uint8   `json:"process_percent"`
	DurationSeconds float64 `json:"duration_seconds"`
	MomentTarget    int     `json:"moment_target"`
	TargetMet       bool    `json:"target_met"`
	ChunkCount      int     `json:"chunk_count"`
	FailedChunks    int     `json:"failed_chunks"`
	ChaptersJson    string  `json:"-"`
	WarningsJson    string  `json:"-"`
	CreateTime      int64   `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime      int64   `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
}
