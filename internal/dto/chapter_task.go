package dto

import "chaptermark/internal/types"

// StartChapterTaskReq starts a chapter generation run. SrtText carries the
// raw subtitle content when the client does not use a multipart upload.
type StartChapterTaskReq struct {
	FileName string `json:"file_name"`
	SrtText  string `json:"srt_text"`
}

type StartChapterTaskResData struct {
	TaskId string `json:"task_id"`
}

type GetChapterTaskReq struct {
	TaskId string `form:"taskId" binding:"required"`
}

type GetChapterTaskResData struct {
	TaskId          string          `json:"task_id"`
	FileName        string          `json:"file_name"`
	Status          uint8           `json:"status"`
	StatusMsg       string          `json:"status_msg"`
	ProcessPct      uint8           `json:"process_percent"`
	FailReason      string          `json:"fail_reason,omitempty"`
	DurationSeconds float64         `json:"duration_seconds"`
	MomentTarget    int             `json:"moment_target"`
	TargetMet       bool            `json:"target_met"`
	ChunkCount      int             `json:"chunk_count"`
	FailedChunks    int             `json:"failed_chunks"`
	Chapters        []types.Chapter `json:"chapters,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
}
