package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaptermark/config"
	"chaptermark/internal/appdirs"
	"chaptermark/internal/dto"
	"chaptermark/internal/pipeline"
	"chaptermark/internal/proposer"
	"chaptermark/internal/storage"
	"chaptermark/internal/subtitle"
	"chaptermark/internal/types"
	"chaptermark/pkg/errors"
)

// syncExecutor runs tasks inline so tests observe final state directly.
type syncExecutor struct{ svc *Service }

func (e syncExecutor) Submit(taskId string) error {
	_ = e.svc.ProcessTask(context.Background(), taskId)
	return nil
}

func setupService(t *testing.T) *Service {
	t.Helper()
	tmp := t.TempDir()

	origResolver := appDirsResolver
	appDirsResolver = func() (appdirs.Paths, error) {
		return appdirs.Paths{
			DataDir:  filepath.Join(tmp, "data"),
			CacheDir: filepath.Join(tmp, "cache"),
			LogDir:   filepath.Join(tmp, "log"),
		}, nil
	}
	t.Cleanup(func() { appDirsResolver = origResolver })

	origDB := storage.DB
	t.Cleanup(func() { storage.DB = origDB })
	require.NoError(t, storage.InitDBAt(filepath.Join(tmp, "test.db")))

	origConf := config.Conf
	t.Cleanup(func() { config.Conf = origConf })
	config.Conf.App.MaxUploadBytes = 2 << 20
	config.Conf.Pipeline = config.PipelineConfig{
		TargetChunkMinutes: 6,
		MaxChunkMinutes:    8,
		MinChunkMinutes:    4,
		OverlapSeconds:     30,
		Concurrency:        2,
	}

	svc := NewServiceWith(proposer.HeuristicProposer{}, pipeline.OptionsFromConfig())
	svc.SetExecutor(syncExecutor{svc})
	return svc
}

func sampleSRT(minutes int) string {
	n := minutes * 12 // one 5s entry every 5 seconds
	entries := make([]types.SubtitleEntry, n)
	for i := range entries {
		entries[i] = types.SubtitleEntry{
			Id:           i + 1,
			StartSeconds: float64(i) * 5,
			EndSeconds:   float64(i+1) * 5,
			Text:         "the speaker keeps explaining the topic",
		}
	}
	return subtitle.Format(entries)
}

func TestStartChapterTask_RunsToCompletion(t *testing.T) {
	svc := setupService(t)

	res, err := svc.StartChapterTask(dto.StartChapterTaskReq{
		FileName: "lecture.srt",
		SrtText:  sampleSRT(20),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.TaskId, "chapter_"))

	status, err := svc.GetTaskStatus(dto.GetChapterTaskReq{TaskId: res.TaskId})
	require.NoError(t, err)
	assert.Equal(t, types.ChapterTaskStatusSuccess, status.Status)
	assert.Equal(t, uint8(100), status.ProcessPct)
	assert.NotEmpty(t, status.Chapters)
	assert.GreaterOrEqual(t, status.ChunkCount, 2)
	assert.InDelta(t, 1200, status.DurationSeconds, 1e-9)
}

func TestStartChapterTask_Validation(t *testing.T) {
	svc := setupService(t)

	_, err := svc.StartChapterTask(dto.StartChapterTaskReq{FileName: "a.srt", SrtText: "  "})
	assert.True(t, errors.Is(err, errors.CodeInvalidParams))

	_, err = svc.StartChapterTask(dto.StartChapterTaskReq{FileName: "notes.txt", SrtText: "1\n00:00:00,000 --> 00:00:01,000\nhi\n"})
	assert.True(t, errors.Is(err, errors.CodeUnsupportedExt))

	config.Conf.App.MaxUploadBytes = 10
	_, err = svc.StartChapterTask(dto.StartChapterTaskReq{FileName: "a.srt", SrtText: strings.Repeat("x", 11)})
	assert.True(t, errors.Is(err, errors.CodeFileTooLarge))
}

func TestProcessTask_FailureRecordedAndRetryable(t *testing.T) {
	svc := setupService(t)

	res, err := svc.StartChapterTask(dto.StartChapterTaskReq{
		FileName: "prose.srt",
		SrtText:  "plain prose\n\nwithout any cue blocks",
	})
	require.NoError(t, err)

	status, err := svc.GetTaskStatus(dto.GetChapterTaskReq{TaskId: res.TaskId})
	require.NoError(t, err)
	assert.Equal(t, types.ChapterTaskStatusFailed, status.Status)
	assert.NotEmpty(t, status.FailReason)

	// Failed tasks can be retried; the same bad input fails again.
	retry, err := svc.RetryTask(res.TaskId)
	require.NoError(t, err)
	assert.Equal(t, res.TaskId, retry.TaskId)

	status, err = svc.GetTaskStatus(dto.GetChapterTaskReq{TaskId: res.TaskId})
	require.NoError(t, err)
	assert.Equal(t, types.ChapterTaskStatusFailed, status.Status)
}

func TestRetryTask_OnlyFailedTasks(t *testing.T) {
	svc := setupService(t)

	res, err := svc.StartChapterTask(dto.StartChapterTaskReq{
		FileName: "lecture.srt",
		SrtText:  sampleSRT(10),
	})
	require.NoError(t, err)

	_, err = svc.RetryTask(res.TaskId)
	assert.True(t, errors.Is(err, errors.CodeInvalidParams))

	_, err = svc.RetryTask("missing-task")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestDeleteTask_RemovesRecordAndInput(t *testing.T) {
	svc := setupService(t)

	res, err := svc.StartChapterTask(dto.StartChapterTaskReq{
		FileName: "lecture.srt",
		SrtText:  sampleSRT(10),
	})
	require.NoError(t, err)

	stored, err := storage.GetTask(res.TaskId)
	require.NoError(t, err)
	_, err = os.Stat(stored.SrtPath)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(res.TaskId))

	_, err = svc.GetTaskStatus(dto.GetChapterTaskReq{TaskId: res.TaskId})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = os.Stat(stored.SrtPath)
	assert.True(t, os.IsNotExist(err))
}

func TestGetTaskHistory_ListsTasks(t *testing.T) {
	svc := setupService(t)

	for _, name := range []string{"first.srt", "second.srt"} {
		_, err := svc.StartChapterTask(dto.StartChapterTaskReq{
			FileName: name,
			SrtText:  sampleSRT(10),
		})
		require.NoError(t, err)
	}

	history, err := svc.GetTaskHistory(10)
	require.NoError(t, err)
	require.Len(t, history, 2)
}
