package service

import (
	"chaptermark/config"
	"chaptermark/internal/pipeline"
	"chaptermark/internal/proposer"
	"chaptermark/pkg/gemini"
	"chaptermark/pkg/openai"
)

// Executor runs a persisted chapter task asynchronously. The in-process
// task runner and the asynq queue both satisfy it.
type Executor interface {
	Submit(taskId string) error
}

// Service wires the pipeline to persistence and async execution.
type Service struct {
	Pipeline *pipeline.Pipeline
	executor Executor
}

// NewService builds a service from the loaded configuration. The executor
// is attached later via SetExecutor; until then tasks run in a plain
// background goroutine.
func NewService() *Service {
	prop := NewProposerFromConfig()
	return &Service{
		Pipeline: pipeline.New(prop, pipeline.OptionsFromConfig()),
	}
}

// NewServiceWith builds a service around an explicit proposer and options.
func NewServiceWith(prop proposer.Proposer, opts pipeline.Options) *Service {
	return &Service{
		Pipeline: pipeline.New(prop, opts),
	}
}

func (s *Service) SetExecutor(e Executor) {
	s.executor = e
}

// NewProposerFromConfig selects the proposer backend from config.
func NewProposerFromConfig() proposer.Proposer {
	llm := config.Conf.Llm
	switch llm.Provider {
	case "gemini":
		return proposer.NewLLMProposer(gemini.NewClient(llm.BaseUrl, llm.ApiKey, llm.Model))
	case "heuristic":
		return proposer.HeuristicProposer{}
	default:
		return proposer.NewLLMProposer(openai.NewClient(llm.BaseUrl, llm.ApiKey, llm.Model))
	}
}
