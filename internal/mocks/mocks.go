// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chaptermark/internal/proposer"
	"chaptermark/internal/types"
)

// MockChatCompleter is a mock implementation of types.ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

// MockProposer is a mock implementation of proposer.Proposer
type MockProposer struct {
	mock.Mock
}

func (m *MockProposer) Propose(ctx context.Context, req proposer.ChunkRequest) ([]types.MomentCandidate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.MomentCandidate), args.Error(1)
}
