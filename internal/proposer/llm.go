package proposer

import (
	"context"
	"encoding/json"
	"fmt"

	"chaptermark/internal/types"
	"chaptermark/pkg/errors"
	"chaptermark/pkg/util"
)

// LLMProposer asks a chat model for moment candidates, one request per
// chunk.
type LLMProposer struct {
	client types.ChatCompleter
}

func NewLLMProposer(client types.ChatCompleter) *LLMProposer {
	return &LLMProposer{client: client}
}

func (p *LLMProposer) Propose(ctx context.Context, req ChunkRequest) ([]types.MomentCandidate, error) {
	userPrompt := fmt.Sprintf(types.MomentProposerUserPrompt,
		req.TargetCount, req.StrategyTier, req.DurationMinutes, Excerpt(req))

	reply, err := p.client.ChatCompletion(ctx, types.MomentProposerSystemPrompt, userPrompt)
	if err != nil {
		return nil, errors.Wrap(errors.CodeProposerFailed, "moment proposer call failed", err)
	}

	raw := util.ExtractJSON(reply)
	var candidates []types.MomentCandidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, errors.Wrap(errors.CodeProposerBadOutput, "moment proposer returned malformed JSON", err)
	}
	return sanitize(candidates, req), nil
}
