package types

import "context"

// ChatCompleter abstracts the LLM chat backend used by the moment proposer.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
