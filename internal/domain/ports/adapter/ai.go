package adapter

import "context"

// CompletionAdapter is the boundary to a generative-text service. The prompt
// is a single concatenated string: persona block, serialized transcript, then
// the new utterance. Implementations must return an error (never an empty
// reply) when the service misbehaves, so callers can take the fallback path.
type CompletionAdapter interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}
