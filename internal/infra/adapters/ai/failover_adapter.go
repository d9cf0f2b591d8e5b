// File: internal/infra/adapters/ai/failover_adapter.go
package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"fedup-chat/internal/domain/ports/adapter"
	"fedup-chat/internal/infra/metrics"
)

var _ adapter.CompletionAdapter = (*FailoverAdapter)(nil)

// FailoverAdapter tries each backend in order and returns the first reply.
// A context cancellation stops the chain immediately; provider errors do not,
// they just move on to the next candidate.
type FailoverAdapter struct {
	chain []adapter.CompletionAdapter
	log   *zerolog.Logger
}

func NewFailoverAdapter(log *zerolog.Logger, chain ...adapter.CompletionAdapter) *FailoverAdapter {
	out := make([]adapter.CompletionAdapter, 0, len(chain))
	for _, a := range chain {
		if a != nil {
			out = append(out, a)
		}
	}
	return &FailoverAdapter{chain: out, log: log}
}

func (f *FailoverAdapter) Name() string {
	if len(f.chain) > 0 {
		return f.chain[0].Name()
	}
	return "failover"
}

func (f *FailoverAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	if len(f.chain) == 0 {
		return "", errors.New("failover: no backends configured")
	}
	var lastErr error
	for _, a := range f.chain {
		start := time.Now()
		reply, err := a.Complete(ctx, prompt)
		metrics.ObserveCompletion(a.Name(), int(time.Since(start).Milliseconds()), err == nil)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		f.log.Warn().Err(err).Str("backend", a.Name()).Msg("completion backend failed, trying next")
	}
	return "", lastErr
}
