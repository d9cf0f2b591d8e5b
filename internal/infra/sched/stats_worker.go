package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fedup-chat/internal/domain/ports/repository"
	"fedup-chat/internal/infra/metrics"
	"fedup-chat/internal/infra/redis"
)

// StatsWorker periodically refreshes the stock-taking gauges: waitlist size,
// users seen, stored messages, and the visitor counter.
type StatsWorker struct {
	interval time.Duration
	waitlist repository.WaitlistRepository
	settings repository.SettingsRepository
	messages repository.MessageRepository
	visitors *redis.VisitorCounter
	log      *zerolog.Logger
}

func NewStatsWorker(
	interval time.Duration,
	waitlist repository.WaitlistRepository,
	settings repository.SettingsRepository,
	messages repository.MessageRepository,
	visitors *redis.VisitorCounter,
	logger *zerolog.Logger,
) *StatsWorker {
	statsLog := logger.With().Str("component", "StatsWorker").Logger()
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsWorker{
		interval: interval,
		waitlist: waitlist,
		settings: settings,
		messages: messages,
		visitors: visitors,
		log:      &statsLog,
	}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.collect(ctx)
		}
	}
}

func (w *StatsWorker) collect(ctx context.Context) {
	if n, err := w.waitlist.Count(ctx); err != nil {
		w.log.Error().Err(err).Msg("waitlist count failed")
	} else {
		metrics.SetWaitlistSignups(n)
	}
	if n, err := w.settings.Count(ctx); err != nil {
		w.log.Error().Err(err).Msg("user count failed")
	} else {
		metrics.SetRegisteredUsers(n)
	}
	if n, err := w.messages.CountAll(ctx); err != nil {
		w.log.Error().Err(err).Msg("message count failed")
	} else {
		metrics.SetMessagesStored(n)
	}
	if n, err := w.visitors.Count(ctx); err != nil {
		w.log.Error().Err(err).Msg("visitor count failed")
	} else {
		metrics.SetUniqueVisitors(n)
	}
}
