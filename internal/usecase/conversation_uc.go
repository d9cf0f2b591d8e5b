// File: internal/usecase/conversation_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/adapter"
	"fedup-chat/internal/domain/ports/repository"
	"fedup-chat/internal/infra/logging"
)

// Compile-time check
var _ ConversationUseCase = (*conversationUC)(nil)

// TurnLocker serializes sends: at most one in-flight turn per user, across
// all of that user's devices.
type TurnLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// FallbackSource supplies the canned in-persona replies used when every
// completion backend fails. The user always gets a reply, never an error.
type FallbackSource interface {
	Reply(message string) string
	DemoReply() string
}

// TurnOutcome says how the turn resolved.
type TurnOutcome int

const (
	TurnCompleted TurnOutcome = iota
	TurnLimited
	TurnFallback
	TurnNoop
)

// TurnResult is one resolved send: the persisted user message (nil for a
// rejected or no-op turn), the assistant reply, and the updated counters.
type TurnResult struct {
	Outcome        TurnOutcome
	UserMessage    *model.Message
	Reply          *model.Message
	UserTurns      int
	VoiceUserTurns int
	Caps           model.QuotaCaps
}

type ConversationUseCase interface {
	SendTurn(ctx context.Context, userID, text string, isVoice bool) (*TurnResult, error)
}

type conversationUC struct {
	messages repository.MessageRepository
	settings repository.SettingsRepository
	quota    QuotaUseCase
	session  SessionUseCase
	ai       adapter.CompletionAdapter
	search   adapter.SearchAdapter
	fallback FallbackSource
	locker   TurnLocker
	prompt   *PromptBuilder

	aiTimeout time.Duration
	lockTTL   time.Duration
	log       *zerolog.Logger
	now       func() time.Time
}

func NewConversationUseCase(
	messages repository.MessageRepository,
	settings repository.SettingsRepository,
	quota QuotaUseCase,
	session SessionUseCase,
	ai adapter.CompletionAdapter,
	search adapter.SearchAdapter,
	fallback FallbackSource,
	locker TurnLocker,
	prompt *PromptBuilder,
	aiTimeout time.Duration,
	log *zerolog.Logger,
) *conversationUC {
	if aiTimeout <= 0 {
		aiTimeout = 20 * time.Second
	}
	return &conversationUC{
		messages:  messages,
		settings:  settings,
		quota:     quota,
		session:   session,
		ai:        ai,
		search:    search,
		fallback:  fallback,
		locker:    locker,
		prompt:    prompt,
		aiTimeout: aiTimeout,
		lockTTL:   aiTimeout + 10*time.Second,
		log:       log,
		now:       time.Now,
	}
}

func turnLockKey(userID string) string { return "turn_lock:" + userID }

func (u *conversationUC) SendTurn(ctx context.Context, userID, text string, isVoice bool) (*TurnResult, error) {
	defer logging.TraceDuration(u.log, "ConversationUC.SendTurn")()

	text = strings.TrimSpace(text)
	if text == "" {
		return &TurnResult{Outcome: TurnNoop}, nil
	}

	token, err := u.locker.TryLock(ctx, turnLockKey(userID), u.lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if uerr := u.locker.Unlock(context.WithoutCancel(ctx), turnLockKey(userID), token); uerr != nil {
			u.log.Warn().Err(uerr).Str("user_id", userID).Msg("turn lock release failed")
		}
	}()

	consume, err := u.quota.TryConsume(ctx, userID, isVoice)
	if err != nil {
		return nil, err
	}
	if consume.Outcome != Accepted {
		limited := textLimitReply
		if consume.Outcome == RejectedVoiceCap {
			limited = voiceLimitReply
		}
		reply, err := u.session.Append(ctx, userID, limited, false)
		if err != nil {
			return nil, err
		}
		return &TurnResult{
			Outcome:        TurnLimited,
			Reply:          reply,
			UserTurns:      consume.UserTurns,
			VoiceUserTurns: consume.VoiceUserTurns,
			Caps:           consume.Caps,
		}, nil
	}

	// History before this turn feeds the prompt; the new utterance is
	// appended separately by the builder.
	history, err := u.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	userMsg, err := u.session.Append(ctx, userID, text, true)
	if err != nil {
		return nil, err
	}

	replyText, outcome := u.resolveReply(ctx, userID, text, history)

	reply, err := u.session.Append(ctx, userID, replyText, false)
	if err != nil {
		return nil, err
	}
	if err := u.settings.TouchActivity(ctx, userID); err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("activity touch failed")
	}

	return &TurnResult{
		Outcome:        outcome,
		UserMessage:    userMsg,
		Reply:          reply,
		UserTurns:      consume.UserTurns,
		VoiceUserTurns: consume.VoiceUserTurns,
		Caps:           consume.Caps,
	}, nil
}

// resolveReply produces the assistant text for an accepted turn: the fixed
// attribution line for creator questions, otherwise a completion-service
// call with trigger-driven prompt enrichment and a canned fallback.
func (u *conversationUC) resolveReply(ctx context.Context, userID, text string, history []model.Message) (string, TurnOutcome) {
	if IsCreatorQuery(text) {
		return attributionReply, TurnCompleted
	}

	mode := model.ChatModeProfessional
	if s, err := u.settings.Find(ctx, userID); err == nil {
		mode = s.ChatMode
	} else if !errors.Is(err, domain.ErrNotFound) {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("settings lookup failed, using default persona")
	}

	withTime := IsTimeQuery(text)
	searchInfo := ""
	if !withTime && NeedsSearch(text) {
		info, err := u.search.Search(ctx, text)
		if err != nil {
			// Best effort only. A broken search never blocks the turn.
			u.log.Warn().Err(err).Msg("instant answer lookup failed")
		} else {
			searchInfo = info
		}
	}

	prompt := u.prompt.Build(mode, history, text, searchInfo, withTime, u.now())

	aiCtx, cancel := context.WithTimeout(ctx, u.aiTimeout)
	defer cancel()
	replyText, err := u.ai.Complete(aiCtx, prompt)
	if err != nil {
		u.log.Error().Err(err).Str("user_id", userID).Msg("completion failed, serving fallback")
		return u.fallback.Reply(text), TurnFallback
	}
	return strings.TrimSpace(replyText), TurnCompleted
}
