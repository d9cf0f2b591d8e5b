// File: internal/usecase/demo_session_uc.go
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
	"fedup-chat/internal/infra/logging"
)

// Compile-time check
var _ DemoSessionUseCase = (*demoSessionUC)(nil)

// RecordCodec round-trips a demo session through its signed wire form.
// Decode must fail with domain.ErrTampered on any signature or shape
// problem; Encode must refuse a tampered session.
type RecordCodec interface {
	Encode(sess *model.DemoSession) (string, error)
	Decode(raw string) (*model.DemoSession, error)
}

// DemoState is the demo session plus its re-signed wire record. A tampered
// load carries an empty locked session and no record at all.
type DemoState struct {
	Session  *model.DemoSession
	Record   string
	Tampered bool
}

type DemoSessionUseCase interface {
	// Load verifies a stored record. Empty input starts a fresh session.
	Load(ctx context.Context, raw string) (*DemoState, error)
	// SendTurn runs one anonymous turn against the demo persona and returns
	// the mutated, re-signed record.
	SendTurn(ctx context.Context, raw, text string) (*DemoState, error)
}

type demoSessionUC struct {
	codec    RecordCodec
	ai       adapter.CompletionAdapter
	fallback FallbackSource
	prompt   *PromptBuilder
	mode     model.ChatMode

	cap       int
	aiTimeout time.Duration
	log       *zerolog.Logger
	now       func() time.Time
}

func NewDemoSessionUseCase(
	codec RecordCodec,
	ai adapter.CompletionAdapter,
	fallback FallbackSource,
	prompt *PromptBuilder,
	mode model.ChatMode,
	cap int,
	aiTimeout time.Duration,
	log *zerolog.Logger,
) *demoSessionUC {
	if cap <= 0 {
		cap = 5
	}
	if aiTimeout <= 0 {
		aiTimeout = 20 * time.Second
	}
	if !mode.Valid() {
		mode = model.ChatModeBestie
	}
	return &demoSessionUC{
		codec:     codec,
		ai:        ai,
		fallback:  fallback,
		prompt:    prompt,
		mode:      mode,
		cap:       cap,
		aiTimeout: aiTimeout,
		log:       log,
		now:       time.Now,
	}
}

func (u *demoSessionUC) Load(ctx context.Context, raw string) (*DemoState, error) {
	sess, err := u.decode(raw)
	if err != nil {
		return nil, err
	}
	if sess.Tampered {
		// Wiped and locked, and never re-signed: returning a fresh record
		// here would hand the client a way to launder a forged blob.
		return &DemoState{Session: sess, Tampered: true}, nil
	}
	record, err := u.codec.Encode(sess)
	if err != nil {
		return nil, err
	}
	return &DemoState{Session: sess, Record: record}, nil
}

func (u *demoSessionUC) SendTurn(ctx context.Context, raw, text string) (*DemoState, error) {
	defer logging.TraceDuration(u.log, "DemoSessionUC.SendTurn")()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidArgument
	}

	sess, err := u.decode(raw)
	if err != nil {
		return nil, err
	}
	if sess.Tampered {
		return &DemoState{Session: sess, Tampered: true}, domain.ErrTampered
	}
	if sess.IsLocked || sess.UserTurns() >= u.cap {
		sess.Heal(u.cap)
		return nil, domain.ErrDemoLocked
	}

	history := sess.Messages
	userMsg := model.NewMessage(model.NextMessageID(sess.LastID()), text, true)
	sess.Append(userMsg, u.cap)

	replyText := u.demoReply(ctx, text, history)
	reply := model.NewMessage(model.NextMessageID(sess.LastID()), replyText, false)
	sess.Append(reply, u.cap)

	record, err := u.codec.Encode(sess)
	if err != nil {
		return nil, err
	}
	return &DemoState{Session: sess, Record: record}, nil
}

func (u *demoSessionUC) demoReply(ctx context.Context, text string, history []model.Message) string {
	if IsCreatorQuery(text) {
		return attributionReply
	}
	prompt := u.prompt.Build(u.mode, history, text, "", false, u.now())

	aiCtx, cancel := context.WithTimeout(ctx, u.aiTimeout)
	defer cancel()
	reply, err := u.ai.Complete(aiCtx, prompt)
	if err != nil {
		u.log.Error().Err(err).Msg("demo completion failed, serving fallback")
		return u.fallback.DemoReply()
	}
	return strings.TrimSpace(reply)
}

// decode turns the wire record into a session. Tampering is not an error to
// the caller of Load; it becomes a wiped, locked session.
func (u *demoSessionUC) decode(raw string) (*model.DemoSession, error) {
	if strings.TrimSpace(raw) == "" {
		return model.NewDemoSession(), nil
	}
	sess, err := u.codec.Decode(raw)
	if err != nil {
		if errors.Is(err, domain.ErrTampered) {
			wiped := model.NewDemoSession()
			wiped.IsLocked = true
			wiped.Tampered = true
			return wiped, nil
		}
		return nil, err
	}
	sess.Heal(u.cap)
	return sess, nil
}
