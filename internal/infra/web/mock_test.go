package web

import (
	"context"
	"strconv"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/usecase"
)

// ---- Fake usecases ----

type fakeConvoUC struct {
	result *usecase.TurnResult
	err    error
	calls  int
}

func (f *fakeConvoUC) SendTurn(ctx context.Context, userID, text string, isVoice bool) (*usecase.TurnResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSessionUC struct {
	state *usecase.SessionState
	err   error
}

func (f *fakeSessionUC) Load(ctx context.Context, userID string) (*usecase.SessionState, error) {
	return f.state, f.err
}

func (f *fakeSessionUC) Append(ctx context.Context, userID, text string, isUser bool) (*model.Message, error) {
	return model.NewMessage(1, text, isUser), f.err
}

func (f *fakeSessionUC) DeleteAll(ctx context.Context, userID string) (*usecase.SessionState, error) {
	return f.state, f.err
}

type fakeDemoUC struct {
	state *usecase.DemoState
	err   error
	calls int
}

func (f *fakeDemoUC) Load(ctx context.Context, raw string) (*usecase.DemoState, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.state, nil
}

func (f *fakeDemoUC) SendTurn(ctx context.Context, raw, text string) (*usecase.DemoState, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.state, nil
}

type fakeQuotaUC struct {
	ledger *model.QuotaLedger
	caps   model.QuotaCaps
	raised [2]int
	err    error
}

func (f *fakeQuotaUC) TryConsume(ctx context.Context, userID string, isVoice bool) (usecase.ConsumeResult, error) {
	return usecase.ConsumeResult{Outcome: usecase.Accepted}, f.err
}

func (f *fakeQuotaUC) Get(ctx context.Context, userID string) (*model.QuotaLedger, model.QuotaCaps, error) {
	return f.ledger, f.caps, f.err
}

func (f *fakeQuotaUC) RaiseCaps(ctx context.Context, userID string, textCap, voiceCap int) (*model.QuotaLedger, error) {
	if textCap < 0 || voiceCap < 0 {
		return nil, domain.ErrInvalidArgument
	}
	f.raised = [2]int{textCap, voiceCap}
	if textCap > 0 {
		f.ledger.TextCapOverride = textCap
		f.caps.TextTurns = textCap
	}
	return f.ledger, f.err
}

type fakeSettingsUC struct {
	settings *model.UserSettings
	err      error
}

func (f *fakeSettingsUC) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	return f.settings, f.err
}

func (f *fakeSettingsUC) Update(ctx context.Context, userID string, mode model.ChatMode, voiceEnabled bool, selectedVoice string) (*model.UserSettings, error) {
	if !mode.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	f.settings = &model.UserSettings{UserID: userID, ChatMode: mode, VoiceEnabled: voiceEnabled, SelectedVoice: selectedVoice}
	return f.settings, f.err
}

type fakeWaitlistUC struct {
	mu     sync.Mutex
	emails map[string]bool
}

func newFakeWaitlistUC() *fakeWaitlistUC { return &fakeWaitlistUC{emails: map[string]bool{}} }

func (f *fakeWaitlistUC) Join(ctx context.Context, name, email string) (*model.WaitlistEntry, error) {
	e, err := model.NewWaitlistEntry(name, email)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emails[e.Email] {
		return nil, domain.ErrAlreadyExists
	}
	f.emails[e.Email] = true
	return e, nil
}

func (f *fakeWaitlistUC) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.emails)), nil
}

// ---- In-memory Redis for the visitor counter ----

type memRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemRedis() *memRedis { return &memRedis{data: map[string]string{}} }

func (m *memRedis) Ping(ctx context.Context) error { return nil }

func (m *memRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = toString(value)
	return nil
}

func (m *memRedis) SetNX(ctx context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = toString(value)
	return true, nil
}

func (m *memRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memRedis) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *memRedis) Expire(ctx context.Context, key string, _ time.Duration) error { return nil }

func (m *memRedis) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memRedis) Close() error { return nil }

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return "1"
	}
}
