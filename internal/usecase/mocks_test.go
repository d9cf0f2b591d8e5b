// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
)

// ---- In-memory repositories ----

type memLedgerRepo struct {
	mu      sync.Mutex
	ledgers map[string]*model.QuotaLedger
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{ledgers: map[string]*model.QuotaLedger{}}
}

func (r *memLedgerRepo) Find(ctx context.Context, userID string) (*model.QuotaLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.ledgers[userID]; ok {
		cp := *l
		return &cp, nil
	}
	return model.NewQuotaLedger(userID, time.Now()), nil
}

func (r *memLedgerRepo) Update(ctx context.Context, userID string, fn func(*model.QuotaLedger) error) (*model.QuotaLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.ledgers[userID]
	if !ok {
		l = model.NewQuotaLedger(userID, time.Now())
	}
	work := *l
	if err := fn(&work); err != nil {
		return nil, err
	}
	r.ledgers[userID] = &work
	cp := work
	return &cp, nil
}

type memMessageRepo struct {
	mu   sync.Mutex
	byID map[string][]model.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{byID: map[string][]model.Message{}}
}

func (r *memMessageRepo) Append(ctx context.Context, userID string, m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[userID] = append(r.byID[userID], *m)
	return nil
}

func (r *memMessageRepo) ListByUser(ctx context.Context, userID string) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]model.Message(nil), r.byID[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMessageRepo) LastID(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last int64
	for _, m := range r.byID[userID] {
		if m.ID > last {
			last = m.ID
		}
	}
	return last, nil
}

func (r *memMessageRepo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.byID[userID]))
	delete(r.byID, userID)
	return n, nil
}

func (r *memMessageRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, msgs := range r.byID {
		n += int64(len(msgs))
	}
	return n, nil
}

type memSettingsRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.UserSettings
	touched map[string]int
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{byID: map[string]*model.UserSettings{}, touched: map[string]int{}}
}

func (r *memSettingsRepo) Find(ctx context.Context, userID string) (*model.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memSettingsRepo) Save(ctx context.Context, s *model.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byID[s.UserID] = &cp
	return nil
}

func (r *memSettingsRepo) TouchActivity(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched[userID]++
	if s, ok := r.byID[userID]; ok {
		s.LastActiveAt = time.Now()
	}
	return nil
}

func (r *memSettingsRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type memWaitlistRepo struct {
	mu      sync.Mutex
	byEmail map[string]*model.WaitlistEntry
}

func newMemWaitlistRepo() *memWaitlistRepo {
	return &memWaitlistRepo{byEmail: map[string]*model.WaitlistEntry{}}
}

func (r *memWaitlistRepo) Add(ctx context.Context, e *model.WaitlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[e.Email]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *e
	r.byEmail[e.Email] = &cp
	return nil
}

func (r *memWaitlistRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byEmail)), nil
}

// ---- Adapters ----

type fakeAI struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAI) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompt
}

type fakeSearch struct {
	answer string
	err    error
	calls  int
}

func (f *fakeSearch) Search(ctx context.Context, query string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeFallback struct{}

func (fakeFallback) Reply(message string) string { return "canned reply" }
func (fakeFallback) DemoReply() string           { return "canned demo reply" }

// memLocker mimics the single-attempt Redis turn lock.
type memLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newMemLocker() *memLocker { return &memLocker{held: map[string]string{}} }

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", domain.ErrTurnInFlight
	}
	l.held[key] = "token"
	return "token", nil
}

func (l *memLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
