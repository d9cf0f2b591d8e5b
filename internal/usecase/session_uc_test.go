// File: internal/usecase/session_uc_test.go
package usecase

import (
	"context"
	"testing"
	"time"

	"fedup-chat/internal/domain/model"
)

func newSessionFixture() (*sessionUC, *memMessageRepo, *memLedgerRepo, *memSettingsRepo) {
	messages := newMemMessageRepo()
	ledgers := newMemLedgerRepo()
	settings := newMemSettingsRepo()
	quota := NewQuotaUseCase(ledgers, testCaps)
	return NewSessionUseCase(messages, settings, quota), messages, ledgers, settings
}

func TestLoadSynthesizesWelcomeOnEmptyTranscript(t *testing.T) {
	ctx := context.Background()
	uc, messages, _, _ := newSessionFixture()

	st, err := uc.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(st.Messages) != 1 {
		t.Fatalf("got %d messages, want 1 welcome", len(st.Messages))
	}
	if st.Messages[0].IsUser {
		t.Fatal("welcome message marked as user-authored")
	}

	// The welcome is persisted, not synthesized per read.
	persisted, _ := messages.ListByUser(ctx, "u1")
	if len(persisted) != 1 {
		t.Fatalf("welcome not persisted, store has %d messages", len(persisted))
	}
}

func TestLoadOrdersByID(t *testing.T) {
	ctx := context.Background()
	uc, messages, _, _ := newSessionFixture()

	for _, id := range []int64{3, 1, 2} {
		messages.Append(ctx, "u1", &model.Message{ID: id, Text: "m", IsUser: true})
	}

	st, err := uc.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []int64{1, 2, 3}
	for i, m := range st.Messages {
		if m.ID != want[i] {
			t.Fatalf("position %d has id %d, want %d", i, m.ID, want[i])
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newSessionFixture()

	first, err := uc.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := uc.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(first.Messages) != len(second.Messages) {
		t.Fatalf("loads differ: %d vs %d messages", len(first.Messages), len(second.Messages))
	}
	for i := range first.Messages {
		if first.Messages[i] != second.Messages[i] {
			t.Fatalf("message %d differs between loads", i)
		}
	}
	if first.UserTurns != second.UserTurns {
		t.Fatal("quota counters differ between loads")
	}
}

func TestDeleteAllPreservesQuota(t *testing.T) {
	ctx := context.Background()
	uc, _, ledgers, _ := newSessionFixture()
	quota := NewQuotaUseCase(ledgers, testCaps)

	for i := 0; i < 3; i++ {
		uc.Append(ctx, "u1", "hello", true)
		quota.TryConsume(ctx, "u1", false)
	}

	st, err := uc.DeleteAll(ctx, "u1")
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if len(st.Messages) != 1 || st.Messages[0].IsUser {
		t.Fatalf("got %d messages after wipe, want 1 welcome", len(st.Messages))
	}
	if st.UserTurns != 3 {
		t.Fatalf("userTurns = %d after wipe, want 3 (history deletion never refunds quota)", st.UserTurns)
	}
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newSessionFixture()

	a, err := uc.Append(ctx, "u1", "one", true)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	b, err := uc.Append(ctx, "u1", "two", false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d then %d", a.ID, b.ID)
	}
}

func TestWelcomeTextVariants(t *testing.T) {
	now := time.Now()
	recent := now.Add(-time.Hour)
	longAgo := now.Add(-8 * 24 * time.Hour)

	if got := welcomeText(model.ChatModeProfessional, recent, now); got == welcomeText(model.ChatModeProfessional, longAgo, now) {
		t.Fatal("professional greeting does not vary with absence")
	}
	if got := welcomeText(model.ChatModeBestie, recent, now); got == welcomeText(model.ChatModeProfessional, recent, now) {
		t.Fatal("greeting does not vary with chat mode")
	}
	// A brand new user (zero last-active) gets the regular greeting.
	if got := welcomeText(model.ChatModeProfessional, time.Time{}, now); got != welcomeText(model.ChatModeProfessional, recent, now) {
		t.Fatal("zero last-active treated as long absence")
	}
}
