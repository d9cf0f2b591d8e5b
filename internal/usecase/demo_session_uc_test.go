// File: internal/usecase/demo_session_uc_test.go
package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/infra/security"
)

func newDemoFixture(t *testing.T, cap int) (*demoSessionUC, *fakeAI) {
	t.Helper()
	signer, err := security.NewRecordSigner("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewRecordSigner: %v", err)
	}
	log := zerolog.Nop()
	ai := &fakeAI{reply: "bestie, I hear you"}
	uc := NewDemoSessionUseCase(
		signer, ai, fakeFallback{}, NewPromptBuilder(3000),
		model.ChatModeBestie, cap, 20*time.Second, &log,
	)
	return uc, ai
}

func TestDemoFreshSession(t *testing.T) {
	ctx := context.Background()
	uc, _ := newDemoFixture(t, 5)

	st, err := uc.Load(ctx, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Tampered || st.Session.IsLocked || len(st.Session.Messages) != 0 {
		t.Fatalf("fresh session not empty: %+v", st.Session)
	}
	if st.Record == "" {
		t.Fatal("fresh session missing signed record")
	}
}

func TestDemoRecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	uc, _ := newDemoFixture(t, 5)

	st, err := uc.SendTurn(ctx, "", "hey there")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}
	if len(st.Session.Messages) != 2 {
		t.Fatalf("session has %d messages, want user+reply", len(st.Session.Messages))
	}

	reloaded, err := uc.Load(ctx, st.Record)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Tampered {
		t.Fatal("untouched record flagged as tampered")
	}
	if len(reloaded.Session.Messages) != 2 || reloaded.Session.IsLocked != st.Session.IsLocked {
		t.Fatal("record did not round-trip")
	}
}

func TestDemoTamperWipesAndLocks(t *testing.T) {
	ctx := context.Background()
	uc, ai := newDemoFixture(t, 5)

	st, err := uc.SendTurn(ctx, "", "hello")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}

	// Flip one byte of the payload.
	raw, err := base64.StdEncoding.DecodeString(st.Record)
	if err != nil {
		t.Fatalf("decode record: %v", err)
	}
	raw[len(raw)/2] ^= 0x01
	forged := base64.StdEncoding.EncodeToString(raw)

	loaded, err := uc.Load(ctx, forged)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Tampered {
		t.Fatal("forged record not flagged as tampered")
	}
	if !loaded.Session.IsLocked || len(loaded.Session.Messages) != 0 {
		t.Fatal("tampered session not wiped and locked")
	}
	if loaded.Record != "" {
		t.Fatal("tampered session was re-signed")
	}

	// A send against the forged record is refused before any network call.
	calls := ai.callCount()
	if _, err := uc.SendTurn(ctx, forged, "still there?"); !errors.Is(err, domain.ErrTampered) {
		t.Fatalf("err = %v, want ErrTampered", err)
	}
	if ai.callCount() != calls {
		t.Fatal("completion service called for tampered record")
	}
}

func TestDemoCapLocksAfterFiveTurns(t *testing.T) {
	ctx := context.Background()
	uc, ai := newDemoFixture(t, 5)

	record := ""
	for i := 0; i < 5; i++ {
		st, err := uc.SendTurn(ctx, record, fmt.Sprintf("message %d", i+1))
		if err != nil {
			t.Fatalf("send %d: %v", i+1, err)
		}
		record = st.Record
		if i < 4 && st.Session.IsLocked {
			t.Fatalf("locked early after %d turns", i+1)
		}
		if i == 4 && !st.Session.IsLocked {
			t.Fatal("not locked after fifth turn")
		}
	}

	calls := ai.callCount()
	if _, err := uc.SendTurn(ctx, record, "message 6"); !errors.Is(err, domain.ErrDemoLocked) {
		t.Fatalf("err = %v, want ErrDemoLocked", err)
	}
	if ai.callCount() != calls {
		t.Fatal("completion service called for locked session")
	}
}

func TestDemoLockHealsUndercountedRecord(t *testing.T) {
	ctx := context.Background()
	uc, _ := newDemoFixture(t, 2)

	// Build a legitimately signed record that claims to be unlocked while
	// already holding two user turns.
	signer, _ := security.NewRecordSigner("0123456789abcdef0123456789abcdef")
	sess := model.NewDemoSession()
	sess.Messages = []model.Message{
		{ID: 1, Text: "one", IsUser: true},
		{ID: 2, Text: "two", IsUser: true},
	}
	record, err := signer.Encode(sess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	st, err := uc.Load(ctx, record)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !st.Session.IsLocked {
		t.Fatal("lock not healed for at-cap record")
	}
}

func TestDemoFallbackOnCompletionError(t *testing.T) {
	ctx := context.Background()
	uc, ai := newDemoFixture(t, 5)
	ai.err = errors.New("upstream down")

	st, err := uc.SendTurn(ctx, "", "rough day")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}
	if got := st.Session.Messages[1].Text; got != "canned demo reply" {
		t.Fatalf("reply = %q, want canned fallback", got)
	}
}

func TestDemoCreatorBypass(t *testing.T) {
	ctx := context.Background()
	uc, ai := newDemoFixture(t, 5)

	st, err := uc.SendTurn(ctx, "", "who created you anyway")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}
	if ai.callCount() != 0 {
		t.Fatal("completion service invoked for creator question")
	}
	if st.Session.Messages[1].Text != attributionReply {
		t.Fatalf("reply = %q, want attribution", st.Session.Messages[1].Text)
	}
}
