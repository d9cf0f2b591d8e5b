// File: internal/usecase/prompt_test.go
package usecase

import (
	"strings"
	"testing"
	"time"

	"fedup-chat/internal/domain/model"
)

func TestTriggerMatching(t *testing.T) {
	if !IsCreatorQuery("so WHO MADE YOU exactly") {
		t.Fatal("creator trigger is case sensitive")
	}
	if IsCreatorQuery("who made this mess of my life") {
		t.Fatal("creator trigger fired on unrelated phrase")
	}
	if !IsTimeQuery("what time is it") || !IsTimeQuery("what year are we in") {
		t.Fatal("time triggers not matching")
	}
	if !NeedsSearch("any news today") || NeedsSearch("I miss my dog") {
		t.Fatal("search trigger matching wrong")
	}
}

func TestBuildTagsSpeakers(t *testing.T) {
	b := NewPromptBuilder(3000)
	history := []model.Message{
		{ID: 1, Text: "I can't sleep", IsUser: true},
		{ID: 2, Text: "What keeps you up?", IsUser: false},
	}
	p := b.Build(model.ChatModeProfessional, history, "everything", "", false, time.Now())

	if !strings.Contains(p, "User: I can't sleep") {
		t.Fatal("user line missing speaker tag")
	}
	if !strings.Contains(p, "FED UP: What keeps you up?") {
		t.Fatal("assistant line missing speaker tag")
	}
	if !strings.HasSuffix(p, "User: everything\n\nFED UP:") {
		t.Fatalf("prompt does not end with utterance and reply cue: %q", p[len(p)-60:])
	}
	if !strings.Contains(p, "no toxic positivity") {
		t.Fatal("professional persona missing")
	}
}

func TestBuildPersonaByMode(t *testing.T) {
	b := NewPromptBuilder(3000)
	p := b.Build(model.ChatModeBestie, nil, "hey", "", false, time.Now())
	if !strings.Contains(p, "BESTIE") {
		t.Fatal("bestie persona missing")
	}
	if strings.Contains(p, "no toxic positivity") {
		t.Fatal("bestie prompt carries professional persona")
	}
}

func TestBuildTrimsOldHistory(t *testing.T) {
	b := NewPromptBuilder(50)
	long := strings.Repeat("a lot of words here ", 20)
	history := []model.Message{
		{ID: 1, Text: "OLDEST " + long, IsUser: true},
		{ID: 2, Text: long, IsUser: false},
		{ID: 3, Text: "NEWEST line", IsUser: true},
	}
	p := b.Build(model.ChatModeProfessional, history, "hi", "", false, time.Now())

	if strings.Contains(p, "OLDEST") {
		t.Fatal("oldest turn survived the token budget")
	}
	if !strings.Contains(p, "NEWEST line") {
		t.Fatal("newest turn trimmed before older ones")
	}
}

func TestBuildOmitsClockByDefault(t *testing.T) {
	b := NewPromptBuilder(3000)
	now := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)

	without := b.Build(model.ChatModeProfessional, nil, "hello", "", false, now)
	if strings.Contains(without, "current date and time") {
		t.Fatal("clock present without a time question")
	}
	with := b.Build(model.ChatModeProfessional, nil, "what time is it", "", true, now)
	if !strings.Contains(with, "Saturday, March 14, 2026") {
		t.Fatal("clock block missing or misformatted")
	}
}
