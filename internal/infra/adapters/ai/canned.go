// File: internal/infra/adapters/ai/canned.go
package ai

import (
	"math/rand"
	"strings"
	"sync"
)

// FallbackResponder hands out a supportive reply when every completion
// backend is down. Replies are keyed off the user's wording first so the
// canned line still lands close to what they said.
type FallbackResponder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewFallbackResponder(seed int64) *FallbackResponder {
	return &FallbackResponder{rng: rand.New(rand.NewSource(seed))}
}

var keywordReplies = []struct {
	keys  []string
	reply string
}{
	{[]string{"overwhelm", "stress"}, "I hear you. That sounds really heavy. What's been weighing on you the most?"},
	{[]string{"tired", "exhaust"}, "Being tired isn't just physical, is it? Sometimes the soul gets exhausted too."},
	{[]string{"sad", "depressed"}, "That darkness is real, and it's okay to sit with it for a moment. You're not alone in this."},
	{[]string{"angry", "mad"}, "Anger often covers up hurt. What's really underneath that fire?"},
}

var genericReplies = []string{
	"I hear you. That sounds really tough. Want to tell me more about what's weighing on you?",
	"You're not alone in feeling this way. Sometimes the hardest part is just acknowledging where we are.",
	"That's heavy. I'm here to listen, no judgment.",
	"Sounds like you're carrying a lot right now. What's the hardest part?",
	"I get it. Life can be exhausting. What's been eating at you lately?",
	"That sounds really difficult. How long have you been feeling this way?",
}

var demoReplies = []string{
	"Hey, I'm here for you. What's going on?",
	"I'm here for you, bestie. Always. What's on your mind?",
	"Hey bestie, I'm right here with you. Take your time, that's what best friends are for.",
}

// Reply picks the keyword-matched line when the message contains one of the
// known distress words, otherwise a random line from the generic pool.
func (f *FallbackResponder) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, kr := range keywordReplies {
		for _, k := range kr.keys {
			if strings.Contains(lower, k) {
				return kr.reply
			}
		}
	}
	return genericReplies[f.pick(len(genericReplies))]
}

// DemoReply is the guest-mode equivalent; the bestie persona has its own
// smaller pool and no keyword matching.
func (f *FallbackResponder) DemoReply() string {
	return demoReplies[f.pick(len(demoReplies))]
}

func (f *FallbackResponder) pick(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Intn(n)
}
