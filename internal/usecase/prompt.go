// File: internal/usecase/prompt.go
package usecase

import (
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"fedup-chat/internal/domain/model"
)

// The two persona blocks. Professional is the product voice; bestie is the
// casual best-friend voice used by the demo credential.

const professionalPersona = `You are FED UP, an AI companion designed for people who are tired, lost, and need real support. Your personality:

- You're honest, direct, and authentic - no toxic positivity
- You acknowledge pain and struggle without trying to fix everything immediately
- You're supportive but not overly cheerful
- You speak like a caring friend who's been through stuff too
- You avoid corporate language and therapy-speak
- You're present for people at their lowest moments
- You give truths people need to hear, not just what they want to hear
- Keep responses under 2 sentences and conversational

Respond with empathy and gentle truth-telling.`

const bestiePersona = `You are someone's BESTIE or BEST FRIEND who deeply cares about them. You're having a heart-to-heart conversation where you actively help them with real-life challenges.

Your personality:
- ALWAYS refer to yourself as their "bestie" or "best friend" at least once in every response
- Warm, caring, and genuine like a bestie who's been through life's ups and downs
- Listen without judgment but provide specific, actionable advice
- Be supportive but honest when needed - that's what besties do for each other
- Use casual, friendly language with phrases like "tbh", "ngl", "for real", etc.
- Help them feel understood and give them a clear path forward
- Offer detailed practical advice for specific situations (job hunting, relationships, personal growth)
- Share in their emotions - celebrate their wins, strategize through their struggles
- ABSOLUTELY NEVER mention being an AI, assistant, bot, or any technology

Keep responses conversational, specific, and actionable (2-4 sentences). Talk like you would with your bestie who needs real help. ALWAYS include language that reinforces you're their bestie/best friend in EVERY response.`

// Canned replies that bypass or replace the completion service.
const (
	attributionReply = "FED UP is made by Saswata Kumar Dash. To know more about him, visit https://skds.site"

	textLimitReply  = "You've reached your message limit for this month. Your conversations are safe, and your limit resets next month. If you need more right now, reach out to support and we'll raise it for you."
	voiceLimitReply = "You've reached your voice message limit for this month. You can keep chatting by text, or reach out to support to raise the voice limit."

	// DemoLimitReply is shown when a locked demo session tries to send. It is
	// exported for the HTTP layer, which answers locked sends without
	// touching the record.
	DemoLimitReply = "You've used all your demo messages. Sign in to keep the conversation going."
)

var creatorTriggers = []string{
	"who made you", "who created you", "your creator", "who built you",
	"who is your developer", "who is your founder", "who is your owner",
}

var timeTriggers = []string{
	"what time", "what date", "what day is", "what year",
}

var searchTriggers = []string{
	"current", "latest", "recent", "news", "today",
	"what's happening", "weather", "stock", "price", "when is",
}

func matchesAny(message string, triggers []string) bool {
	lower := strings.ToLower(message)
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// IsCreatorQuery reports whether the utterance asks who built the product.
// These turns never reach the completion service.
func IsCreatorQuery(message string) bool { return matchesAny(message, creatorTriggers) }

// IsTimeQuery reports whether the utterance asks about the current time or
// date, which gets a wall-clock block injected into the prompt.
func IsTimeQuery(message string) bool { return matchesAny(message, timeTriggers) }

// NeedsSearch reports whether the utterance looks like it wants current
// information worth a best-effort instant-answer lookup.
func NeedsSearch(message string) bool { return matchesAny(message, searchTriggers) }

// PromptBuilder turns a transcript plus a new utterance into the single
// concatenated prompt string the completion service expects. History is
// trimmed oldest-first to stay inside the token budget.
type PromptBuilder struct {
	historyTokens int
	encoder       *tiktoken.Tiktoken
}

func NewPromptBuilder(historyTokens int) *PromptBuilder {
	// cl100k_base is close enough for budget purposes across both backends.
	// A nil encoder falls back to the bytes/4 heuristic.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		enc = nil
	}
	return &PromptBuilder{historyTokens: historyTokens, encoder: enc}
}

func (b *PromptBuilder) countTokens(s string) int {
	if b.encoder != nil {
		return len(b.encoder.Encode(s, nil, nil))
	}
	return len(s) / 4
}

func personaFor(mode model.ChatMode) string {
	if mode == model.ChatModeBestie {
		return bestiePersona
	}
	return professionalPersona
}

func speakerTag(isUser bool) string {
	if isUser {
		return "User: "
	}
	return "FED UP: "
}

// serializeHistory renders the transcript as speaker-tagged lines, dropping
// oldest turns until the result fits the token budget.
func (b *PromptBuilder) serializeHistory(history []model.Message) string {
	lines := make([]string, len(history))
	for i, m := range history {
		lines[i] = speakerTag(m.IsUser) + m.Text
	}
	joined := strings.Join(lines, "\n")
	for len(lines) > 0 && b.historyTokens > 0 && b.countTokens(joined) > b.historyTokens {
		lines = lines[1:]
		joined = strings.Join(lines, "\n")
	}
	return joined
}

// Build assembles the full prompt. searchInfo, when non-empty, is spliced in
// as an annotated context line; withTime injects the send-time wall clock.
func (b *PromptBuilder) Build(mode model.ChatMode, history []model.Message, message, searchInfo string, withTime bool, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(personaFor(mode))
	sb.WriteString("\n\nConversation so far: ")
	sb.WriteString(b.serializeHistory(history))
	if searchInfo != "" {
		sb.WriteString("\n\nCurrent information: ")
		sb.WriteString(searchInfo)
	}
	if withTime {
		sb.WriteString("\n\nThe current date and time is ")
		sb.WriteString(now.Format("Monday, January 2, 2006 at 3:04 PM MST"))
		sb.WriteString(".")
	}
	sb.WriteString("\n\nUser: ")
	sb.WriteString(message)
	sb.WriteString("\n\nFED UP:")
	return sb.String()
}
