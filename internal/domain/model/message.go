package model

import "time"

// Message is one turn half in a conversation: either the user's utterance or
// the assistant's reply. The ID doubles as identity and sort key; it is
// derived from wall-clock milliseconds so transcripts interleave in send
// order even across devices.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	CreatedAt time.Time `json:"-"`
}

func NewMessage(id int64, text string, isUser bool) *Message {
	return &Message{ID: id, Text: text, IsUser: isUser, CreatedAt: time.Now()}
}

// NextMessageID returns a millisecond timestamp id strictly greater than
// lastID, bumping by one when two messages land in the same millisecond.
func NextMessageID(lastID int64) int64 {
	id := time.Now().UnixMilli()
	if id <= lastID {
		return lastID + 1
	}
	return id
}

// CountUserMessages counts the user-authored entries in a transcript.
func CountUserMessages(msgs []Message) int {
	n := 0
	for _, m := range msgs {
		if m.IsUser {
			n++
		}
	}
	return n
}
