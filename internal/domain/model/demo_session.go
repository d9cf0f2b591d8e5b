package model

// DemoSession is the anonymous, device-scoped conversation record. It is
// persisted client-side as a signed opaque blob; the server verifies the
// signature, mutates the record, and signs it again before handing it back.
type DemoSession struct {
	Messages []Message `json:"messages"`
	IsLocked bool      `json:"isLocked"`

	// Tampered is set when the stored signature did not validate. A tampered
	// session must never be saved again; re-signing it would launder the
	// forged content.
	Tampered bool `json:"-"`
}

func NewDemoSession() *DemoSession {
	return &DemoSession{Messages: make([]Message, 0, 8)}
}

// UserTurns counts the user-authored messages, which is what the demo cap
// is measured against.
func (s *DemoSession) UserTurns() int {
	return CountUserMessages(s.Messages)
}

// Append adds a message and re-derives the lock state against cap.
func (s *DemoSession) Append(m *Message, cap int) {
	s.Messages = append(s.Messages, *m)
	if s.UserTurns() >= cap {
		s.IsLocked = true
	}
}

// Heal forces the lock on when the transcript already holds cap or more
// user turns, regardless of what the stored flag said.
func (s *DemoSession) Heal(cap int) {
	if s.UserTurns() >= cap {
		s.IsLocked = true
	}
}

// LastID returns the highest message id in the record.
func (s *DemoSession) LastID() int64 {
	var last int64
	for _, m := range s.Messages {
		if m.ID > last {
			last = m.ID
		}
	}
	return last
}
