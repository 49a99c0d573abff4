package agent

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the append-only role-tagged history of a session. It is never
// evicted or summarized; it lives for as long as the session does.
type Transcript struct {
	messages []Message
}

func (t *Transcript) add(role, text string) {
	t.messages = append(t.messages, Message{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (t *Transcript) Messages() []Message {
	result := make([]Message, len(t.messages))
	copy(result, t.messages)

	return result
}
