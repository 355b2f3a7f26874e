package chat

import (
	"fmt"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation. IDs are UnixNano strings so that
// lexicographic order on equal-length ids matches creation order.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Liked     bool      `json:"liked,omitempty"`
	Disliked  bool      `json:"disliked,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one persisted conversation. Messages are append-only from the
// UI's perspective; only the feedback flags mutate after the fact.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewMessage(role, content string) Message {
	now := time.Now()
	return Message{
		ID:        fmt.Sprintf("%d", now.UnixNano()),
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
}

// titleMaxRunes bounds derived session titles.
const titleMaxRunes = 20

// deriveTitle shortens message content into a session title.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxRunes {
		return content
	}
	return string(runes[:titleMaxRunes]) + "…"
}

// firstUserContent returns the content of the first user-authored message.
func firstUserContent(msgs []Message) string {
	for _, m := range msgs {
		if m.Role == RoleUser && m.Content != "" {
			return m.Content
		}
	}
	return ""
}
