package conversation

import "time"

// TurnRole distinguishes the two halves of a Q&A exchange.
type TurnRole string

const (
	TurnQuestion TurnRole = "question"
	TurnAnswer   TurnRole = "answer"
)

// Source is a citation attached to an answer turn. Page is nil when the
// answering service could not attribute a page number.
type Source struct {
	DocumentName string `json:"documentName"`
	Page         *int   `json:"page,omitempty"`
}

// Turn is a single message within a conversation. Sources is empty for
// question turns.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
	Sources []Source `json:"sources,omitempty"`
}

// Conversation is a saved snapshot of a chat, owned by exactly one principal.
type Conversation struct {
	ID         string    `json:"id"`
	OwnerEmail string    `json:"-"`
	Turns      []Turn    `json:"turns"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Summary is the listing projection of a conversation.
type Summary struct {
	ID           string    `json:"id"`
	Preview      string    `json:"preview"`
	MessageCount int       `json:"messageCount"`
	Timestamp    time.Time `json:"timestamp"`
}
