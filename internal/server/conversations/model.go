// Package conversations persists chat history as a single JSON document in
// the object store and derives the sidebar view: per-conversation titles and
// recency buckets. The document is overwritten wholesale on every save and
// capped at the most recent conversations; there is no locking, so
// concurrent writers follow last-writer-wins.
package conversations

// Speaker roles for a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn, tagged with its speaker role.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered list of turns with the timestamp assigned at
// save time (ISO-8601). Conversations are immutable once saved; they only
// disappear when the retention cap drops the oldest entries.
type Conversation struct {
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`
}
