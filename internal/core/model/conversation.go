package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn of the chat history. The pipeline only
// ever reads or rewrites a working copy; caller-owned history is never
// mutated.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
