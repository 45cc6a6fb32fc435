package entities

import "time"

// Roles accepted by the chat API. A standalone "system" role is not supported;
// instruction text is folded into the first user message.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn of a conversation as replayed to the chat API.
type Message struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

// Text returns the first part of the message, coercing a missing part to an
// empty string.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return ""
	}
	return m.Parts[0]
}

// Conversation is the server-side transcript record kept for auditing. The
// history replayed to the model stays client-owned; this record is never read
// back into a prompt.
type Conversation struct {
	ConversationID string       `json:"conversation_id" bson:"conversation_id"`
	Transcript     []Transcript `json:"transcript" bson:"transcript"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updatedAt"`
}

type Transcript struct {
	Role      string    `json:"role" bson:"role"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
