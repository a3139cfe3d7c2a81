package model

import "time"

// Turn is a single message within a conversation.
type Turn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Conversation is one recorded exchange between an agent and a user,
// fetched from the warehouse for evaluation.
type Conversation struct {
	ProjectID   string    `json:"project_id"  db:"project_id"`
	AgentID     string    `json:"agent_id"    db:"agent_id"`
	SessionID   string    `json:"session_id"  db:"session_id"`
	Turns       []Turn    `json:"conversation_turns"`
	ExtractedAt time.Time `json:"extraction_timestamp"`
}
