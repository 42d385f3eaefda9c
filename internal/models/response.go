package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatResponse is the envelope a visualization payload arrives on. The
// Visualization field holds whatever the analytics backend attached: a JSON
// object, a JSON-encoded string, or nothing. Content is the free-text part
// of the response and doubles as the inference text when the payload
// declares no chart type.
type ChatResponse struct {
	ID            string    `json:"id"`
	Role          Role      `json:"role"`
	Content       string    `json:"content"`
	Visualization any       `json:"visualization,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewChatResponse creates a response envelope with a fresh ID.
func NewChatResponse(role Role, content string, visualization any) *ChatResponse {
	return &ChatResponse{
		ID:            uuid.New().String(),
		Role:          role,
		Content:       content,
		Visualization: visualization,
		CreatedAt:     time.Now().UTC(),
	}
}

// HasVisualization reports whether the response carries a payload at all.
func (r *ChatResponse) HasVisualization() bool {
	return r != nil && r.Visualization != nil
}
