package domain

import (
	"encoding/json"
	"time"
)

// StudioType selects the generation mode and its response template set.
type StudioType string

const (
	StudioText     StudioType = "text"
	StudioCode     StudioType = "code"
	StudioDocument StudioType = "document"
	StudioCreative StudioType = "creative"
)

// StudioTypes lists every known studio in a stable order.
var StudioTypes = []StudioType{StudioText, StudioCode, StudioDocument, StudioCreative}

// ParseStudioType maps a raw string to a known studio type. Unknown values
// fall back to StudioText; callers that need to distinguish check ok.
// The fallback is intentional permissiveness, not an error path.
func ParseStudioType(s string) (StudioType, bool) {
	switch StudioType(s) {
	case StudioText, StudioCode, StudioDocument, StudioCreative:
		return StudioType(s), true
	default:
		return StudioText, false
	}
}

// Sender identifies the author of a chat message.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// User holds account data. APIKey presence is the only validity signal the
// server exposes; no upstream provider check happens anywhere.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	APIKey    *string   `json:"apiKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasValidAPIKey reports whether a non-empty key is stored.
func (u *User) HasValidAPIKey() bool {
	return u != nil && u.APIKey != nil && *u.APIKey != ""
}

// Project is one saved studio session owned by a user.
type Project struct {
	ID         int             `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	StudioType StudioType      `json:"studioType"`
	UserID     *int            `json:"userId"`
	TokensUsed int             `json:"tokensUsed"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ChatMessage is one persisted turn in a project's conversation.
// Append-only: rows are never mutated after creation.
type ChatMessage struct {
	ID        int       `json:"id"`
	ProjectID *int      `json:"projectId"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// InsertUser carries the fields a caller may set when creating a user.
type InsertUser struct {
	Username string
	Password string
	APIKey   *string
}

// InsertProject carries the fields a caller may set when creating a project.
type InsertProject struct {
	Title      string
	Content    string
	StudioType StudioType
	UserID     *int
	TokensUsed int
	Metadata   json.RawMessage
}

// ProjectUpdate is a partial update; nil fields are left untouched.
// UpdatedAt is always refreshed on a successful update.
type ProjectUpdate struct {
	Title      *string
	Content    *string
	StudioType *StudioType
	TokensUsed *int
	Metadata   json.RawMessage
}

// InsertChatMessage carries the fields a caller may set when appending a message.
type InsertChatMessage struct {
	ProjectID *int
	Content   string
	Sender    string
}
