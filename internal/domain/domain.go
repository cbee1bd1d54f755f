package domain

import (
	"errors"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Post struct {
	ID             int64
	Title          string
	Body           string
	Summary        string
	SummaryMarker  string
	EditorID       int64
	AuthorID       int64
	PublishedAt    time.Time
	SummaryUpdated time.Time
}

// AuditRecord is the raw material for one audited post: the AI text kept in
// the marker field next to the text a human left in the summary field.
type AuditRecord struct {
	ID           int64
	AIContent    string
	HumanContent string
	RawContent   string
	EditorID     int64
	AuthorID     int64
	PublishedAt  time.Time
}

type Settings struct {
	APIKey               string
	ModelID              string
	WordLimit            int
	SystemPromptTemplate string
	DebugMode            bool
}

var ErrNotFound = errors.New("not found")
