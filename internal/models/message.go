package models

import "time"

// Sender identifies who authored a transcript entry
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// EntryState tracks whether an AI entry is still waiting on the network
type EntryState string

const (
	StatePending  EntryState = "pending"
	StateResolved EntryState = "resolved"
	StateFailed   EntryState = "failed"
)

// Message is a single transcript entry.
// ID correlates a pending entry with the request that will settle it.
type Message struct {
	ID        string
	Sender    Sender
	Text      string
	State     EntryState
	CreatedAt time.Time
}

// IsPending reports whether the entry is a placeholder awaiting a response
func (m Message) IsPending() bool {
	return m.State == StatePending
}

// IsAI reports whether the entry was authored by the remote service
func (m Message) IsAI() bool {
	return m.Sender == SenderAI
}

// Copyable reports whether the entry exposes copy-to-clipboard
func (m Message) Copyable() bool {
	return m.IsAI() && !m.IsPending()
}

// AskRequest is the JSON body posted to the ask endpoint
type AskRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}
