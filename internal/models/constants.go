// Package models contains data types and constants shared by the askchat client.
package models

// Endpoint defaults for the question-answering service
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	PathAsk        = "/ask"
)

// Transcript text constants
const (
	Greeting    = "👋 Hi there! How can I assist you today?"
	Placeholder = "..."
	TypingText  = "AI is typing..."
	FailureText = "⚠️ Failed to fetch response."
	ChatTitle   = "💬 Customer Service Chatbot"
)

// DefaultHeaders returns the headers sent with every ask request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "askchat",
	}
}
