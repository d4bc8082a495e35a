package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/askchat/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how a transcript is exported
type ExportOptions struct {
	Format            ExportFormat
	Title             string
	SessionID         string
	IncludeTimestamps bool
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:            ExportFormatMarkdown,
		Title:             "Chat transcript",
		IncludeTimestamps: true,
	}
}

// FormatForPath picks the export format from a file extension
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// settled returns entries that have a final text; placeholders are skipped
func (t *Transcript) settled() []models.Message {
	var out []models.Message
	for _, msg := range t.Entries() {
		if msg.IsPending() {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// ExportMarkdown renders the transcript as Markdown
func (t *Transcript) ExportMarkdown(opts ExportOptions) string {
	messages := t.settled()

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	if opts.SessionID != "" {
		sb.WriteString("**Session:** ")
		sb.WriteString(opts.SessionID)
		sb.WriteString("\n")
	}
	sb.WriteString("**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		role := "User"
		if msg.IsAI() {
			role = "AI"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if opts.IncludeTimestamps && !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders the transcript as indented JSON
func (t *Transcript) ExportJSON(opts ExportOptions) ([]byte, error) {
	type exportMessage struct {
		Sender    models.Sender     `json:"sender"`
		Text      string            `json:"text"`
		State     models.EntryState `json:"state"`
		CreatedAt *time.Time        `json:"created_at,omitempty"`
	}

	type exportTranscript struct {
		Title     string          `json:"title"`
		SessionID string          `json:"session_id,omitempty"`
		Messages  []exportMessage `json:"messages"`
	}

	messages := t.settled()
	export := exportTranscript{
		Title:     opts.Title,
		SessionID: opts.SessionID,
		Messages:  make([]exportMessage, len(messages)),
	}

	for i, msg := range messages {
		export.Messages[i] = exportMessage{
			Sender: msg.Sender,
			Text:   msg.Text,
			State:  msg.State,
		}
		if opts.IncludeTimestamps && !msg.CreatedAt.IsZero() {
			ts := msg.CreatedAt
			export.Messages[i].CreatedAt = &ts
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// ExportToFile writes the transcript to path, choosing the format from its extension
func (t *Transcript) ExportToFile(path string, opts ExportOptions) error {
	opts.Format = FormatForPath(path)

	var data []byte
	switch opts.Format {
	case ExportFormatJSON:
		b, err := t.ExportJSON(opts)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
		data = b
	default:
		data = []byte(t.ExportMarkdown(opts))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
