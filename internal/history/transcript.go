// Package history holds the in-memory chat transcript and its export formats.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
)

// Transcript is the ordered list of exchanged messages.
// It only grows; the sole mutation allowed on an existing entry is settling
// a pending AI entry, and each pending entry settles exactly once.
type Transcript struct {
	mu       sync.RWMutex
	messages []models.Message
	now      func() time.Time
	newID    func() string
}

// TranscriptOption configures a Transcript
type TranscriptOption func(*Transcript)

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) TranscriptOption {
	return func(t *Transcript) {
		t.now = now
	}
}

// WithIDGenerator overrides the entry id generator (tests)
func WithIDGenerator(newID func() string) TranscriptOption {
	return func(t *Transcript) {
		t.newID = newID
	}
}

// NewTranscript creates a transcript seeded with the default AI greeting
func NewTranscript(opts ...TranscriptOption) *Transcript {
	return NewTranscriptWithGreeting(models.Greeting, opts...)
}

// NewTranscriptWithGreeting creates a transcript seeded with greeting.
// An empty greeting leaves the transcript empty.
func NewTranscriptWithGreeting(greeting string, opts ...TranscriptOption) *Transcript {
	t := &Transcript{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}

	if greeting != "" {
		t.messages = append(t.messages, t.entry(models.SenderAI, greeting, models.StateResolved))
	}
	return t
}

func (t *Transcript) entry(sender models.Sender, text string, state models.EntryState) models.Message {
	return models.Message{
		ID:        t.newID(),
		Sender:    sender,
		Text:      text,
		State:     state,
		CreatedAt: t.now(),
	}
}

// Submit appends the user's message followed by a pending AI entry.
// Blank input (after trimming) is ignored and ok is false.
// The user text is stored as typed, without trimming.
func (t *Transcript) Submit(text string) (user, pending models.Message, ok bool) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, models.Message{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	user = t.entry(models.SenderUser, text, models.StateResolved)
	pending = t.entry(models.SenderAI, models.Placeholder, models.StatePending)
	t.messages = append(t.messages, user, pending)

	return user, pending, true
}

// Resolve replaces the pending entry id with the service's reply, verbatim
func (t *Transcript) Resolve(id, text string) error {
	return t.settle(id, text, models.StateResolved)
}

// Fail replaces the pending entry id with the fixed failure message
func (t *Transcript) Fail(id string) error {
	return t.settle(id, models.FailureText, models.StateFailed)
}

func (t *Transcript) settle(id, text string, state models.EntryState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, idx, found := lo.FindIndexOf(t.messages, func(m models.Message) bool {
		return m.ID == id
	})
	if !found {
		return apierrors.ErrEntryNotFound
	}
	if !t.messages[idx].IsPending() {
		return apierrors.ErrEntryNotPending
	}

	t.messages[idx].Text = text
	t.messages[idx].State = state
	return nil
}

// Awaiting reports whether any submission is still waiting on the network
func (t *Transcript) Awaiting() bool {
	return t.PendingCount() > 0
}

// PendingCount returns the number of unsettled AI entries
func (t *Transcript) PendingCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return lo.CountBy(t.messages, func(m models.Message) bool {
		return m.IsPending()
	})
}

// Len returns the number of entries
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Entries returns a copy of all entries in order
func (t *Transcript) Entries() []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Get returns the entry with the given id
func (t *Transcript) Get(id string) (models.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return lo.Find(t.messages, func(m models.Message) bool {
		return m.ID == id
	})
}

// Last returns the newest entry, if any
func (t *Transcript) Last() (models.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.messages) == 0 {
		return models.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Copyable returns the AI entries that expose copy-to-clipboard, oldest first
func (t *Transcript) Copyable() []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return lo.Filter(t.messages, func(m models.Message, _ int) bool {
		return m.Copyable()
	})
}
