package notify

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification
type Kind string

const (
	KindPending Kind = "pending" // Transaction in progress, settled when Done closes
	KindInfo    Kind = "info"    // Transaction created, carries the explorer link
	KindError   Kind = "error"   // Submission failed
)

// DefaultDuration is how long a notification stays visible when none is given
const DefaultDuration = 8 * time.Second

// Notification is one user-facing message about a submission
type Notification struct {
	ID        string
	Kind      Kind
	Title     string
	Content   string
	Duration  time.Duration
	ActionURL string
	// Done is closed when a pending notification is settled. Nil for other kinds.
	Done <-chan struct{}
}

// Sink renders or forwards notifications
type Sink interface {
	Notify(n Notification)
}

// New creates a notification with a fresh id
func New(kind Kind, title, content string) Notification {
	return Notification{
		ID:       uuid.New().String(),
		Kind:     kind,
		Title:    title,
		Content:  content,
		Duration: DefaultDuration,
	}
}

// Multi fans a notification out to several sinks
type Multi []Sink

// Notify forwards n to every sink
func (m Multi) Notify(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}
