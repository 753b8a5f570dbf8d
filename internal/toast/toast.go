package toast

import (
	"log"
	"time"
)

// Severity drives how the dashboard renders a toast. Urgent is deliberately
// distinct from success: a high-urgency repair request emits both a created
// toast and an urgent one.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityUrgent  Severity = "urgent"
	SeverityError   Severity = "error"
)

// Toast is a user-facing workflow notification
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink receives workflow-triggered notifications
type Sink interface {
	Push(t Toast)
}

// LogSink writes toasts to the process log. Used by the standalone notifier,
// which has no dashboard to deliver to.
type LogSink struct{}

func (LogSink) Push(t Toast) {
	log.Printf("[Toast] %s: %s", t.Severity, t.Message)
}
