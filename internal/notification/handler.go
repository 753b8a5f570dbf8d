package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/medtrack/internal/domain/job"
	"github.com/example/medtrack/internal/email"
	"github.com/example/medtrack/internal/infrastructure/store"
	"github.com/example/medtrack/internal/toast"
)

// Handler turns workflow events into user-facing toasts and, for
// high-urgency reports, an alert email to the maintenance lead.
type Handler struct {
	sink         toast.Sink
	emailService *email.Service
	alertEmail   string
}

// NewHandler creates a notification handler. emailSvc and alertEmail may be
// zero-valued when email alerts are disabled.
func NewHandler(sink toast.Sink, emailSvc *email.Service, alertEmail string) *Handler {
	return &Handler{
		sink:         sink,
		emailService: emailSvc,
		alertEmail:   alertEmail,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.EventType {
	case job.EventJobReported:
		return h.handleJobReported(event)
	case job.EventJobStatusChanged:
		return h.handleJobStatusChanged(event)
	}

	return nil
}

func (h *Handler) handleJobReported(event store.Event) error {
	var e job.JobReported
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal JobReported event: %v", err)
		return err
	}

	h.sink.Push(toast.Toast{
		Message:  fmt.Sprintf("Repair request %s created for %s", e.JobID, e.AssetName),
		Severity: toast.SeveritySuccess,
	})

	if e.Urgency != job.UrgencyHigh {
		return nil
	}

	h.sink.Push(toast.Toast{
		Message:  fmt.Sprintf("Urgent: %s needs immediate attention (%s)", e.AssetName, e.JobID),
		Severity: toast.SeverityUrgent,
	})

	if h.emailService == nil || h.alertEmail == "" {
		return nil
	}
	if err := h.emailService.SendUrgentRepairAlert(h.alertEmail, e.JobID, e.AssetName, e.Location, e.Issue); err != nil {
		// Toasts were already delivered; a failed email must not poison the consumer
		log.Printf("[Notifier] Failed to send urgent alert for %s: %v", e.JobID, err)
		return nil
	}

	log.Printf("[Notifier] Urgent alert email sent for job %s", e.JobID)
	return nil
}

func (h *Handler) handleJobStatusChanged(event store.Event) error {
	var e job.JobStatusChanged
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal JobStatusChanged event: %v", err)
		return err
	}

	if e.To != job.StatusCompleted {
		return nil
	}

	h.sink.Push(toast.Toast{
		Message:  fmt.Sprintf("Job %s completed", e.JobID),
		Severity: toast.SeveritySuccess,
	})
	return nil
}
