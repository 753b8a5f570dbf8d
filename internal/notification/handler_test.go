package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/medtrack/internal/domain/job"
	"github.com/example/medtrack/internal/infrastructure/store"
	"github.com/example/medtrack/internal/toast"
)

// recordingSink captures pushed toasts for assertions
type recordingSink struct {
	toasts []toast.Toast
}

func (s *recordingSink) Push(t toast.Toast) {
	s.toasts = append(s.toasts, t)
}

func newTestHandler() (*Handler, *recordingSink) {
	sink := &recordingSink{}
	return NewHandler(sink, nil, ""), sink
}

func deliver(t *testing.T, h *Handler, eventType string, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	event := store.Event{
		ID:            uuid.New().String(),
		AggregateID:   "j1",
		AggregateType: job.AggregateType,
		EventType:     eventType,
		Data:          payload,
		Timestamp:     time.Now(),
		Version:       1,
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), []byte("j1"), value))
}

// ============================================
// Job Reported Tests
// ============================================

func TestHandler_JobReported_PushesSuccessToast(t *testing.T) {
	h, sink := newTestHandler()

	deliver(t, h, job.EventJobReported, job.JobReported{
		JobID:     "JOB-2503-001",
		AssetName: "Infusion pump",
		Urgency:   job.UrgencyNormal,
	})

	require.Len(t, sink.toasts, 1)
	assert.Equal(t, toast.SeveritySuccess, sink.toasts[0].Severity)
	assert.Contains(t, sink.toasts[0].Message, "JOB-2503-001")
	assert.Contains(t, sink.toasts[0].Message, "Infusion pump")
}

func TestHandler_JobReported_HighUrgencyAddsUrgentToast(t *testing.T) {
	h, sink := newTestHandler()

	deliver(t, h, job.EventJobReported, job.JobReported{
		JobID:     "JOB-2503-002",
		AssetName: "Ventilator",
		Urgency:   job.UrgencyHigh,
	})

	require.Len(t, sink.toasts, 2)
	assert.Equal(t, toast.SeveritySuccess, sink.toasts[0].Severity)
	assert.Equal(t, toast.SeverityUrgent, sink.toasts[1].Severity)
	assert.Contains(t, sink.toasts[1].Message, "Ventilator")
}

// ============================================
// Status Changed Tests
// ============================================

func TestHandler_StatusChanged_CompletedPushesToast(t *testing.T) {
	h, sink := newTestHandler()

	deliver(t, h, job.EventJobStatusChanged, job.JobStatusChanged{
		JobID: "JOB-2503-003",
		From:  job.StatusInProgress,
		To:    job.StatusCompleted,
	})

	require.Len(t, sink.toasts, 1)
	assert.Equal(t, toast.SeveritySuccess, sink.toasts[0].Severity)
	assert.Contains(t, sink.toasts[0].Message, "completed")
}

func TestHandler_StatusChanged_NonCompletedIsSilent(t *testing.T) {
	h, sink := newTestHandler()

	deliver(t, h, job.EventJobStatusChanged, job.JobStatusChanged{
		JobID: "JOB-2503-003",
		From:  job.StatusNew,
		To:    job.StatusInProgress,
	})

	assert.Empty(t, sink.toasts)
}

// ============================================
// Routing Tests
// ============================================

func TestHandler_IgnoresUnrelatedEvents(t *testing.T) {
	h, sink := newTestHandler()

	deliver(t, h, job.EventJobProgressSaved, job.JobProgressSaved{JobID: "j1", RepairNote: "note"})

	assert.Empty(t, sink.toasts)
}

func TestHandler_MalformedEvent(t *testing.T) {
	h, sink := newTestHandler()

	err := h.HandleEvent(context.Background(), []byte("j1"), []byte("not json"))

	assert.Error(t, err)
	assert.Empty(t, sink.toasts)
}
