package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/example/medtrack/internal/domain/aggregate"
	"github.com/example/medtrack/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

const AggregateType = "Job"

type Status string

const (
	StatusNew          Status = "new"
	StatusInProgress   Status = "in_progress"
	StatusWaitingParts Status = "waiting_parts"
	StatusCompleted    Status = "completed"
)

type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Type distinguishes corrective from preventive maintenance.
// Repair request intake always produces corrective jobs.
type Type string

const (
	TypeCorrective Type = "CM"
	TypePreventive Type = "PM"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrMissingAssetName  = errors.New("asset name is required")
	ErrMissingIssue      = errors.New("issue description is required")
	ErrInvalidUrgency    = errors.New("invalid urgency")
	ErrInvalidStatus     = errors.New("invalid job status")
	ErrJobCompleted      = errors.New("job is already completed")
	ErrInvalidTransition = errors.New("invalid job status transition")
)

// validTransitions defines the workflow state machine. Completed is terminal.
var validTransitions = map[Status][]Status{
	StatusNew:          {StatusInProgress, StatusWaitingParts, StatusCompleted},
	StatusInProgress:   {StatusWaitingParts, StatusCompleted},
	StatusWaitingParts: {StatusInProgress, StatusCompleted},
	StatusCompleted:    {},
}

// ValidStatus reports whether s is one of the four workflow states
func ValidStatus(s Status) bool {
	_, ok := validTransitions[s]
	return ok
}

// ValidUrgency reports whether u is a known urgency level
func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyNormal, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Job is a maintenance work order
type Job struct {
	ID         string     `json:"id"`
	AssetID    string     `json:"asset_id"`
	AssetName  string     `json:"asset_name"`
	Location   string     `json:"location"`
	Issue      string     `json:"issue"`
	Urgency    Urgency    `json:"urgency"`
	Status     Status     `json:"status"`
	Reporter   string     `json:"reporter"`
	Type       Type       `json:"type"`
	Technician string     `json:"technician,omitempty"`
	PartsUsed  []UsedPart `json:"parts_used"`
	RepairNote string     `json:"repair_note"`
	ReportedAt time.Time  `json:"reported_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// Aggregate interface implementation
func (j *Job) GetID() string    { return j.ID }
func (j *Job) GetVersion() int  { return j.Version }
func (j *Job) SetVersion(v int) { j.Version = v }

// TotalCost is derived from the consumed-part snapshots, never stored
func (j *Job) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, p := range j.PartsUsed {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Qty))))
	}
	return total
}

// CanTransitionTo checks if the job can transition to the target status
func (j *Job) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[j.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition
func (j *Job) transitionError(target Status) error {
	switch {
	case j.Status == StatusCompleted:
		return ErrJobCompleted
	case !ValidStatus(target):
		return fmt.Errorf("%w: %s", ErrInvalidTransition, target)
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, j.Status, target)
	}
}

// ApplyEvent applies a single event to the job state (implements aggregate.Aggregate)
func (j *Job) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventJobReported:
		var data JobReported
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		j.ID = data.JobID
		j.AssetID = data.AssetID
		j.AssetName = data.AssetName
		j.Location = data.Location
		j.Issue = data.Issue
		j.Urgency = data.Urgency
		j.Status = StatusNew
		j.Reporter = data.Reporter
		j.Type = data.Type
		j.PartsUsed = []UsedPart{}
		j.ReportedAt = data.ReportedAt
		j.UpdatedAt = data.ReportedAt
	case EventJobStatusChanged:
		var data JobStatusChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		j.Status = data.To
		j.UpdatedAt = data.ChangedAt
	case EventTechnicianAssigned:
		var data TechnicianAssigned
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if j.Technician == "" {
			j.Technician = data.Technician
		}
		j.UpdatedAt = data.AssignedAt
	case EventJobPartAdded:
		var data JobPartAdded
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		j.addPartSnapshot(data.Part)
		j.UpdatedAt = data.AddedAt
	case EventJobPartRemoved:
		var data JobPartRemoved
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		j.removePartSnapshot(data.PartID)
		j.UpdatedAt = data.RemovedAt
	case EventJobProgressSaved:
		var data JobProgressSaved
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		j.RepairNote = data.RepairNote
		j.UpdatedAt = data.SavedAt
	}
	j.Version = event.Version
	return nil
}

// addPartSnapshot increments qty for an existing entry or appends a new one
func (j *Job) addPartSnapshot(p UsedPart) {
	for i := range j.PartsUsed {
		if j.PartsUsed[i].PartID == p.PartID {
			j.PartsUsed[i].Qty += p.Qty
			return
		}
	}
	j.PartsUsed = append(j.PartsUsed, p)
}

// removePartSnapshot drops the entry entirely, regardless of qty
func (j *Job) removePartSnapshot(partID string) {
	for i := range j.PartsUsed {
		if j.PartsUsed[i].PartID == partID {
			j.PartsUsed = append(j.PartsUsed[:i], j.PartsUsed[i+1:]...)
			return
		}
	}
}

// hasPart reports whether the job holds a snapshot for partID
func (j *Job) hasPart(partID string) bool {
	for i := range j.PartsUsed {
		if j.PartsUsed[i].PartID == partID {
			return true
		}
	}
	return false
}

// NewJobID generates a work-order id of the form JOB-YYMM-NNN. The numeric
// suffix is random and uniqueness is not checked; collisions are accepted at
// single-session creation volume.
func NewJobID(now time.Time) string {
	return fmt.Sprintf("JOB-%s-%03d", now.Format("0601"), rand.Intn(1000))
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// ReportInput carries validated intake form data
type ReportInput struct {
	AssetID   string
	AssetName string
	Location  string
	Issue     string
	Urgency   Urgency
	Reporter  string
}

// Report validates intake data and creates a new corrective-maintenance job
// in status `new` with no technician, parts or note.
func (s *Service) Report(ctx context.Context, in ReportInput) (*Job, error) {
	if in.AssetName == "" {
		return nil, ErrMissingAssetName
	}
	if in.Issue == "" {
		return nil, ErrMissingIssue
	}
	if in.Urgency == "" {
		in.Urgency = UrgencyNormal
	}
	if !ValidUrgency(in.Urgency) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUrgency, in.Urgency)
	}

	jobID := NewJobID(time.Now())
	now := time.Now()

	event := JobReported{
		JobID:      jobID,
		AssetID:    in.AssetID,
		AssetName:  in.AssetName,
		Location:   in.Location,
		Issue:      in.Issue,
		Urgency:    in.Urgency,
		Reporter:   in.Reporter,
		Type:       TypeCorrective,
		ReportedAt: now,
	}

	stored, err := s.eventStore.Append(ctx, jobID, AggregateType, EventJobReported, event)
	if err != nil {
		return nil, err
	}

	j := &Job{
		ID:         jobID,
		AssetID:    in.AssetID,
		AssetName:  in.AssetName,
		Location:   in.Location,
		Issue:      in.Issue,
		Urgency:    in.Urgency,
		Status:     StatusNew,
		Reporter:   in.Reporter,
		Type:       TypeCorrective,
		PartsUsed:  []UsedPart{},
		ReportedAt: now,
		UpdatedAt:  now,
	}
	if stored != nil {
		j.Version = stored.Version
	}
	return j, nil
}

// loadJob loads a job by replaying events, using snapshot if available
func (s *Service) loadJob(ctx context.Context, jobID string) (*Job, error) {
	j, found, err := aggregate.LoadAggregate(ctx, s.eventStore, jobID, func() *Job {
		return &Job{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrJobNotFound
	}
	return j, nil
}

// Get returns the current state of a job
func (s *Service) Get(ctx context.Context, jobID string) (*Job, error) {
	return s.loadJob(ctx, jobID)
}

// Transition moves a job to the target status. The first time a job leaves
// `new`, the acting user becomes the technician of record for the job's
// lifetime.
func (s *Service) Transition(ctx context.Context, jobID string, target Status, actor string) error {
	j, err := s.loadJob(ctx, jobID)
	if err != nil {
		return err
	}

	if !j.CanTransitionTo(target) {
		return j.transitionError(target)
	}

	now := time.Now()

	if j.Status == StatusNew && target != StatusNew && j.Technician == "" && actor != "" {
		assign := TechnicianAssigned{
			JobID:      jobID,
			Technician: actor,
			AssignedAt: now,
		}
		stored, err := s.eventStore.Append(ctx, jobID, AggregateType, EventTechnicianAssigned, assign)
		if err != nil {
			return err
		}
		j.Technician = actor
		if stored != nil {
			j.Version = stored.Version
		}
	}

	event := JobStatusChanged{
		JobID:     jobID,
		From:      j.Status,
		To:        target,
		ChangedAt: now,
	}

	stored, err := s.eventStore.Append(ctx, jobID, AggregateType, EventJobStatusChanged, event)
	if err != nil {
		return err
	}

	j.Status = target
	if stored != nil {
		j.Version = stored.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, j, AggregateType); err != nil {
		log.Printf("[Job] Failed to create snapshot for job %s: %v", j.ID, err)
	}

	return nil
}

// SaveProgress persists the repair note regardless of status changes.
// Completed jobs are frozen.
func (s *Service) SaveProgress(ctx context.Context, jobID, repairNote string) error {
	j, err := s.loadJob(ctx, jobID)
	if err != nil {
		return err
	}

	if j.Status == StatusCompleted {
		return ErrJobCompleted
	}

	event := JobProgressSaved{
		JobID:      jobID,
		RepairNote: repairNote,
		SavedAt:    time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, jobID, AggregateType, EventJobProgressSaved, event)
	if err != nil {
		return err
	}

	j.RepairNote = repairNote
	if stored != nil {
		j.Version = stored.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, j, AggregateType); err != nil {
		log.Printf("[Job] Failed to create snapshot for job %s: %v", j.ID, err)
	}

	return nil
}

// AddPart records consumption of one unit of a part, snapshotting its name
// and price. Callers are responsible for decrementing inventory first.
func (s *Service) AddPart(ctx context.Context, jobID string, p UsedPart) error {
	j, err := s.loadJob(ctx, jobID)
	if err != nil {
		return err
	}

	if j.Status == StatusCompleted {
		return ErrJobCompleted
	}

	p.Qty = 1 // one unit per call
	event := JobPartAdded{
		JobID:   jobID,
		Part:    p,
		AddedAt: time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, jobID, AggregateType, EventJobPartAdded, event)
	if err != nil {
		return err
	}

	j.addPartSnapshot(p)
	if stored != nil {
		j.Version = stored.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, j, AggregateType); err != nil {
		log.Printf("[Job] Failed to create snapshot for job %s: %v", j.ID, err)
	}

	return nil
}

// RemovePart drops a part entry from the job entirely. Removing a part that
// is not on the job is a silent no-op. Inventory is not restocked.
func (s *Service) RemovePart(ctx context.Context, jobID, partID string) error {
	j, err := s.loadJob(ctx, jobID)
	if err != nil {
		return err
	}

	if j.Status == StatusCompleted {
		return ErrJobCompleted
	}

	if !j.hasPart(partID) {
		return nil
	}

	event := JobPartRemoved{
		JobID:     jobID,
		PartID:    partID,
		RemovedAt: time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, jobID, AggregateType, EventJobPartRemoved, event)
	if err != nil {
		return err
	}

	j.removePartSnapshot(partID)
	if stored != nil {
		j.Version = stored.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, j, AggregateType); err != nil {
		log.Printf("[Job] Failed to create snapshot for job %s: %v", j.ID, err)
	}

	return nil
}
