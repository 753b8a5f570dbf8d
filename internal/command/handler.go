package command

import (
	"context"
	"log"

	"github.com/example/medtrack/internal/domain/job"
	"github.com/example/medtrack/internal/domain/part"
	"github.com/example/medtrack/internal/infrastructure/store"
	"github.com/example/medtrack/internal/readmodel"
)

// Handler coordinates the write side: it validates commands against the
// read store where cross-aggregate checks are needed, then drives the
// domain services.
type Handler struct {
	jobService  *job.Service
	partService *part.Service
	readStore   store.ReadStoreInterface
}

func NewHandler(jobService *job.Service, partService *part.Service, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		jobService:  jobService,
		partService: partService,
		readStore:   readStore,
	}
}

// SubmitRepairRequest opens a new job from intake form data
func (h *Handler) SubmitRepairRequest(ctx context.Context, cmd SubmitRepairRequestCommand) (*job.Job, error) {
	j, err := h.jobService.Report(ctx, job.ReportInput{
		AssetID:   cmd.AssetID,
		AssetName: cmd.AssetName,
		Location:  cmd.Location,
		Issue:     cmd.Issue,
		Urgency:   job.Urgency(cmd.Urgency),
		Reporter:  cmd.Reporter,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Command] Repair request submitted: %s (%s)", j.ID, j.AssetName)
	return j, nil
}

// TransitionJob moves a job along the workflow
func (h *Handler) TransitionJob(ctx context.Context, cmd TransitionJobCommand) error {
	target := job.Status(cmd.Status)
	if !job.ValidStatus(target) {
		return job.ErrInvalidStatus
	}
	return h.jobService.Transition(ctx, cmd.JobID, target, cmd.Actor)
}

// SaveJobProgress saves the repair note
func (h *Handler) SaveJobProgress(ctx context.Context, cmd SaveJobProgressCommand) error {
	return h.jobService.SaveProgress(ctx, cmd.JobID, cmd.RepairNote)
}

// AddPartToJob consumes one unit of a part for a job. Availability is
// checked against the read model first: a part with zero stock cannot be
// added, even though the inventory aggregate itself would clamp silently.
// The job is checked before inventory is touched, so a rejected command
// never leaves a unit consumed without a job snapshot.
func (h *Handler) AddPartToJob(ctx context.Context, cmd AddPartToJobCommand) error {
	j, err := h.jobService.Get(ctx, cmd.JobID)
	if err != nil {
		return err
	}
	if j.Status == job.StatusCompleted {
		return job.ErrJobCompleted
	}

	item, ok := h.readStore.Get("parts", cmd.PartID)
	if !ok {
		return part.ErrPartNotFound
	}
	pm := item.(*readmodel.PartReadModel)
	if pm.Stock <= 0 {
		return part.ErrPartUnavailable
	}

	if err := h.partService.Use(ctx, cmd.PartID, cmd.JobID); err != nil {
		return err
	}

	err = h.jobService.AddPart(ctx, cmd.JobID, job.UsedPart{
		PartID: pm.ID,
		Name:   pm.Name,
		Unit:   pm.Unit,
		Price:  pm.Price,
		Qty:    1,
	})
	if err != nil {
		return err
	}

	log.Printf("[Command] Part %s consumed by job %s", cmd.PartID, cmd.JobID)
	return nil
}

// RemovePartFromJob drops the part entry from the job. Stock is not
// returned to inventory; consumption is one-directional.
func (h *Handler) RemovePartFromJob(ctx context.Context, cmd RemovePartFromJobCommand) error {
	return h.jobService.RemovePart(ctx, cmd.JobID, cmd.PartID)
}

// UsePart consumes one unit of a part outside the repair flow
func (h *Handler) UsePart(ctx context.Context, cmd UsePartCommand) error {
	return h.partService.Use(ctx, cmd.PartID, "")
}

// RegisterPart adds a part to the inventory
func (h *Handler) RegisterPart(ctx context.Context, cmd RegisterPartCommand) (*part.Part, error) {
	return h.partService.Register(ctx, cmd.Part)
}

// RestockPart adds stock to an existing part
func (h *Handler) RestockPart(ctx context.Context, cmd RestockPartCommand) error {
	return h.partService.Restock(ctx, cmd.PartID, cmd.Quantity)
}

// ReplaceInventory swaps the whole parts catalog for the supplied one
func (h *Handler) ReplaceInventory(ctx context.Context, cmd ReplaceInventoryCommand) error {
	if err := h.partService.ReplaceAll(ctx, cmd.Parts); err != nil {
		return err
	}
	log.Printf("[Command] Inventory replaced with %d parts", len(cmd.Parts))
	return nil
}
