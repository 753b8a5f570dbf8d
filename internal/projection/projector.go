package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/medtrack/internal/domain/job"
	"github.com/example/medtrack/internal/domain/part"
	"github.com/example/medtrack/internal/domain/user"
	"github.com/example/medtrack/internal/infrastructure/store"
	"github.com/example/medtrack/internal/readmodel"
)

type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case job.AggregateType:
		return p.handleJobEvent(event)
	case part.AggregateType:
		return p.handlePartEvent(event)
	case user.AggregateType:
		return p.handleUserEvent(event)
	}

	return nil
}

func (p *Projector) handleJobEvent(event store.Event) error {
	switch event.EventType {
	case job.EventJobReported:
		var e job.JobReported
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("jobs", e.JobID, &readmodel.JobReadModel{
			ID:         e.JobID,
			AssetID:    e.AssetID,
			AssetName:  e.AssetName,
			Location:   e.Location,
			Issue:      e.Issue,
			Urgency:    string(e.Urgency),
			Status:     string(job.StatusNew),
			Reporter:   e.Reporter,
			Type:       string(e.Type),
			PartsUsed:  []readmodel.UsedPartReadModel{},
			ReportedAt: e.ReportedAt,
			UpdatedAt:  e.ReportedAt,
			Seq:        event.Timestamp.UnixNano(),
		})

	case job.EventJobStatusChanged:
		var e job.JobStatusChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("jobs", e.JobID, func(current any) any {
			j := current.(*readmodel.JobReadModel)
			j.Status = string(e.To)
			j.UpdatedAt = e.ChangedAt
			return j
		})

	case job.EventTechnicianAssigned:
		var e job.TechnicianAssigned
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("jobs", e.JobID, func(current any) any {
			j := current.(*readmodel.JobReadModel)
			if j.Technician == "" {
				j.Technician = e.Technician
			}
			j.UpdatedAt = e.AssignedAt
			return j
		})

	case job.EventJobPartAdded:
		var e job.JobPartAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("jobs", e.JobID, func(current any) any {
			j := current.(*readmodel.JobReadModel)
			for i := range j.PartsUsed {
				if j.PartsUsed[i].PartID == e.Part.PartID {
					j.PartsUsed[i].Qty += e.Part.Qty
					j.UpdatedAt = e.AddedAt
					return j
				}
			}
			j.PartsUsed = append(j.PartsUsed, readmodel.UsedPartReadModel{
				PartID: e.Part.PartID,
				Name:   e.Part.Name,
				Unit:   e.Part.Unit,
				Price:  e.Part.Price,
				Qty:    e.Part.Qty,
			})
			j.UpdatedAt = e.AddedAt
			return j
		})

	case job.EventJobPartRemoved:
		var e job.JobPartRemoved
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("jobs", e.JobID, func(current any) any {
			j := current.(*readmodel.JobReadModel)
			for i := range j.PartsUsed {
				if j.PartsUsed[i].PartID == e.PartID {
					j.PartsUsed = append(j.PartsUsed[:i], j.PartsUsed[i+1:]...)
					break
				}
			}
			j.UpdatedAt = e.RemovedAt
			return j
		})

	case job.EventJobProgressSaved:
		var e job.JobProgressSaved
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("jobs", e.JobID, func(current any) any {
			j := current.(*readmodel.JobReadModel)
			j.RepairNote = e.RepairNote
			j.UpdatedAt = e.SavedAt
			return j
		})
	}

	return nil
}

func (p *Projector) handlePartEvent(event store.Event) error {
	switch event.EventType {
	case part.EventPartRegistered:
		var e part.PartRegistered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("parts", e.PartID, &readmodel.PartReadModel{
			ID:        e.PartID,
			Name:      e.Name,
			Price:     e.Price,
			Stock:     e.Stock,
			Min:       e.Min,
			Unit:      e.Unit,
			Seq:       event.Timestamp.UnixNano(),
			CreatedAt: e.RegisteredAt,
			UpdatedAt: e.RegisteredAt,
		})

	case part.EventPartUsed:
		var e part.PartUsed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("parts", e.PartID, func(current any) any {
			pm := current.(*readmodel.PartReadModel)
			pm.Stock -= e.Quantity
			if pm.Stock < 0 {
				pm.Stock = 0
			}
			pm.UpdatedAt = e.UsedAt
			return pm
		})

	case part.EventPartRestocked:
		var e part.PartRestocked
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("parts", e.PartID, func(current any) any {
			pm := current.(*readmodel.PartReadModel)
			pm.Stock += e.Quantity
			pm.UpdatedAt = e.RestockedAt
			return pm
		})

	case part.EventPartReplaced:
		var e part.PartReplaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		// Keep registration order for parts that survive the replacement
		seq := event.Timestamp.UnixNano()
		createdAt := e.ReplacedAt
		if existing, ok := p.readStore.Get("parts", e.PartID); ok {
			prev := existing.(*readmodel.PartReadModel)
			seq = prev.Seq
			createdAt = prev.CreatedAt
		}
		p.readStore.Set("parts", e.PartID, &readmodel.PartReadModel{
			ID:        e.PartID,
			Name:      e.Name,
			Price:     e.Price,
			Stock:     e.Stock,
			Min:       e.Min,
			Unit:      e.Unit,
			Seq:       seq,
			CreatedAt: createdAt,
			UpdatedAt: e.ReplacedAt,
		})

	case part.EventInventoryReplaced:
		var e part.InventoryReplaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		keep := make(map[string]bool, len(e.PartIDs))
		for _, id := range e.PartIDs {
			keep[id] = true
		}
		for _, item := range p.readStore.GetAll("parts") {
			pm := item.(*readmodel.PartReadModel)
			if !keep[pm.ID] {
				p.readStore.Delete("parts", pm.ID)
			}
		}
	}

	return nil
}

func (p *Projector) handleUserEvent(event store.Event) error {
	switch event.EventType {
	case user.EventUserCreated:
		var e user.UserCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("users", e.UserID, &readmodel.UserReadModel{
			ID:           e.UserID,
			Email:        e.Email,
			PasswordHash: e.PasswordHash,
			Name:         e.Name,
			Role:         e.Role,
			IsActive:     true,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.CreatedAt,
		})

	case user.EventUserPasswordChanged:
		var e user.UserPasswordChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.PasswordHash = e.PasswordHash
			u.UpdatedAt = e.ChangedAt
			return u
		})

	case user.EventUserDeactivated:
		var e user.UserDeactivated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.IsActive = false
			u.UpdatedAt = e.DeactivatedAt
			return u
		})

	case user.EventUserActivated:
		var e user.UserActivated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.IsActive = true
			u.UpdatedAt = e.ActivatedAt
			return u
		})
	}

	return nil
}
