package part

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/medtrack/internal/domain/aggregate"
	"github.com/example/medtrack/internal/infrastructure/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateType = "Part"

// InventoryAggregateID is the synthetic aggregate that records
// collection-level operations such as bulk replacement.
const InventoryAggregateID = "inventory"

var (
	ErrPartNotFound    = errors.New("part not found")
	ErrPartUnavailable = errors.New("part unavailable")
	ErrInvalidName     = errors.New("part name is required")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrNegativeStock   = errors.New("stock must not be negative")
	ErrNegativeMin     = errors.New("reorder threshold must not be negative")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Part is a stock-keeping unit consumed by maintenance jobs
type Part struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Min       int             `json:"min"`
	Unit      string          `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
}

// Aggregate interface implementation
func (p *Part) GetID() string    { return p.ID }
func (p *Part) GetVersion() int  { return p.Version }
func (p *Part) SetVersion(v int) { p.Version = v }

// ApplyEvent applies a single event to the part state
func (p *Part) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventPartRegistered:
		var data PartRegistered
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.ID = data.PartID
		p.Name = data.Name
		p.Price = data.Price
		p.Stock = data.Stock
		p.Min = data.Min
		p.Unit = data.Unit
		p.CreatedAt = data.RegisteredAt
		p.UpdatedAt = data.RegisteredAt
	case EventPartUsed:
		var data PartUsed
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Stock -= data.Quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		p.UpdatedAt = data.UsedAt
	case EventPartRestocked:
		var data PartRestocked
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Stock += data.Quantity
		p.UpdatedAt = data.RestockedAt
	case EventPartReplaced:
		var data PartReplaced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.ID = data.PartID
		p.Name = data.Name
		p.Price = data.Price
		p.Stock = data.Stock
		p.Min = data.Min
		p.Unit = data.Unit
		if p.CreatedAt.IsZero() {
			p.CreatedAt = data.ReplacedAt
		}
		p.UpdatedAt = data.ReplacedAt
	}
	p.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// PartInput describes a part for registration or bulk replacement
type PartInput struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Min   int             `json:"min"`
	Unit  string          `json:"unit"`
}

func validateInput(in PartInput) error {
	if in.Name == "" {
		return ErrInvalidName
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	if in.Min < 0 {
		return ErrNegativeMin
	}
	return nil
}

// Register adds a new part to the inventory. An empty id gets a generated one.
func (s *Service) Register(ctx context.Context, in PartInput) (*Part, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	now := time.Now()

	event := PartRegistered{
		PartID:       in.ID,
		Name:         in.Name,
		Price:        in.Price,
		Stock:        in.Stock,
		Min:          in.Min,
		Unit:         in.Unit,
		RegisteredAt: now,
	}

	stored, err := s.eventStore.Append(ctx, in.ID, AggregateType, EventPartRegistered, event)
	if err != nil {
		return nil, err
	}

	p := &Part{
		ID:        in.ID,
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.Stock,
		Min:       in.Min,
		Unit:      in.Unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if stored != nil {
		p.Version = stored.Version
	}
	return p, nil
}

// loadPart loads a part by replaying events, using snapshot if available
func (s *Service) loadPart(ctx context.Context, partID string) (*Part, error) {
	p, found, err := aggregate.LoadAggregate(ctx, s.eventStore, partID, func() *Part {
		return &Part{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPartNotFound
	}
	return p, nil
}

// Get returns the current state of a part
func (s *Service) Get(ctx context.Context, partID string) (*Part, error) {
	return s.loadPart(ctx, partID)
}

// Use consumes exactly one unit of a part. Stock is clamped at zero; a
// missing part is a silent no-op because availability is checked by the
// caller before reaching this point.
func (s *Service) Use(ctx context.Context, partID, jobID string) error {
	p, err := s.loadPart(ctx, partID)
	if err != nil {
		if errors.Is(err, ErrPartNotFound) {
			return nil
		}
		return err
	}

	event := PartUsed{
		PartID:   partID,
		JobID:    jobID,
		Quantity: 1,
		UsedAt:   time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, partID, AggregateType, EventPartUsed, event)
	if err != nil {
		return err
	}

	p.Stock--
	if p.Stock < 0 {
		p.Stock = 0
	}
	if stored != nil {
		p.Version = stored.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType); err != nil {
		log.Printf("[Part] Failed to create snapshot for part %s: %v", partID, err)
	}

	return nil
}

// Restock adds stock to an existing part
func (s *Service) Restock(ctx context.Context, partID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	p, err := s.loadPart(ctx, partID)
	if err != nil {
		return err
	}

	event := PartRestocked{
		PartID:      partID,
		Quantity:    quantity,
		RestockedAt: time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, partID, AggregateType, EventPartRestocked, event)
	if err != nil {
		return err
	}

	p.Stock += quantity
	if stored != nil {
		p.Version = stored.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType); err != nil {
		log.Printf("[Part] Failed to create snapshot for part %s: %v", partID, err)
	}

	return nil
}

// ReplaceAll atomically replaces the inventory collection. One PartReplaced
// event is emitted per incoming part, then an InventoryReplaced event on the
// inventory aggregate lists the survivors so projections can drop anything
// absent from the new list.
func (s *Service) ReplaceAll(ctx context.Context, parts []PartInput) error {
	now := time.Now()
	ids := make([]string, 0, len(parts))

	for i := range parts {
		if parts[i].ID == "" {
			parts[i].ID = uuid.New().String()
		}
		if err := validateInput(parts[i]); err != nil {
			return err
		}
		ids = append(ids, parts[i].ID)
	}

	for _, in := range parts {
		event := PartReplaced{
			PartID:     in.ID,
			Name:       in.Name,
			Price:      in.Price,
			Stock:      in.Stock,
			Min:        in.Min,
			Unit:       in.Unit,
			ReplacedAt: now,
		}
		if _, err := s.eventStore.Append(ctx, in.ID, AggregateType, EventPartReplaced, event); err != nil {
			return err
		}
	}

	event := InventoryReplaced{
		PartIDs:    ids,
		ReplacedAt: now,
	}
	_, err := s.eventStore.Append(ctx, InventoryAggregateID, AggregateType, EventInventoryReplaced, event)
	return err
}
