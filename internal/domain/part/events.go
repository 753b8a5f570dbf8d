package part

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPartRegistered    = "PartRegistered"
	EventPartUsed          = "PartUsed"
	EventPartRestocked     = "PartRestocked"
	EventPartReplaced      = "PartReplaced"
	EventInventoryReplaced = "InventoryReplaced"
)

// PartRegistered is emitted when a part enters the inventory
type PartRegistered struct {
	PartID       string          `json:"part_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Min          int             `json:"min"`
	Unit         string          `json:"unit"`
	RegisteredAt time.Time       `json:"registered_at"`
}

// PartUsed is emitted when one unit is consumed by a repair
type PartUsed struct {
	PartID   string    `json:"part_id"`
	JobID    string    `json:"job_id,omitempty"`
	Quantity int       `json:"quantity"`
	UsedAt   time.Time `json:"used_at"`
}

// PartRestocked is emitted when stock is added outside the repair flow
type PartRestocked struct {
	PartID      string    `json:"part_id"`
	Quantity    int       `json:"quantity"`
	RestockedAt time.Time `json:"restocked_at"`
}

// PartReplaced is emitted per part during a bulk inventory replacement;
// it carries the full part state.
type PartReplaced struct {
	PartID     string          `json:"part_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Min        int             `json:"min"`
	Unit       string          `json:"unit"`
	ReplacedAt time.Time       `json:"replaced_at"`
}

// InventoryReplaced is emitted once per bulk replacement on the inventory
// aggregate and lists the ids that survive, so projections can drop the rest.
type InventoryReplaced struct {
	PartIDs    []string  `json:"part_ids"`
	ReplacedAt time.Time `json:"replaced_at"`
}
