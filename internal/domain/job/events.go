package job

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventJobReported        = "JobReported"
	EventJobStatusChanged   = "JobStatusChanged"
	EventTechnicianAssigned = "TechnicianAssigned"
	EventJobPartAdded       = "JobPartAdded"
	EventJobPartRemoved     = "JobPartRemoved"
	EventJobProgressSaved   = "JobProgressSaved"
)

// UsedPart is a snapshot of a consumed part: name and price are captured at
// time of use so later inventory edits never rewrite job history.
type UsedPart struct {
	PartID string          `json:"part_id"`
	Name   string          `json:"name"`
	Unit   string          `json:"unit"`
	Price  decimal.Decimal `json:"price"`
	Qty    int             `json:"qty"`
}

// JobReported is emitted when a repair request is submitted
type JobReported struct {
	JobID      string    `json:"job_id"`
	AssetID    string    `json:"asset_id"`
	AssetName  string    `json:"asset_name"`
	Location   string    `json:"location"`
	Issue      string    `json:"issue"`
	Urgency    Urgency   `json:"urgency"`
	Reporter   string    `json:"reporter"`
	Type       Type      `json:"type"`
	ReportedAt time.Time `json:"reported_at"`
}

// JobStatusChanged is emitted on every workflow transition
type JobStatusChanged struct {
	JobID     string    `json:"job_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// TechnicianAssigned is emitted once, the first time a job leaves `new`
type TechnicianAssigned struct {
	JobID      string    `json:"job_id"`
	Technician string    `json:"technician"`
	AssignedAt time.Time `json:"assigned_at"`
}

// JobPartAdded is emitted when one unit of a part is consumed by the job
type JobPartAdded struct {
	JobID   string    `json:"job_id"`
	Part    UsedPart  `json:"part"`
	AddedAt time.Time `json:"added_at"`
}

// JobPartRemoved is emitted when a part entry is dropped from the job.
// Removal does not restock inventory; consumption is one-directional.
type JobPartRemoved struct {
	JobID     string    `json:"job_id"`
	PartID    string    `json:"part_id"`
	RemovedAt time.Time `json:"removed_at"`
}

// JobProgressSaved is emitted when the repair note is saved
type JobProgressSaved struct {
	JobID      string    `json:"job_id"`
	RepairNote string    `json:"repair_note"`
	SavedAt    time.Time `json:"saved_at"`
}
