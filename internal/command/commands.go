package command

import (
	"github.com/example/medtrack/internal/domain/part"
)

// SubmitRepairRequestCommand opens a corrective-maintenance job from the
// intake form
type SubmitRepairRequestCommand struct {
	AssetID   string `json:"asset_id"`
	AssetName string `json:"asset_name"`
	Location  string `json:"location"`
	Issue     string `json:"issue"`
	Urgency   string `json:"urgency"`
	Reporter  string `json:"reporter"`
}

// TransitionJobCommand moves a job to a new workflow status
type TransitionJobCommand struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// SaveJobProgressCommand saves the repair note of an open job
type SaveJobProgressCommand struct {
	JobID      string `json:"job_id"`
	RepairNote string `json:"repair_note"`
}

// AddPartToJobCommand consumes one unit of a part for a job
type AddPartToJobCommand struct {
	JobID  string `json:"job_id"`
	PartID string `json:"part_id"`
}

// RemovePartFromJobCommand drops a part entry from a job
type RemovePartFromJobCommand struct {
	JobID  string `json:"job_id"`
	PartID string `json:"part_id"`
}

// UsePartCommand consumes one unit of a part outside any job
type UsePartCommand struct {
	PartID string `json:"part_id"`
}

// RegisterPartCommand adds a part to the inventory
type RegisterPartCommand struct {
	Part part.PartInput `json:"part"`
}

// RestockPartCommand adds stock to an existing part
type RestockPartCommand struct {
	PartID   string `json:"part_id"`
	Quantity int    `json:"quantity"`
}

// ReplaceInventoryCommand swaps the whole parts catalog for a new one
type ReplaceInventoryCommand struct {
	Parts []part.PartInput `json:"parts"`
}
