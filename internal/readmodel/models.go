package readmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsedPartReadModel is a snapshot of a part consumed by a job. Price is the
// unit price at time of use; later price edits never change it.
type UsedPartReadModel struct {
	PartID string          `json:"part_id"`
	Name   string          `json:"name"`
	Unit   string          `json:"unit"`
	Price  decimal.Decimal `json:"price"`
	Qty    int             `json:"qty"`
}

// JobReadModel is the read model for maintenance jobs
type JobReadModel struct {
	ID         string              `json:"id"`
	AssetID    string              `json:"asset_id"`
	AssetName  string              `json:"asset_name"`
	Location   string              `json:"location"`
	Issue      string              `json:"issue"`
	Urgency    string              `json:"urgency"`
	Status     string              `json:"status"`
	Reporter   string              `json:"reporter"`
	Type       string              `json:"type"`
	Technician string              `json:"technician,omitempty"`
	PartsUsed  []UsedPartReadModel `json:"parts_used"`
	RepairNote string              `json:"repair_note"`
	ReportedAt time.Time           `json:"reported_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Seq        int64               `json:"-"` // arrival order, newest-first listing
}

// TotalCost is derived on every read, never stored
func (j *JobReadModel) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, p := range j.PartsUsed {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Qty))))
	}
	return total
}

// PartReadModel is the read model for stock parts
type PartReadModel struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Min       int             `json:"min"`
	Unit      string          `json:"unit"`
	Seq       int64           `json:"-"` // registration order, keeps alert sorting stable
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockAlertReadModel is derived from a PartReadModel, never stored
type StockAlertReadModel struct {
	PartID   string `json:"part_id"`
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	Min      int    `json:"min"`
	Status   string `json:"status"`
	Severity string `json:"severity"`
}

// UserReadModel is the read model for users
type UserReadModel struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionReadModel is the read model for user sessions
type SessionReadModel struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
}
