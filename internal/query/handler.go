package query

import (
	"sort"

	"github.com/example/medtrack/internal/domain/part"
	"github.com/example/medtrack/internal/infrastructure/store"
	"github.com/example/medtrack/internal/readmodel"
)

// JobsPageSize is the number of jobs per page in the dashboard list
const JobsPageSize = 5

// Handler serves all read-side queries from the read store
type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// GetJob returns a single job, or nil when the id is unknown
func (h *Handler) GetJob(jobID string) *readmodel.JobReadModel {
	item, ok := h.readStore.Get("jobs", jobID)
	if !ok {
		return nil
	}
	return item.(*readmodel.JobReadModel)
}

// ListJobs returns all jobs, most recent first
func (h *Handler) ListJobs() []*readmodel.JobReadModel {
	items := h.readStore.GetAll("jobs")
	jobs := make([]*readmodel.JobReadModel, 0, len(items))
	for _, item := range items {
		jobs = append(jobs, item.(*readmodel.JobReadModel))
	}
	sort.Slice(jobs, func(i, j int) bool {
		// Seq ties are possible when replay stamps events with the same
		// timestamp, so break them by ID to keep the order deterministic.
		if jobs[i].Seq != jobs[j].Seq {
			return jobs[i].Seq > jobs[j].Seq
		}
		return jobs[i].ID > jobs[j].ID
	})
	return jobs
}

// JobsPage is one page of the job list
type JobsPage struct {
	Jobs       []*readmodel.JobReadModel `json:"jobs"`
	Page       int                       `json:"page"`
	TotalPages int                       `json:"total_pages"`
	Total      int                       `json:"total"`
}

// GetJobsPage returns the requested page of jobs. An out-of-range page is
// clamped rather than rejected, so stale pagination links still resolve.
func (h *Handler) GetJobsPage(page int) JobsPage {
	jobs := h.ListJobs()
	total := len(jobs)

	totalPages := (total + JobsPageSize - 1) / JobsPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * JobsPageSize
	end := start + JobsPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return JobsPage{
		Jobs:       jobs[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

// JobBoard groups jobs into the four workflow columns
type JobBoard struct {
	New          []*readmodel.JobReadModel `json:"new"`
	InProgress   []*readmodel.JobReadModel `json:"in_progress"`
	WaitingParts []*readmodel.JobReadModel `json:"waiting_parts"`
	Completed    []*readmodel.JobReadModel `json:"completed"`
}

// GetJobBoard returns every job bucketed by status. All four buckets are
// always present, empty ones included, and each keeps most-recent-first order.
func (h *Handler) GetJobBoard() JobBoard {
	board := JobBoard{
		New:          []*readmodel.JobReadModel{},
		InProgress:   []*readmodel.JobReadModel{},
		WaitingParts: []*readmodel.JobReadModel{},
		Completed:    []*readmodel.JobReadModel{},
	}
	for _, j := range h.ListJobs() {
		switch j.Status {
		case "new":
			board.New = append(board.New, j)
		case "in_progress":
			board.InProgress = append(board.InProgress, j)
		case "waiting_parts":
			board.WaitingParts = append(board.WaitingParts, j)
		case "completed":
			board.Completed = append(board.Completed, j)
		}
	}
	return board
}

// GetPart returns a single part, or nil when the id is unknown
func (h *Handler) GetPart(partID string) *readmodel.PartReadModel {
	item, ok := h.readStore.Get("parts", partID)
	if !ok {
		return nil
	}
	return item.(*readmodel.PartReadModel)
}

// ListParts returns all parts in registration order
func (h *Handler) ListParts() []*readmodel.PartReadModel {
	items := h.readStore.GetAll("parts")
	parts := make([]*readmodel.PartReadModel, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.(*readmodel.PartReadModel))
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Seq != parts[j].Seq {
			return parts[i].Seq < parts[j].Seq
		}
		return parts[i].ID < parts[j].ID
	})
	return parts
}

// GetStockAlerts classifies every part and returns the alerts sorted by
// severity, critical first. The sort is stable so equally severe alerts
// keep registration order.
func (h *Handler) GetStockAlerts() []readmodel.StockAlertReadModel {
	parts := h.ListParts()
	alerts := make([]readmodel.StockAlertReadModel, 0, len(parts))
	for _, p := range parts {
		a := part.Classify(p.Stock, p.Min)
		alerts = append(alerts, readmodel.StockAlertReadModel{
			PartID:   p.ID,
			Name:     p.Name,
			Stock:    p.Stock,
			Min:      p.Min,
			Status:   string(a.Status),
			Severity: string(a.Severity),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return part.SeverityRank(part.Severity(alerts[i].Severity)) < part.SeverityRank(part.Severity(alerts[j].Severity))
	})
	return alerts
}
