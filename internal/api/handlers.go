package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/medtrack/internal/api/middleware"
	"github.com/example/medtrack/internal/command"
	"github.com/example/medtrack/internal/domain/job"
	"github.com/example/medtrack/internal/domain/part"
	"github.com/example/medtrack/internal/query"
	"github.com/example/medtrack/internal/readmodel"
	"github.com/example/medtrack/internal/toast"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	toastFeed    *toast.Feed
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, toastFeed *toast.Feed) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		toastFeed:    toastFeed,
	}
}

// JobResponse is a job read model with its derived total cost
type JobResponse struct {
	*readmodel.JobReadModel
	TotalCost decimal.Decimal `json:"total_cost"`
}

func toJobResponse(j *readmodel.JobReadModel) JobResponse {
	return JobResponse{JobReadModel: j, TotalCost: j.TotalCost()}
}

func toJobResponses(jobs []*readmodel.JobReadModel) []JobResponse {
	out := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = toJobResponse(j)
	}
	return out
}

// Job Handlers

func (h *Handlers) SubmitRepairRequest(w http.ResponseWriter, r *http.Request) {
	var cmd command.SubmitRepairRequestCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The authenticated user is the reporter; the form field is only a
	// fallback for unauthenticated intake.
	if name := middleware.GetUserName(r.Context()); name != "" {
		cmd.Reporter = name
	}

	j, err := h.cmdHandler.SubmitRepairRequest(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, j)
}

func (h *Handlers) GetJobs(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	p := h.queryHandler.GetJobsPage(page)
	respondJSON(w, http.StatusOK, struct {
		Jobs       []JobResponse `json:"jobs"`
		Page       int           `json:"page"`
		TotalPages int           `json:"total_pages"`
		Total      int           `json:"total"`
	}{
		Jobs:       toJobResponses(p.Jobs),
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	})
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/jobs/")
	j := h.queryHandler.GetJob(id)
	if j == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toJobResponse(j))
}

func (h *Handlers) GetJobBoard(w http.ResponseWriter, r *http.Request) {
	board := h.queryHandler.GetJobBoard()
	respondJSON(w, http.StatusOK, struct {
		New          []JobResponse `json:"new"`
		InProgress   []JobResponse `json:"in_progress"`
		WaitingParts []JobResponse `json:"waiting_parts"`
		Completed    []JobResponse `json:"completed"`
	}{
		New:          toJobResponses(board.New),
		InProgress:   toJobResponses(board.InProgress),
		WaitingParts: toJobResponses(board.WaitingParts),
		Completed:    toJobResponses(board.Completed),
	})
}

func (h *Handlers) TransitionJob(w http.ResponseWriter, r *http.Request) {
	id := extractPathSegment(r.URL.Path, "/jobs/", "/status")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.TransitionJobCommand{
		JobID:  id,
		Status: req.Status,
		Actor:  middleware.GetUserName(r.Context()),
	}
	if err := h.cmdHandler.TransitionJob(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Job status updated"})
}

func (h *Handlers) SaveJobProgress(w http.ResponseWriter, r *http.Request) {
	id := extractPathSegment(r.URL.Path, "/jobs/", "/progress")

	var req struct {
		RepairNote string `json:"repair_note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.SaveJobProgressCommand{JobID: id, RepairNote: req.RepairNote}
	if err := h.cmdHandler.SaveJobProgress(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Progress saved"})
}

func (h *Handlers) AddPartToJob(w http.ResponseWriter, r *http.Request) {
	id := extractPathSegment(r.URL.Path, "/jobs/", "/parts")

	var req struct {
		PartID string `json:"part_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddPartToJobCommand{JobID: id, PartID: req.PartID}
	if err := h.cmdHandler.AddPartToJob(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Part added"})
}

func (h *Handlers) RemovePartFromJob(w http.ResponseWriter, r *http.Request) {
	rest := extractPathParam(r.URL.Path, "/jobs/")
	idx := strings.Index(rest, "/parts/")
	if idx < 0 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	jobID := rest[:idx]
	partID := rest[idx+len("/parts/"):]

	cmd := command.RemovePartFromJobCommand{JobID: jobID, PartID: partID}
	if err := h.cmdHandler.RemovePartFromJob(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Part removed"})
}

// Part Handlers

func (h *Handlers) GetParts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListParts())
}

func (h *Handlers) GetPart(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/parts/")
	p := h.queryHandler.GetPart(id)
	if p == nil {
		http.Error(w, "Part not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) RegisterPart(w http.ResponseWriter, r *http.Request) {
	var in part.PartInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.cmdHandler.RegisterPart(r.Context(), command.RegisterPartCommand{Part: in})
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *Handlers) ReplaceInventory(w http.ResponseWriter, r *http.Request) {
	var parts []part.PartInput
	if err := json.NewDecoder(r.Body).Decode(&parts); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.cmdHandler.ReplaceInventory(r.Context(), command.ReplaceInventoryCommand{Parts: parts}); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Inventory replaced"})
}

func (h *Handlers) UsePart(w http.ResponseWriter, r *http.Request) {
	id := extractPathSegment(r.URL.Path, "/parts/", "/use")

	cmd := command.UsePartCommand{PartID: id}
	if err := h.cmdHandler.UsePart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Part used"})
}

func (h *Handlers) RestockPart(w http.ResponseWriter, r *http.Request) {
	id := extractPathSegment(r.URL.Path, "/parts/", "/restock")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.RestockPartCommand{PartID: id, Quantity: req.Quantity}
	if err := h.cmdHandler.RestockPart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Part restocked"})
}

func (h *Handlers) GetStockAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.GetStockAlerts())
}

// Toast Handlers

func (h *Handlers) GetToasts(w http.ResponseWriter, r *http.Request) {
	n := toast.DefaultFeedCapacity
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	respondJSON(w, http.StatusOK, h.toastFeed.Recent(n))
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// extractPathSegment returns the id between prefix and suffix,
// e.g. /jobs/{id}/status
func extractPathSegment(path, prefix, suffix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
}

// respondCommandError maps domain errors to HTTP status codes
func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, job.ErrJobNotFound), errors.Is(err, part.ErrPartNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, job.ErrJobCompleted), errors.Is(err, job.ErrInvalidTransition), errors.Is(err, part.ErrPartUnavailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, job.ErrMissingAssetName), errors.Is(err, job.ErrMissingIssue),
		errors.Is(err, job.ErrInvalidUrgency), errors.Is(err, job.ErrInvalidStatus),
		errors.Is(err, part.ErrInvalidName), errors.Is(err, part.ErrNegativePrice),
		errors.Is(err, part.ErrNegativeStock), errors.Is(err, part.ErrNegativeMin),
		errors.Is(err, part.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
