package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/usecase"
)


type LeadHandler struct {
	IngestUC    *usecase.IngestLeadsUseCase
	leadRepo    entity.LeadRepositoryInterface
	taskRepo    entity.TaskRepositoryInterface
	rateLimiter *RateLimiter
}


func NewLeadHandler(
	uc *usecase.IngestLeadsUseCase,
	leadRepo entity.LeadRepositoryInterface,
	taskRepo entity.TaskRepositoryInterface,
) *LeadHandler {
	return &LeadHandler{
		IngestUC:    uc,
		leadRepo:    leadRepo,
		taskRepo:    taskRepo,
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 batches/min per IP
	}
}


type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}


// HandleBatch ingests one batch of leads. The response always carries
// a per-record result list in input order; a batch where every record
// failed validation comes back as 422.
func (h *LeadHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.IngestLeadsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	output, err := h.IngestUC.Execute(ctx, input)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	for _, res := range output.Results {
		if res.Success {
			middleware.RecordLeadClassified(res.Rating)
		}
	}
	middleware.RecordValidationFailures(output.Rejected)
	middleware.RecordFollowUpTasks(output.TasksCreated)

	status := http.StatusOK
	if output.Accepted == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, output)
}


type LeadDetailResponse struct {
	Lead      *entity.Lead `json:"lead"`
	OpenTasks int          `json:"open_tasks"`
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leadID := chi.URLParam(r, "leadId")

	lead, err := h.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Success: false, Message: "Lead not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Success: false, Message: "Failed to load lead"})
		return
	}

	openTasks, err := h.taskRepo.CountOpenByLeadID(ctx, leadID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Success: false, Message: "Failed to load tasks"})
		return
	}

	writeJSON(w, http.StatusOK, LeadDetailResponse{Lead: lead, OpenTasks: openTasks})
}


func getClientIP(r *http.Request) string {

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}


type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}


func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}


func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}


func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
