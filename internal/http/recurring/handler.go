package recurring

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/recurring"
	"github.com/pmcouto/centavo/internal/transaction"
)

type Handler struct {
	svc *recurring.Service
}

func NewHandler(svc *recurring.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/process", h.process)
	r.Get("/calendar.ics", h.calendar)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/preview", h.preview)
	r.Post("/{id}/activate", h.setActive(true))
	r.Post("/{id}/deactivate", h.setActive(false))
}

type createRuleRequest struct {
	OwnerID      uuid.UUID           `json:"owner_id"`
	Description  string              `json:"description"`
	Amount       int64               `json:"amount"`
	Type         transaction.Type    `json:"type"`
	Currency     string              `json:"currency"`
	CategoryID   *uuid.UUID          `json:"category_id,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Frequency    recurring.Frequency `json:"frequency"`
	DayOfWeek    int                 `json:"day_of_week,omitempty"`
	DayOfMonth   int                 `json:"day_of_month,omitempty"`
	IntervalDays int                 `json:"interval_days,omitempty"`
	StartDate    dateOnly            `json:"start_date"`
	EndDate      *dateOnly           `json:"end_date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Create(r.Context(), recurring.CreateParams{
		OwnerID:      req.OwnerID,
		Description:  req.Description,
		Amount:       req.Amount,
		Type:         req.Type,
		Currency:     req.Currency,
		CategoryID:   req.CategoryID,
		Notes:        req.Notes,
		Frequency:    req.Frequency,
		DayOfWeek:    req.DayOfWeek,
		DayOfMonth:   req.DayOfMonth,
		IntervalDays: req.IntervalDays,
		StartDate:    req.StartDate.Time,
		EndDate:      req.EndDate.timePtr(),
	})
	if err != nil {
		status := http.StatusInternalServerError

		var verr *recurring.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}

		http.Error(w, err.Error(), status)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := recurring.ListFilter{}

	if s := r.URL.Query().Get("owner_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid owner_id", http.StatusBadRequest)
			return
		}

		filter.OwnerID = &id
	}

	filter.ActiveOnly = r.URL.Query().Get("active") == "true"

	rules, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(rules)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateRuleRequest struct {
	Description  *string              `json:"description,omitempty"`
	Amount       *int64               `json:"amount,omitempty"`
	Type         *transaction.Type    `json:"type,omitempty"`
	Currency     *string              `json:"currency,omitempty"`
	CategoryID   *uuid.UUID           `json:"category_id,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
	Frequency    *recurring.Frequency `json:"frequency,omitempty"`
	DayOfWeek    *int                 `json:"day_of_week,omitempty"`
	DayOfMonth   *int                 `json:"day_of_month,omitempty"`
	IntervalDays *int                 `json:"interval_days,omitempty"`
	StartDate    *dateOnly            `json:"start_date,omitempty"`
	EndDate      *dateOnly            `json:"end_date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	applyRuleUpdate(rule, &req)

	if err := h.svc.Update(r.Context(), rule); err != nil {
		status := http.StatusInternalServerError

		var verr *recurring.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}

		http.Error(w, err.Error(), status)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func applyRuleUpdate(rule *recurring.Rule, req *updateRuleRequest) {
	if req.Description != nil {
		rule.Description = *req.Description
	}

	if req.Amount != nil {
		rule.Amount = *req.Amount
	}

	if req.Type != nil {
		rule.Type = *req.Type
	}

	if req.Currency != nil {
		rule.Currency = *req.Currency
	}

	if req.CategoryID != nil {
		rule.CategoryID = req.CategoryID
	}

	if req.Notes != nil {
		rule.Notes = *req.Notes
	}

	if req.Frequency != nil {
		rule.Frequency = *req.Frequency
	}

	if req.DayOfWeek != nil {
		rule.DayOfWeek = *req.DayOfWeek
	}

	if req.DayOfMonth != nil {
		rule.DayOfMonth = *req.DayOfMonth
	}

	if req.IntervalDays != nil {
		rule.IntervalDays = *req.IntervalDays
	}

	if req.StartDate != nil {
		rule.StartDate = req.StartDate.Time
	}

	if req.EndDate != nil {
		rule.EndDate = req.EndDate.timePtr()
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := h.svc.SetActive(r.Context(), id, active); err != nil {
			if errors.Is(err, recurring.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}

			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// process is the trigger surface: it materializes every due occurrence
// of every active rule as of today. Safe to re-invoke; a failed batch
// returns non-2xx so an operator or retry mechanism can run it again.
func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()

	if s := r.URL.Query().Get("as_of"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid as_of", http.StatusBadRequest)
			return
		}

		asOf = t
	}

	created, err := h.svc.ProcessAll(r.Context(), asOf)
	if err != nil {
		slog.Error("recurring batch failed", "created", created, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	slog.Info("recurring batch complete", "created", created)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]int{"created": created}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// preview returns the dates a rule's pattern produces over the coming
// days without materializing anything.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	days := 90

	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 366 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}

		days = n
	}

	rule, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	now := time.Now()
	dates := rule.Preview(now, now.AddDate(0, 0, days))

	resp := make([]string, len(dates))
	for i, d := range dates {
		resp[i] = d.Format(time.DateOnly)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]any{"dates": resp}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// calendar serves the active rules as an iCalendar feed.
func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context(), recurring.ListFilter{ActiveOnly: true})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")

	if err := recurring.WriteCalendar(w, rules); err != nil {
		slog.Error("failed to encode calendar", "error", err)
	}
}
