/*
handlers.go - HTTP API handlers for the premium rating service

PURPOSE:
  Exposes the rating engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic. This layer owns ID
  assignment and persistence of quotes; the engine stays pure.

ENDPOINTS:
  Quotes:
    POST   /api/quotes           Compute, persist, and return a quote
    GET    /api/quotes           List stored quote summaries
    GET    /api/quotes/{id}      Fetch a stored quote with its trace

  Admin:
    POST   /api/admin/reload     Validate, snapshot, and swap in a new
                                 rating configuration

  Health:
    GET    /api/healthz          Liveness check

REQUEST FLOW:
  1. Parse HTTP request (non-finite numbers and bad dates rejected here)
  2. Call domain logic (quoter, factory, store)
  3. Serialize response
  4. Map errors to status codes

ERROR HANDLING:
  - 400: Malformed body, invalid input, invalid term
  - 404: Quote not found
  - 409: Duplicate quote ID (should not happen with generated IDs)
  - 422: Rating configuration problems (ambiguity, missing rate, conflicts)
  - 500: Storage or internal failures
  A failed calculation persists nothing and returns no partial result.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/rating-engine/auto"
	"github.com/warp/rating-engine/factory"
	"github.com/warp/rating-engine/logging"
	"github.com/warp/rating-engine/rating"
	"github.com/warp/rating-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Provider *rating.Provider
	Quoter   *auto.Quoter
}

// NewHandler creates a handler over the given store and provider.
// Quotes always read the provider's current engine through the quoter.
func NewHandler(store *sqlite.Store, provider *rating.Provider) *Handler {
	return &Handler{
		Store:    store,
		Provider: provider,
		Quoter:   auto.NewQuoter(provider),
	}
}

// =============================================================================
// QUOTE HANDLERS
// =============================================================================

// CreateQuote computes a premium, persists the quote, and returns it.
// POST /api/quotes
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Coverages) == 0 {
		writeError(w, http.StatusBadRequest, "At least one coverage is required", nil)
		return
	}

	coverages, vehicle, drivers, policy, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quote request", err)
		return
	}

	result, err := h.Quoter.CalculateTotalPremium(coverages, vehicle, drivers, policy)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	id := uuid.NewString()
	dto := ToQuoteDTO(id, result)

	requestJSON, err := json.Marshal(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize request", err)
		return
	}
	resultJSON, err := json.Marshal(dto)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize quote", err)
		return
	}

	if err := h.Store.SaveQuote(r.Context(), sqlite.QuoteRecord{
		ID:          id,
		RequestJSON: requestJSON,
		ResultJSON:  resultJSON,
		Total:       result.Total,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist quote", err)
		return
	}

	logging.Info("quote computed",
		zap.String("quote_id", id),
		zap.Int64("total", result.Total),
		zap.Int("coverages", len(result.Coverages)))

	writeJSON(w, http.StatusCreated, dto)
}

// GetQuote returns a stored quote with its full trace.
// GET /api/quotes/{id}
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetQuote(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrQuoteNotFound) {
			writeError(w, http.StatusNotFound, "Quote not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load quote", err)
		return
	}

	// The stored document is the audit record; return it verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.ResultJSON)
}

// ListQuotes returns summaries of stored quotes, newest first.
// GET /api/quotes?limit=N
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
	}

	records, err := h.Store.ListQuotes(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list quotes", err)
		return
	}

	summaries := make([]QuoteSummaryDTO, len(records))
	for i, rec := range records {
		summaries[i] = QuoteSummaryDTO{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Total:     rec.Total,
		}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ReloadConfig validates a new rating configuration, stores it as a
// snapshot, and atomically swaps it into the serving provider.
// In-flight quotes finish on the engine they started with.
// POST /api/admin/reload
func (h *Handler) ReloadConfig(w http.ResponseWriter, r *http.Request) {
	var req ReloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.RatesJSON == "" || req.FactorsCSV == "" {
		writeError(w, http.StatusBadRequest, "Both rates_json and factors_csv are required", nil)
		return
	}

	engine, err := factory.BuildEngine([]byte(req.RatesJSON), []byte(req.FactorsCSV))
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	// Static conflict detection runs at reload, not at quote time, so a
	// bad filing is rejected before it can ever produce an ambiguity.
	var conflicts []string
	conflicts = append(conflicts, engine.Rates.Conflicts()...)
	conflicts = append(conflicts, engine.Factors.Conflicts()...)
	if len(conflicts) > 0 {
		writeError(w, http.StatusUnprocessableEntity, "Configuration has overlapping entries",
			fmt.Errorf("%d conflicts, first: %s", len(conflicts), conflicts[0]))
		return
	}

	version, err := h.Store.SaveConfig(r.Context(), []byte(req.RatesJSON), []byte(req.FactorsCSV))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store configuration", err)
		return
	}

	h.Provider.Swap(engine)

	logging.Info("rating configuration reloaded",
		zap.Int("version", version),
		zap.Int("rate_entries", engine.Rates.Len()),
		zap.Int("factors", engine.Factors.Len()))

	writeJSON(w, http.StatusOK, ReloadResponse{
		Version:     version,
		RateEntries: engine.Rates.Len(),
		Factors:     engine.Factors.Len(),
	})
}

// Healthz reports liveness.
// GET /api/healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeCalculationError maps engine errors onto HTTP statuses. Client
// mistakes are 400s; configuration problems are 422s because the
// request was fine and the filing is what needs fixing.
func writeCalculationError(w http.ResponseWriter, err error) {
	switch {
	case rating.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid quote input", err)
	case rating.IsConfigError(err):
		writeError(w, http.StatusUnprocessableEntity, "Rating configuration error", err)
	default:
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
	}
}
