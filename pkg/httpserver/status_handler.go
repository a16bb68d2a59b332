package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/predico/oracle-pipeline/internal/pipeline"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// StatsProvider exposes pipeline counters for the status endpoint.
type StatsProvider interface {
	Snapshot() pipeline.Stats
}

// MarketReader reads market records for the lookup endpoint.
type MarketReader interface {
	Market(ctx context.Context, id uint64) (*types.MarketRecord, error)
}

// StatusHandler handles HTTP requests for pipeline status.
type StatusHandler struct {
	stats   StatsProvider
	markets MarketReader
	logger  *zap.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(stats StatsProvider, markets MarketReader, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		stats:   stats,
		markets: markets,
		logger:  logger,
	}
}

// ResolutionsResponse represents the HTTP response for pipeline counters.
type ResolutionsResponse struct {
	Processed uint64 `json:"processed"`
	Submitted uint64 `json:"submitted"`
	Abstained uint64 `json:"abstained"`
	Failed    uint64 `json:"failed"`
	Deduped   uint64 `json:"deduped"`
}

// MarketResponse represents the HTTP response for a market lookup.
type MarketResponse struct {
	ID       uint64    `json:"id"`
	Question string    `json:"question"`
	EndTime  time.Time `json:"end_time"`
	Status   string    `json:"status"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleResolutions handles GET /api/resolutions requests.
func (h *StatusHandler) HandleResolutions(w http.ResponseWriter, r *http.Request) {
	stats := h.stats.Snapshot()

	response := ResolutionsResponse{
		Processed: stats.Processed,
		Submitted: stats.Submitted,
		Abstained: stats.Abstained,
		Failed:    stats.Failed,
		Deduped:   stats.Deduped,
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleMarket handles GET /api/market?id=<market-id> requests.
func (h *StatusHandler) HandleMarket(w http.ResponseWriter, r *http.Request) {
	if h.markets == nil {
		h.writeError(w, "market lookup not available", http.StatusNotFound)
		return
	}

	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		h.writeError(w, "missing required query parameter: id", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		h.writeError(w, "invalid market id", http.StatusBadRequest)
		return
	}

	h.logger.Debug("market-lookup-request", zap.Uint64("market-id", id))

	market, err := h.markets.Market(r.Context(), id)
	if err != nil {
		h.logger.Error("market-lookup-failed", zap.Uint64("market-id", id), zap.Error(err))
		h.writeError(w, "market lookup failed", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, MarketResponse{
		ID:       market.ID,
		Question: market.Question,
		EndTime:  market.EndTime,
		Status:   market.Status.String(),
	})
}

func (h *StatusHandler) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *StatusHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, ErrorResponse{Error: message})
}
