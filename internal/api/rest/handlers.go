// Package rest serves the read-only health surface. It reports liveness,
// which credentials are configured (presence only, never values), and the
// effective sync settings.
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/syncops/notion-github-sync/internal/config"
)

// FailureCounter reports how many poll cycles have failed.
type FailureCounter interface {
	CycleFailures() uint64
}

// Handler handles REST API requests.
type Handler struct {
	cfg      *config.Config
	failures FailureCounter
	logger   *zap.Logger
}

// NewHandler creates a new REST handler.
func NewHandler(cfg *config.Config, failures FailureCounter, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		failures: failures,
		logger:   logger,
	}
}

// HealthResponse reports process liveness and configuration presence.
type HealthResponse struct {
	Status              string `json:"status"`
	Timestamp           string `json:"timestamp"`
	NotionTokenSet      bool   `json:"notion_token_set"`
	NotionDatabaseSet   bool   `json:"notion_db_set"`
	GithubTokenSet      bool   `json:"github_token_set"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	DryRun              bool   `json:"dry_run"`
	CycleFailures       uint64 `json:"cycle_failures"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:              "ok",
		Timestamp:           time.Now().Format(time.RFC3339),
		NotionTokenSet:      h.cfg.NotionToken != "",
		NotionDatabaseSet:   h.cfg.NotionDatabaseID != "",
		GithubTokenSet:      h.cfg.GithubToken != "",
		PollIntervalSeconds: int(h.cfg.PollInterval / time.Second),
		DryRun:              h.cfg.DryRun,
		CycleFailures:       h.failures.CycleFailures(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", zap.Error(err))
	}
}

// RegisterRoutes registers REST API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
}
