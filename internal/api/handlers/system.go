package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/MTG-Drawer/internal/api/response"
	"github.com/ramonehamilton/MTG-Drawer/internal/metrics"
	"github.com/ramonehamilton/MTG-Drawer/internal/version"
)

// CardCounter reports how many card rows are persisted.
type CardCounter interface {
	CountCardMetadata(ctx context.Context) (int, error)
}

// SystemSources are the optional collaborators of SystemHandler.
type SystemSources struct {
	LookupMetrics *metrics.LookupMetrics
	DrawMetrics   *metrics.DrawMetrics
	CacheLen      func() int
	Store         CardCounter
}

// SystemHandler handles version, metrics and cache status requests.
type SystemHandler struct {
	sources SystemSources
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(sources SystemSources) *SystemHandler {
	return &SystemHandler{sources: sources}
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": version.Name,
	})
}

// MetricsResponse combines lookup and draw statistics.
type MetricsResponse struct {
	Lookup *metrics.LookupStats `json:"lookup,omitempty"`
	Draw   *metrics.DrawStats   `json:"draw,omitempty"`
}

// GetMetrics returns lookup and draw statistics.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	var resp MetricsResponse
	if h.sources.LookupMetrics != nil {
		resp.Lookup = h.sources.LookupMetrics.GetStats()
	}
	if h.sources.DrawMetrics != nil {
		resp.Draw = h.sources.DrawMetrics.GetStats()
	}
	response.Success(w, resp)
}

// CacheStatus describes the in-memory and persistent card caches.
type CacheStatus struct {
	SessionEntries int  `json:"session_entries"`
	Persistent     bool `json:"persistent"`
	StoredEntries  int  `json:"stored_entries"`
}

// GetCacheStatus returns the number of cached card entries.
func (h *SystemHandler) GetCacheStatus(w http.ResponseWriter, r *http.Request) {
	var status CacheStatus
	if h.sources.CacheLen != nil {
		status.SessionEntries = h.sources.CacheLen()
	}
	if h.sources.Store != nil {
		count, err := h.sources.Store.CountCardMetadata(r.Context())
		if err != nil {
			response.InternalError(w, err)
			return
		}
		status.Persistent = true
		status.StoredEntries = count
	}
	response.Success(w, status)
}
