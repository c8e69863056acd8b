package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/MTG-Drawer/internal/metrics"
)

type fakeCounter struct {
	count int
	err   error
}

func (f fakeCounter) CountCardMetadata(context.Context) (int, error) {
	return f.count, f.err
}

func TestGetVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	NewSystemHandler(SystemSources{}).GetVersion(rec, httptest.NewRequest(http.MethodGet, "/api/v1/system/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "mtg-drawer", data["service"])
}

func TestGetMetrics(t *testing.T) {
	lookup := metrics.NewLookupMetrics()
	lookup.RecordHit()
	lookup.RecordMiss()
	draw := metrics.NewDrawMetrics()
	draw.RecordDraw(4, time.Millisecond)

	rec := httptest.NewRecorder()
	NewSystemHandler(SystemSources{LookupMetrics: lookup, DrawMetrics: draw}).
		GetMetrics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/system/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 1, data["lookup"].(map[string]any)["cache_hits"])
	assert.EqualValues(t, 4, data["draw"].(map[string]any)["hands_drawn"])
}

func TestGetCacheStatus(t *testing.T) {
	h := NewSystemHandler(SystemSources{
		CacheLen: func() int { return 3 },
		Store:    fakeCounter{count: 12},
	})

	rec := httptest.NewRecorder()
	h.GetCacheStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/system/cache", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 3, data["session_entries"])
	assert.EqualValues(t, 12, data["stored_entries"])
	assert.Equal(t, true, data["persistent"])

	failing := NewSystemHandler(SystemSources{Store: fakeCounter{err: errors.New("db closed")}})
	rec = httptest.NewRecorder()
	failing.GetCacheStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/system/cache", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
