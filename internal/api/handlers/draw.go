package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ramonehamilton/MTG-Drawer/internal/api/response"
	"github.com/ramonehamilton/MTG-Drawer/internal/charts"
	"github.com/ramonehamilton/MTG-Drawer/internal/gui"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
	"github.com/ramonehamilton/MTG-Drawer/internal/stats"
)

// DrawFacade is the part of *gui.DrawFacade the handlers use.
type DrawFacade interface {
	Submit(ctx context.Context, text string, drawCount int) (*gui.SubmitResult, error)
	Draw(ctx context.Context, drawCount int) (*gui.DrawResult, error)
	Stats(scope string) (stats.Snapshot, error)
	CurrentHand() (drawer.Hand, error)
	Hands(limit int) ([]drawer.Hand, error)
	Deck() (*gui.DeckView, error)
	Reset(ctx context.Context)
}

// DrawHandler handles deck submission, drawing and statistics requests.
type DrawHandler struct {
	facade DrawFacade
	chart  charts.ChartConfig
}

// NewDrawHandler creates a new DrawHandler.
func NewDrawHandler(facade DrawFacade, chart charts.ChartConfig) *DrawHandler {
	return &DrawHandler{facade: facade, chart: chart}
}

// SubmitDeckRequest represents a decklist submission.
type SubmitDeckRequest struct {
	Deck      string `json:"deck"`
	DrawCount *int   `json:"draw_count,omitempty"` // defaults to 1
}

// DrawRequest represents a request for more hands.
type DrawRequest struct {
	DrawCount *int `json:"draw_count,omitempty"` // defaults to 1
}

func countOrDefault(n *int) int {
	if n == nil {
		return 1
	}
	return *n
}

// SubmitDeck parses and resolves a decklist and draws the first hands.
func (h *DrawHandler) SubmitDeck(w http.ResponseWriter, r *http.Request) {
	var req SubmitDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	result, err := h.facade.Submit(r.Context(), req.Deck, countOrDefault(req.DrawCount))
	if err != nil {
		writeFacadeError(w, err)
		return
	}

	response.Created(w, result)
}

// GetDeck returns the current deck.
func (h *DrawHandler) GetDeck(w http.ResponseWriter, _ *http.Request) {
	deck, err := h.facade.Deck()
	if err != nil {
		writeFacadeError(w, err)
		return
	}

	response.Success(w, deck)
}

// ClearDeck discards the current session.
func (h *DrawHandler) ClearDeck(w http.ResponseWriter, r *http.Request) {
	h.facade.Reset(r.Context())
	response.NoContent(w)
}

// DrawHands draws more hands from the current deck.
func (h *DrawHandler) DrawHands(w http.ResponseWriter, r *http.Request) {
	var req DrawRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, errors.New("invalid request body"))
			return
		}
	}

	result, err := h.facade.Draw(r.Context(), countOrDefault(req.DrawCount))
	if err != nil {
		writeFacadeError(w, err)
		return
	}

	response.Success(w, result)
}

// GetCurrentHand returns the most recent hand.
func (h *DrawHandler) GetCurrentHand(w http.ResponseWriter, _ *http.Request) {
	hand, err := h.facade.CurrentHand()
	if err != nil {
		writeFacadeError(w, err)
		return
	}

	response.Success(w, hand)
}

// GetHands returns drawn hands. With page/page_size it pages through the
// whole history; otherwise limit selects the most recent hands.
func (h *DrawHandler) GetHands(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Has("page") || query.Has("page_size") {
		page, err := positiveParam(query.Get("page"), 1)
		if err != nil {
			response.BadRequest(w, errors.New("page must be a positive integer"))
			return
		}
		pageSize, err := positiveParam(query.Get("page_size"), 50)
		if err != nil {
			response.BadRequest(w, errors.New("page_size must be a positive integer"))
			return
		}

		hands, err := h.facade.Hands(0)
		if err != nil {
			writeFacadeError(w, err)
			return
		}

		response.Paginated(w, pageOf(hands, page, pageSize), page, pageSize, len(hands))
		return
	}

	limit, err := positiveParam(query.Get("limit"), 0)
	if err != nil {
		response.BadRequest(w, errors.New("limit must be a positive integer"))
		return
	}

	hands, err := h.facade.Hands(limit)
	if err != nil {
		writeFacadeError(w, err)
		return
	}

	response.Success(w, hands)
}

// GetStats returns the color and type distributions.
func (h *DrawHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.facade.Stats(r.URL.Query().Get("scope"))
	if err != nil {
		writeFacadeError(w, err)
		return
	}

	response.Success(w, snap)
}

// GetStatsChart renders the distributions as an HTML chart page.
func (h *DrawHandler) GetStatsChart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.facade.Stats(r.URL.Query().Get("scope"))
	if err != nil {
		writeFacadeError(w, err)
		return
	}

	html, err := charts.StatsPageHTML(snap, h.chart)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// pageOf returns the 1-based page of hands. Pages past the end are empty.
func pageOf(hands []drawer.Hand, page, pageSize int) []drawer.Hand {
	pages := 0
	if len(hands) > 0 {
		pages = (len(hands)-1)/pageSize + 1
	}
	if page > pages {
		return []drawer.Hand{}
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(hands)-start)
	return hands[start:end]
}

func positiveParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}

// writeFacadeError maps facade errors onto HTTP status codes.
func writeFacadeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gui.ErrEmptyDecklist),
		errors.Is(err, drawer.ErrInvalidDrawCount),
		errors.Is(err, gui.ErrInvalidInput):
		response.BadRequest(w, err)
	case errors.Is(err, gui.ErrNoDeck):
		response.NotFound(w, err)
	case errors.Is(err, gui.ErrSuperseded):
		response.Conflict(w, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(w, err)
	default:
		response.InternalError(w, err)
	}
}
