package gui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/ramonehamilton/MTG-Drawer/internal/events"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/deckimport"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
	"github.com/ramonehamilton/MTG-Drawer/internal/stats"
)

// DrawOptions configures a DrawFacade.
type DrawOptions struct {
	// HandSize defaults to 7.
	HandSize int

	// MaxDrawCount defaults to 10000.
	MaxDrawCount int

	// Mode defaults to independent draws.
	Mode drawer.DrawMode

	// Scope is the default stats scope. Defaults to all hands.
	Scope stats.Scope

	// Seed seeds the shared random source. Zero picks a random seed.
	Seed uint64

	// IDs generates deck entry ids. Defaults to UUIDs.
	IDs drawer.IDGenerator
}

// DrawFacade runs the decklist pipeline and owns the current draw session.
// It is safe for concurrent use. A newer submission cancels an in-flight one
// and the older one's results are discarded.
type DrawFacade struct {
	services *Services
	options  DrawOptions

	mu         sync.Mutex
	rng        *rand.Rand
	generation uint64
	cancel     context.CancelFunc
	parsed     *deckimport.ParseResult
	session    *drawer.Session
	sampler    *drawer.Sampler
}

// NewDrawFacade creates a new DrawFacade with the given services.
func NewDrawFacade(services *Services, options DrawOptions) *DrawFacade {
	if options.HandSize <= 0 {
		options.HandSize = drawer.DefaultHandSize
	}
	if options.MaxDrawCount <= 0 {
		options.MaxDrawCount = drawer.MaxDrawCount
	}
	if options.Mode == "" {
		options.Mode = drawer.DrawIndependent
	}
	if options.Scope == "" {
		options.Scope = stats.ScopeAll
	}
	if options.IDs == nil {
		options.IDs = drawer.UUIDGenerator{}
	}

	seed := options.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &DrawFacade{
		services: services,
		options:  options,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// SubmitResult summarizes a processed decklist.
type SubmitResult struct {
	SessionID   string                  `json:"sessionId"`
	Lines       []deckimport.ParsedLine `json:"lines"`
	Dropped     int                     `json:"dropped"`
	Cards       int                     `json:"cards"`
	UniqueCards int                     `json:"uniqueCards"`
	Drawn       int                     `json:"drawn"`
	Current     drawer.Hand             `json:"current"`
	Stats       stats.Snapshot          `json:"stats"`
}

// DrawResult summarizes a batch of draws.
type DrawResult struct {
	SessionID  string         `json:"sessionId"`
	Drawn      int            `json:"drawn"`
	TotalHands int            `json:"totalHands"`
	Current    drawer.Hand    `json:"current"`
	Stats      stats.Snapshot `json:"stats"`
}

// DeckView describes the current deck.
type DeckView struct {
	SessionID  string                  `json:"sessionId"`
	Lines      []deckimport.ParsedLine `json:"lines"`
	Entries    drawer.Deck             `json:"entries"`
	Cards      int                     `json:"cards"`
	TotalHands int                     `json:"totalHands"`
	CreatedAt  time.Time               `json:"createdAt"`
}

func (d *DrawFacade) validateDrawCount(n int) error {
	if err := drawer.ValidateDrawCount(n, d.options.MaxDrawCount); err != nil {
		return &AppError{Message: InvalidDrawCountMessage(d.options.MaxDrawCount), Err: err}
	}
	return nil
}

// Submit parses text, resolves every distinct card, expands the deck, starts
// a new session and draws drawCount hands. Validation happens before any
// stage runs. If another Submit or Reset starts before this one finishes,
// this one returns ErrSuperseded and leaves the newer state untouched.
func (d *DrawFacade) Submit(ctx context.Context, text string, drawCount int) (*SubmitResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &AppError{Message: MsgEmptyDeck, Err: ErrEmptyDecklist}
	}
	if err := d.validateDrawCount(drawCount); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.generation++
	generation := d.generation
	d.cancel = cancel
	d.mu.Unlock()

	if d.services.DrawMetrics != nil {
		d.services.DrawMetrics.Submissions.Add(1)
	}

	parsed := deckimport.Parse(text)
	keys := deckimport.Keys(parsed.Lines)
	if parsed.Dropped > 0 {
		d.services.logger().Debug("decklist lines dropped", "lines", parsed.DroppedLines)
	}

	metadata, err := d.services.Lookup.LookupAll(subCtx, keys)
	if err != nil {
		if d.superseded(generation) {
			return nil, d.supersededError()
		}
		return nil, fmt.Errorf("failed to resolve decklist: %w", err)
	}

	deck := drawer.Expand(parsed.Lines, metadata, d.options.IDs)

	d.mu.Lock()
	if d.generation != generation {
		d.mu.Unlock()
		return nil, d.supersededError()
	}

	start := time.Now()
	session := drawer.NewSession(deck)
	sampler := drawer.NewSampler(deck, drawer.SamplerOptions{
		HandSize: d.options.HandSize,
		Mode:     d.options.Mode,
		Rand:     d.rng,
	})
	session.Append(sampler.DrawN(drawCount)...)

	d.parsed = parsed
	d.session = session
	d.sampler = sampler
	d.cancel = nil

	hands := session.Hands()
	current, _ := session.Current()
	snapshot := stats.AggregateScope(hands, d.options.Scope)
	d.mu.Unlock()

	if d.services.DrawMetrics != nil {
		d.services.DrawMetrics.RecordDraw(drawCount, time.Since(start))
	}

	d.services.logger().Info("deck submitted",
		"session", session.ID(),
		"lines", len(parsed.Lines),
		"dropped", parsed.Dropped,
		"cards", deck.Len(),
		"unique", len(keys),
		"hands", drawCount,
	)

	d.services.dispatch(events.NewTypedEvent(ctx, events.TypeDeckSubmitted, events.DeckSubmittedEvent{
		SessionID:   session.ID(),
		Lines:       len(parsed.Lines),
		Dropped:     parsed.Dropped,
		Cards:       deck.Len(),
		UniqueCards: len(keys),
	}))
	d.services.dispatch(events.NewTypedEvent(ctx, events.TypeHandsDrawn, events.HandsDrawnEvent{
		SessionID:  session.ID(),
		Drawn:      drawCount,
		TotalHands: len(hands),
		Current:    current.Labels(),
	}))

	return &SubmitResult{
		SessionID:   session.ID(),
		Lines:       parsed.Lines,
		Dropped:     parsed.Dropped,
		Cards:       deck.Len(),
		UniqueCards: len(keys),
		Drawn:       drawCount,
		Current:     current,
		Stats:       snapshot,
	}, nil
}

func (d *DrawFacade) superseded(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation != generation
}

func (d *DrawFacade) supersededError() error {
	if d.services.DrawMetrics != nil {
		d.services.DrawMetrics.Superseded.Add(1)
	}
	return &AppError{Message: "A newer decklist replaced this one", Err: ErrSuperseded}
}

// Draw appends drawCount hands to the current session.
func (d *DrawFacade) Draw(ctx context.Context, drawCount int) (*DrawResult, error) {
	if err := d.validateDrawCount(drawCount); err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.session == nil {
		d.mu.Unlock()
		return nil, &AppError{Message: "Submit a deck first", Err: ErrNoDeck}
	}

	start := time.Now()
	session := d.session
	session.Append(d.sampler.DrawN(drawCount)...)
	hands := session.Hands()
	current, _ := session.Current()
	snapshot := stats.AggregateScope(hands, d.options.Scope)
	d.mu.Unlock()

	if d.services.DrawMetrics != nil {
		d.services.DrawMetrics.RecordDraw(drawCount, time.Since(start))
	}

	d.services.dispatch(events.NewTypedEvent(ctx, events.TypeHandsDrawn, events.HandsDrawnEvent{
		SessionID:  session.ID(),
		Drawn:      drawCount,
		TotalHands: len(hands),
		Current:    current.Labels(),
	}))

	return &DrawResult{
		SessionID:  session.ID(),
		Drawn:      drawCount,
		TotalHands: len(hands),
		Current:    current,
		Stats:      snapshot,
	}, nil
}

// Stats aggregates the session under scope; "" uses the configured default.
// Without a deck every bucket is zero.
func (d *DrawFacade) Stats(scope string) (stats.Snapshot, error) {
	sc := d.options.Scope
	if scope != "" {
		parsed, err := stats.ParseScope(scope)
		if err != nil {
			return stats.Snapshot{}, &AppError{Message: err.Error(), Err: fmt.Errorf("%w: %v", ErrInvalidInput, err)}
		}
		sc = parsed
	}

	d.mu.Lock()
	session := d.session
	d.mu.Unlock()

	if session == nil {
		return stats.AggregateScope(nil, sc), nil
	}
	return stats.AggregateScope(session.Hands(), sc), nil
}

// CurrentHand returns the most recently drawn hand.
func (d *DrawFacade) CurrentHand() (drawer.Hand, error) {
	session := d.currentSession()
	if session == nil {
		return nil, &AppError{Message: "Submit a deck first", Err: ErrNoDeck}
	}
	hand, _ := session.Current()
	if hand == nil {
		hand = drawer.Hand{}
	}
	return hand, nil
}

// Hands returns up to limit of the most recent hands, oldest first.
// A non-positive limit returns the whole history.
func (d *DrawFacade) Hands(limit int) ([]drawer.Hand, error) {
	session := d.currentSession()
	if session == nil {
		return nil, &AppError{Message: "Submit a deck first", Err: ErrNoDeck}
	}
	if limit <= 0 {
		return session.Hands(), nil
	}
	return session.Last(limit), nil
}

// Deck describes the current deck.
func (d *DrawFacade) Deck() (*DeckView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, &AppError{Message: "Submit a deck first", Err: ErrNoDeck}
	}
	return &DeckView{
		SessionID:  d.session.ID(),
		Lines:      d.parsed.Lines,
		Entries:    d.session.Deck(),
		Cards:      d.session.Deck().Len(),
		TotalHands: d.session.Len(),
		CreatedAt:  d.session.CreatedAt(),
	}, nil
}

// Reset discards the current session and cancels any in-flight submission.
func (d *DrawFacade) Reset(ctx context.Context) {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.generation++
	var sessionID string
	if d.session != nil {
		sessionID = d.session.ID()
	}
	d.session = nil
	d.sampler = nil
	d.parsed = nil
	d.mu.Unlock()

	if sessionID != "" {
		d.services.dispatch(events.NewTypedEvent(ctx, events.TypeDeckCleared, events.DeckClearedEvent{
			SessionID: sessionID,
		}))
	}
}

// SessionState is a compact description of the current session, sent to
// websocket clients when they connect.
type SessionState struct {
	Active     bool           `json:"active"`
	SessionID  string         `json:"sessionId,omitempty"`
	Cards      int            `json:"cards"`
	TotalHands int            `json:"totalHands"`
	Current    []string       `json:"current,omitempty"`
	Stats      stats.Snapshot `json:"stats"`
}

// State returns the current session state.
func (d *DrawFacade) State() SessionState {
	session := d.currentSession()
	if session == nil {
		return SessionState{Stats: stats.AggregateScope(nil, d.options.Scope)}
	}

	hands := session.Hands()
	current, _ := session.Current()
	return SessionState{
		Active:     true,
		SessionID:  session.ID(),
		Cards:      session.Deck().Len(),
		TotalHands: len(hands),
		Current:    current.Labels(),
		Stats:      stats.AggregateScope(hands, d.options.Scope),
	}
}

func (d *DrawFacade) currentSession() *drawer.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}
