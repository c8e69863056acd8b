package drawer

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the append-only history of hands drawn from one deck.
type Session struct {
	id        string
	deck      Deck
	createdAt time.Time

	mu    sync.RWMutex
	hands []Hand
}

// NewSession starts an empty history for deck.
func NewSession(deck Deck) *Session {
	return &Session{
		id:        uuid.NewString(),
		deck:      deck,
		createdAt: time.Now(),
		hands:     make([]Hand, 0),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Deck returns the session's deck.
func (s *Session) Deck() Deck {
	return s.deck
}

// CreatedAt returns when the session started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Append adds hands to the end of the history.
func (s *Session) Append(hands ...Hand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hands = append(s.hands, hands...)
}

// Hands returns a copy of the history, oldest first.
func (s *Session) Hands() []Hand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Hand, len(s.hands))
	copy(out, s.hands)
	return out
}

// Last returns up to n of the most recent hands, oldest first.
func (s *Session) Last(n int) []Hand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n = min(max(n, 0), len(s.hands))
	out := make([]Hand, n)
	copy(out, s.hands[len(s.hands)-n:])
	return out
}

// Current returns the most recently drawn hand.
func (s *Session) Current() (Hand, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.hands) == 0 {
		return nil, false
	}
	return s.hands[len(s.hands)-1], true
}

// Len returns the number of hands drawn.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hands)
}
