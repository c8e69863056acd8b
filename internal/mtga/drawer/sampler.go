package drawer

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	// DefaultHandSize is the size of an opening hand.
	DefaultHandSize = 7

	// MaxDrawCount is the largest number of hands one request may draw.
	MaxDrawCount = 10000
)

// ErrInvalidDrawCount is returned for a draw count outside [1, max].
var ErrInvalidDrawCount = errors.New("invalid draw count")

// ValidateDrawCount checks n against [1, limit]. A non-positive limit
// means MaxDrawCount.
func ValidateDrawCount(n, limit int) error {
	if limit <= 0 {
		limit = MaxDrawCount
	}
	if n < 1 || n > limit {
		return fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidDrawCount, n, limit)
	}
	return nil
}

// Hand is one sampled set of distinct deck entries.
type Hand []DeckEntry

// Labels returns the display label of every card in the hand.
func (h Hand) Labels() []string {
	labels := make([]string, len(h))
	for i, e := range h {
		labels[i] = e.Label()
	}
	return labels
}

// DrawMode selects how consecutive hands relate to each other.
type DrawMode string

const (
	// DrawIndependent samples every hand from the full deck.
	DrawIndependent DrawMode = "independent"

	// DrawConsume deals hands one after another from a shuffled deck and
	// reshuffles the full deck once too few cards remain for a hand.
	DrawConsume DrawMode = "consume"
)

// ParseDrawMode parses a draw mode name. The empty string means DrawIndependent.
func ParseDrawMode(s string) (DrawMode, error) {
	switch DrawMode(s) {
	case "", DrawIndependent:
		return DrawIndependent, nil
	case DrawConsume:
		return DrawConsume, nil
	default:
		return "", fmt.Errorf("unknown draw mode %q", s)
	}
}

// SamplerOptions configures a Sampler.
type SamplerOptions struct {
	// HandSize defaults to DefaultHandSize.
	HandSize int

	// Mode defaults to DrawIndependent.
	Mode DrawMode

	// Rand is the randomness source. Nil uses a randomly seeded PCG.
	Rand *rand.Rand
}

// Sampler draws hands from one deck. It is not safe for concurrent use.
type Sampler struct {
	deck     Deck
	handSize int
	mode     DrawMode
	rng      *rand.Rand

	// consume mode state
	order []int
	pos   int
}

// NewSampler creates a sampler for deck.
func NewSampler(deck Deck, options SamplerOptions) *Sampler {
	if options.HandSize <= 0 {
		options.HandSize = DefaultHandSize
	}
	if options.Mode == "" {
		options.Mode = DrawIndependent
	}
	if options.Rand == nil {
		options.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Sampler{
		deck:     deck,
		handSize: options.HandSize,
		mode:     options.Mode,
		rng:      options.Rand,
	}
}

// HandSize returns the number of cards in a hand, capped by the deck size.
func (s *Sampler) HandSize() int {
	return min(s.handSize, len(s.deck))
}

// Draw samples one hand. An empty deck yields an empty hand.
func (s *Sampler) Draw() Hand {
	if s.mode == DrawConsume {
		return s.deal()
	}
	return s.sample()
}

// DrawN draws k hands in order.
func (s *Sampler) DrawN(k int) []Hand {
	hands := make([]Hand, 0, max(k, 0))
	for i := 0; i < k; i++ {
		hands = append(hands, s.Draw())
	}
	return hands
}

// sample picks HandSize distinct entries uniformly with a partial
// Fisher-Yates shuffle over indices.
func (s *Sampler) sample() Hand {
	n := len(s.deck)
	m := s.HandSize()

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	hand := make(Hand, m)
	for i := 0; i < m; i++ {
		j := i + s.rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		hand[i] = s.deck[idx[i]]
	}
	return hand
}

func (s *Sampler) deal() Hand {
	m := s.HandSize()
	if m == 0 {
		return Hand{}
	}

	if s.order == nil || len(s.order)-s.pos < m {
		s.order = s.rng.Perm(len(s.deck))
		s.pos = 0
	}

	hand := make(Hand, m)
	for i := range hand {
		hand[i] = s.deck[s.order[s.pos+i]]
	}
	s.pos += m
	return hand
}
